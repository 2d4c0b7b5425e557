// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "strconv"

// formatFloat writes f as the shortest decimal that round-trips at float32
// precision, without exponent ("100", "1.41", "595.2756").
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// valueOr dereferences p, falling back to def when p is nil.
func valueOr(p *float32, def float32) float32 {
	if p == nil {
		return def
	}
	return *p
}
