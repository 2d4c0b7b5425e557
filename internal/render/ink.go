// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/pdiddy/one2xopp/pkg/notebook"
)

const (
	// baseInkWidth is the pen width before InkWidthFactor. Per-point
	// pressure and the recorded stroke width are not used.
	baseInkWidth = 1.41
	inkTool      = "pen"
	defaultColor = "black"

	// Paths with fewer points repeat their last pair once.
	minStrokePairs = 4
)

// DecodeStroke converts a delta-coded path into page coordinates. The ink
// offset is added to the first point only; every cumulative point is then
// multiplied by scale. Paths shorter than two points yield nil.
func DecodeStroke(path []notebook.Point, offset notebook.Point, offsetFactor, scale float32) []notebook.Point {
	if len(path) < 2 {
		return nil
	}

	// The conversions round each product before the add; no fused multiply-add.
	lastX := path[0].X + float32(offset.X*offsetFactor)
	lastY := path[0].Y + float32(offset.Y*offsetFactor)

	out := make([]notebook.Point, 0, len(path)+1)
	out = append(out, notebook.Point{X: lastX * scale, Y: lastY * scale})
	for _, p := range path[1:] {
		out = append(out, notebook.Point{X: (lastX + p.X) * scale, Y: (lastY + p.Y) * scale})
		lastX += p.X
		lastY += p.Y
	}
	if len(path) < minStrokePairs {
		out = append(out, out[len(out)-1])
	}
	return out
}

// StrokeColor unpacks a little-endian RGB integer into "#rrggbbff". Each
// component is printed in lowercase hex without zero padding, so 255 is
// "#ff00ff". A nil color is "black".
func StrokeColor(c *uint32) string {
	if c == nil {
		return defaultColor
	}
	v := *c
	r := v % 256
	rem := (v - r) / 256
	g := rem % 256
	rem = (rem - g) / 256
	b := rem % 256
	return fmt.Sprintf("#%x%x%xff", r, g, b)
}

func (r *Renderer) renderInk(ps *pageState, ink *notebook.Ink) {
	if len(ink.Strokes) == 0 {
		return
	}

	offset := notebook.Point{
		X: valueOr(ink.OffsetHorizontal, 0),
		Y: valueOr(ink.OffsetVertical, 0),
	}
	width := formatFloat(baseInkWidth * r.cfg.InkWidthFactor)

	for i := range ink.Strokes {
		stroke := &ink.Strokes[i]
		coords := DecodeStroke(stroke.Path, offset, r.cfg.InkOffsetFactor(), r.cfg.InkScalingFactor())
		if coords == nil {
			ps.dropped++
			r.logger.Debug("dropping stroke", "points", len(stroke.Path))
			continue
		}

		fmt.Fprintf(&ps.body, "<stroke tool=\"%s\" color=\"%s\" width=\"%s\">", inkTool, StrokeColor(stroke.Color), width)
		for _, p := range coords {
			ps.body.WriteString(formatFloat(ps.size.X(p.X)))
			ps.body.WriteByte(' ')
			ps.body.WriteString(formatFloat(ps.size.Y(p.Y)))
			ps.body.WriteByte(' ')
		}
		ps.body.WriteString("</stroke>\n")
		ps.strokes++
	}
}
