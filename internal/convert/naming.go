// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxNameBytes is the longest file name most filesystems accept.
const maxNameBytes = 255

var windowsReserved = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com0": true, "com1": true, "com2": true, "com3": true, "com4": true,
	"com5": true, "com6": true, "com7": true, "com8": true, "com9": true,
	"lpt0": true, "lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true,
	"lpt5": true, "lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
}

// Stem returns the base name of path without ext, or without its last
// extension when path does not end in ext.
func Stem(path, ext string) string {
	base := filepath.Base(path)
	if ext != "" && strings.HasSuffix(base, ext) && len(base) > len(ext) {
		return strings.TrimSuffix(base, ext)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PageFileName names the output of one page: "<stem> - <title>", with the
// title trimmed and slashes turned into underscores before sanitizing.
func PageFileName(stem, title string) string {
	title = strings.ReplaceAll(strings.TrimSpace(title), "/", "_")
	return SanitizeFilename(stem + " - " + title)
}

// SanitizeFilename makes name safe to use as a file name on common
// filesystems. It drops path separators, reserved punctuation and control
// characters, strips trailing dots and spaces, and truncates to 255 bytes.
// Names made only of dots become empty. Windows device names such as "con"
// or "COM1.txt" keep their text behind a "_" prefix rather than collapsing
// to an empty name.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/?<>\:*|"`, r):
			return -1
		case r < 0x20, r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, name)

	if strings.Trim(name, ".") == "" {
		return ""
	}

	device, _, _ := strings.Cut(name, ".")
	if windowsReserved[strings.ToLower(device)] {
		name = "_" + name
	}

	name = strings.TrimRight(name, ". ")
	return truncate(name, maxNameBytes)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
