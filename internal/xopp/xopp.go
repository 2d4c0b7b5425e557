// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xopp writes and reads Xournal++ session files.
//
// A .xopp file is a single-member gzip stream holding the XML document. The
// gzip header carries the inner file name "<name>.xml" and the comment
// "Output file". The header name is stored as Latin-1 bytes, so "ö" is the
// single byte 0xf6 and runes outside Latin-1 become '_'.
package xopp

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// Ext is the extension of compressed session files.
	Ext = ".xopp"
	// XMLExt is the extension of the uncompressed debug dump.
	XMLExt = ".xml"

	headerComment = "Output file"

	xmlDecl  = `<?xml version="1.0" standalone="no"?>`
	rootOpen = `<xournal creator="Xournal++ 1.1.3" fileversion="4">`
	titleTag = `<title>Xournal++ document - see https://github.com/xournalpp/xournalpp</title>`
	rootEnd  = `</xournal>`
)

// Document wraps concatenated page blocks in the xournal envelope.
func Document(pages ...string) []byte {
	n := len(xmlDecl) + len(rootOpen) + len(titleTag) + len(rootEnd) + 3
	for _, p := range pages {
		n += len(p)
	}

	var b bytes.Buffer
	b.Grow(n)
	b.WriteString(xmlDecl)
	b.WriteByte('\n')
	b.WriteString(rootOpen)
	b.WriteByte('\n')
	b.WriteString(titleTag)
	b.WriteByte('\n')
	for _, p := range pages {
		b.WriteString(p)
	}
	b.WriteString(rootEnd)
	return b.Bytes()
}

// Encode compresses markup into w as a .xopp container whose inner file is
// named name+".xml".
func Encode(w io.Writer, name string, markup []byte) error {
	gz, err := gzip.NewWriterLevel(w, gzip.DefaultCompression)
	if err != nil {
		return err
	}
	gz.Name = headerName(name + XMLExt)
	gz.Comment = headerComment

	if _, err := gz.Write(markup); err != nil {
		gz.Close()
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finishing %s: %w", name, err)
	}
	return nil
}

// WriteFile writes markup to dir/name.xopp and, when withXML is set, the
// plain markup to dir/name.xml. It returns the paths written. A failed
// container write removes the partial file.
func WriteFile(dir, name string, markup []byte, withXML bool) (paths []string, err error) {
	base := filepath.Join(dir, name)

	if withXML {
		xmlPath := base + XMLExt
		if err := os.WriteFile(xmlPath, markup, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", xmlPath, err)
		}
		paths = append(paths, xmlPath)
	}

	path := base + Ext
	f, err := os.Create(path)
	if err != nil {
		return paths, fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := Encode(f, name, markup); err != nil {
		return paths, fmt.Errorf("writing %s: %w", path, err)
	}
	return append(paths, path), nil
}

// headerName maps name into Latin-1, which the gzip header requires.
// Characters outside it become '_'.
func headerName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == 0 || r > 0xff || r == utf8.RuneError {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
