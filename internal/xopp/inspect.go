// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xopp

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	exprRoot   = xpath.MustCompile("/xournal")
	exprPages  = xpath.MustCompile("/xournal/page")
	exprLayers = xpath.MustCompile("layer")
	exprStroke = xpath.MustCompile("layer/stroke")
	exprImage  = xpath.MustCompile("layer/image")
	exprBg     = xpath.MustCompile("background")
)

// Summary describes a session file.
type Summary struct {
	// Name and Comment come from the gzip header; both are empty for plain XML.
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	Creator     string        `json:"creator" yaml:"creator"`
	FileVersion string        `json:"file_version" yaml:"file_version"`
	Pages       []PageSummary `json:"pages" yaml:"pages"`
}

// PageSummary describes one page of a session file.
type PageSummary struct {
	Width      float64 `json:"width" yaml:"width"`
	Height     float64 `json:"height" yaml:"height"`
	Background string  `json:"background" yaml:"background"`
	Layers     int     `json:"layers" yaml:"layers"`
	Strokes    int     `json:"strokes" yaml:"strokes"`
	Images     int     `json:"images" yaml:"images"`
}

// Strokes returns the stroke count over all pages.
func (s *Summary) Strokes() int {
	n := 0
	for _, p := range s.Pages {
		n += p.Strokes
	}
	return n
}

// Images returns the image count over all pages.
func (s *Summary) Images() int {
	n := 0
	for _, p := range s.Pages {
		n += p.Images
	}
	return n
}

// InspectFile reads a .xopp file and summarizes its document.
func InspectFile(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	s, err := Inspect(f)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	return s, nil
}

// Inspect decompresses a .xopp stream and summarizes its document.
func Inspect(r io.Reader) (*Summary, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading gzip header: %w", err)
	}
	defer gz.Close()

	s, err := InspectMarkup(gz)
	if err != nil {
		return nil, err
	}
	s.Name = gz.Name
	s.Comment = gz.Comment
	return s, nil
}

// InspectMarkup summarizes an uncompressed xournal document.
func InspectMarkup(r io.Reader) (*Summary, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	root := xmlquery.QuerySelector(doc, exprRoot)
	if root == nil {
		return nil, fmt.Errorf("missing xournal root element")
	}

	s := &Summary{
		Creator:     root.SelectAttr("creator"),
		FileVersion: root.SelectAttr("fileversion"),
	}

	for i, page := range xmlquery.QuerySelectorAll(doc, exprPages) {
		width, err := floatAttr(page, "width")
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		height, err := floatAttr(page, "height")
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		ps := PageSummary{
			Width:   width,
			Height:  height,
			Layers:  len(xmlquery.QuerySelectorAll(page, exprLayers)),
			Strokes: len(xmlquery.QuerySelectorAll(page, exprStroke)),
			Images:  len(xmlquery.QuerySelectorAll(page, exprImage)),
		}
		if bg := xmlquery.QuerySelector(page, exprBg); bg != nil {
			ps.Background = bg.SelectAttr("type")
		}
		s.Pages = append(s.Pages, ps)
	}
	return s, nil
}

func floatAttr(n *xmlquery.Node, name string) (float64, error) {
	v := n.SelectAttr(name)
	if v == "" {
		return 0, fmt.Errorf("missing %s attribute", name)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return f, nil
}
