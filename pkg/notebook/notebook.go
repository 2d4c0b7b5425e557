// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook defines the read-only entity graph of a parsed notebook
// section: page series, pages and the nested content trees on each page.
//
// Every geometry field is independently optional. A nil pointer means the
// source did not carry the value and consumers apply their own fallback.
// Order is significant in every slice.
package notebook

// Section is one parsed notebook section file.
type Section struct {
	DisplayName string       `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	PageSeries  []PageSeries `json:"page_series" yaml:"page_series"`
}

// PageSeries is an ordered run of pages within a section.
type PageSeries struct {
	Pages []Page `json:"pages" yaml:"pages"`
}

// Page is a single notebook page.
type Page struct {
	// Title is the page title text, nil when the page has none.
	Title    *string       `json:"title,omitempty" yaml:"title,omitempty"`
	Contents []PageContent `json:"contents" yaml:"contents"`
}

// TitleText returns the page title and whether the page has one.
func (p *Page) TitleText() (string, bool) {
	if p.Title == nil {
		return "", false
	}
	return *p.Title, true
}

// PageCount returns the number of pages across all page series.
func (s *Section) PageCount() int {
	n := 0
	for _, ps := range s.PageSeries {
		n += len(ps.Pages)
	}
	return n
}

// Kind discriminates the variants of PageContent and Content.
type Kind string

const (
	KindOutline      Kind = "outline"
	KindImage        Kind = "image"
	KindEmbeddedFile Kind = "embedded_file"
	KindInk          Kind = "ink"
	KindRichText     Kind = "rich_text"
	KindTable        Kind = "table"
	KindUnknown      Kind = "unknown"
)

// PageContent is a top-level item on a page. Exactly one field is set; a
// value with none set is the unknown variant.
type PageContent struct {
	Outline      *Outline      `json:"outline,omitempty" yaml:"outline,omitempty"`
	Image        *Image        `json:"image,omitempty" yaml:"image,omitempty"`
	EmbeddedFile *EmbeddedFile `json:"embedded_file,omitempty" yaml:"embedded_file,omitempty"`
	Ink          *Ink          `json:"ink,omitempty" yaml:"ink,omitempty"`
}

// Kind reports which variant c holds.
func (c PageContent) Kind() Kind {
	switch {
	case c.Outline != nil:
		return KindOutline
	case c.Image != nil:
		return KindImage
	case c.EmbeddedFile != nil:
		return KindEmbeddedFile
	case c.Ink != nil:
		return KindInk
	default:
		return KindUnknown
	}
}

// Outline is a positioned group of content elements.
type Outline struct {
	OffsetHorizontal *float32     `json:"offset_horizontal,omitempty" yaml:"offset_horizontal,omitempty"`
	OffsetVertical   *float32     `json:"offset_vertical,omitempty" yaml:"offset_vertical,omitempty"`
	Items            []OutlineItem `json:"items" yaml:"items"`
}

// OutlineItem is either a leaf element or a nested group of items.
type OutlineItem struct {
	Element *OutlineElement `json:"element,omitempty" yaml:"element,omitempty"`
	Group   *OutlineGroup   `json:"group,omitempty" yaml:"group,omitempty"`
}

// OutlineGroup nests further outline items.
type OutlineGroup struct {
	Items []OutlineItem `json:"items" yaml:"items"`
}

// OutlineElement carries the renderable content of one outline entry.
// Children hold table-like sub-items.
type OutlineElement struct {
	Contents []Content     `json:"contents" yaml:"contents"`
	Children []OutlineItem `json:"children,omitempty" yaml:"children,omitempty"`
}

// Content is an item inside an outline element. Exactly one field is set;
// a value with none set is the unknown variant.
type Content struct {
	RichText     *RichText     `json:"rich_text,omitempty" yaml:"rich_text,omitempty"`
	Image        *Image        `json:"image,omitempty" yaml:"image,omitempty"`
	EmbeddedFile *EmbeddedFile `json:"embedded_file,omitempty" yaml:"embedded_file,omitempty"`
	Table        *Table        `json:"table,omitempty" yaml:"table,omitempty"`
	Ink          *Ink          `json:"ink,omitempty" yaml:"ink,omitempty"`
}

// Kind reports which variant c holds.
func (c Content) Kind() Kind {
	switch {
	case c.RichText != nil:
		return KindRichText
	case c.Image != nil:
		return KindImage
	case c.EmbeddedFile != nil:
		return KindEmbeddedFile
	case c.Table != nil:
		return KindTable
	case c.Ink != nil:
		return KindInk
	default:
		return KindUnknown
	}
}

// Image is an embedded picture.
type Image struct {
	Data             Blob     `json:"data,omitempty" yaml:"data,omitempty"`
	LayoutMaxWidth   *float32 `json:"layout_max_width,omitempty" yaml:"layout_max_width,omitempty"`
	LayoutMaxHeight  *float32 `json:"layout_max_height,omitempty" yaml:"layout_max_height,omitempty"`
	OffsetHorizontal *float32 `json:"offset_horizontal,omitempty" yaml:"offset_horizontal,omitempty"`
	OffsetVertical   *float32 `json:"offset_vertical,omitempty" yaml:"offset_vertical,omitempty"`
}

// Ink is a freehand drawing made of strokes.
type Ink struct {
	OffsetHorizontal *float32    `json:"offset_horizontal,omitempty" yaml:"offset_horizontal,omitempty"`
	OffsetVertical   *float32    `json:"offset_vertical,omitempty" yaml:"offset_vertical,omitempty"`
	Strokes          []InkStroke `json:"strokes" yaml:"strokes"`
}

// InkStroke is a polyline. Path[0] is absolute, every later point is a
// delta from the previous one.
type InkStroke struct {
	Path  []Point `json:"path" yaml:"path"`
	Color *uint32 `json:"color,omitempty" yaml:"color,omitempty"`
	// Width is the recorded pen width. Renderers may ignore it.
	Width *float32 `json:"width,omitempty" yaml:"width,omitempty"`
}

// Point is a 2-D coordinate in ink path units.
type Point struct {
	X float32
	Y float32
}

// RichText is a formatted text run.
type RichText struct {
	Text string `json:"text" yaml:"text"`
}

// Table is a grid of cells.
type Table struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// EmbeddedFile is a file attachment.
type EmbeddedFile struct {
	Filename string `json:"filename" yaml:"filename"`
	Data     Blob   `json:"data,omitempty" yaml:"data,omitempty"`
}
