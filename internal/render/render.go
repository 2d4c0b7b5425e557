// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns notebook pages into Xournal++ page markup.
//
// A Renderer holds the immutable geometry parameters. Each source document
// gets its own Document, which numbers untitled pages in document order.
// Pages render independently: every page gets a fresh SizeTracker that sizes
// the canvas to the content it holds.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/one2xopp/pkg/notebook"
	"github.com/pdiddy/one2xopp/pkg/types"
)

const (
	untitledFormat = "Untitled Page %d"

	backgroundTag = `<background type="solid" color="#ffffffff" style="graph"/>`
)

// Renderer renders pages with a fixed configuration. It is safe for
// concurrent use; per-document state lives in Document.
type Renderer struct {
	cfg    types.RenderConfig
	logger *log.Logger
}

// New creates a Renderer. A nil logger discards diagnostics.
func New(cfg types.RenderConfig, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() types.RenderConfig {
	return r.cfg
}

// Page is one rendered page block.
type Page struct {
	Title  string
	Markup string

	// Width and Height are the declared page size, padding included.
	Width  float32
	Height float32

	Strokes int
	Images  int
	// Skipped counts content the renderer logged and left out.
	Skipped int
	// Dropped counts strokes with fewer than two points.
	Dropped int
}

// pageState is the mutable state of one page while it renders.
type pageState struct {
	size *SizeTracker
	body strings.Builder

	strokes int
	images  int
	skipped int
	dropped int
}

// Document renders the pages of one source document. The untitled page
// counter is scoped to the document, not to a page series.
type Document struct {
	r        *Renderer
	untitled int
}

// NewDocument starts a render context for one source document.
func (r *Renderer) NewDocument() *Document {
	return &Document{r: r}
}

// Title returns the title of p, assigning the next "Untitled Page N" when p
// has none. Call it once per page, in document order.
func (d *Document) Title(p *notebook.Page) string {
	if t, ok := p.TitleText(); ok {
		return t
	}
	d.untitled++
	return fmt.Sprintf(untitledFormat, d.untitled)
}

// RenderPage titles and renders p.
func (d *Document) RenderPage(p *notebook.Page) Page {
	title := d.Title(p)
	page := d.r.RenderPage(p)
	page.Title = title
	return page
}

// RenderSection renders every page of s in document order.
func (r *Renderer) RenderSection(s *notebook.Section) []Page {
	doc := r.NewDocument()
	pages := make([]Page, 0, s.PageCount())
	for i := range s.PageSeries {
		series := &s.PageSeries[i]
		for j := range series.Pages {
			pages = append(pages, doc.RenderPage(&series.Pages[j]))
		}
	}
	return pages
}

// RenderPage renders the contents of p into a page block. The result has
// no title; Document.RenderPage assigns one.
func (r *Renderer) RenderPage(p *notebook.Page) Page {
	ps := &pageState{size: NewSizeTracker(r.cfg.MinPageWidth, r.cfg.MinPageHeight)}
	for i := range p.Contents {
		r.renderPageContent(ps, &p.Contents[i])
	}

	w, h := ps.size.Size()
	width := w + r.cfg.PagePadding
	height := h + r.cfg.PagePadding

	var b strings.Builder
	b.Grow(ps.body.Len() + 128)
	fmt.Fprintf(&b, "<page width=\"%s\" height=\"%s\">\n", formatFloat(width), formatFloat(height))
	b.WriteString(backgroundTag)
	b.WriteString("\n<layer>\n")
	b.WriteString(ps.body.String())
	b.WriteString("</layer>\n</page>\n")

	return Page{
		Markup:  b.String(),
		Width:   width,
		Height:  height,
		Strokes: ps.strokes,
		Images:  ps.images,
		Skipped: ps.skipped,
		Dropped: ps.dropped,
	}
}
