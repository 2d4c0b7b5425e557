// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "github.com/pdiddy/one2xopp/pkg/notebook"

func (r *Renderer) renderPageContent(ps *pageState, c *notebook.PageContent) {
	switch c.Kind() {
	case notebook.KindOutline:
		r.renderOutline(ps, c.Outline)
	case notebook.KindImage:
		r.renderImage(ps, c.Image, notebook.Point{})
	case notebook.KindEmbeddedFile:
		r.unsupported(ps, notebook.KindEmbeddedFile, "page")
	case notebook.KindInk:
		r.renderInk(ps, c.Ink)
	default:
		r.unsupported(ps, notebook.KindUnknown, "page")
	}
}

// renderContent renders one item of an outline element. outline is the
// offset of the enclosing outline.
func (r *Renderer) renderContent(ps *pageState, c *notebook.Content, outline notebook.Point) {
	switch c.Kind() {
	case notebook.KindImage:
		r.renderImage(ps, c.Image, outline)
	case notebook.KindInk:
		r.renderInk(ps, c.Ink)
	case notebook.KindRichText, notebook.KindTable, notebook.KindEmbeddedFile:
		r.unsupported(ps, c.Kind(), "outline")
	default:
		r.unsupported(ps, notebook.KindUnknown, "outline")
	}
}

// unsupported logs content the renderer does not draw. It emits nothing,
// and sibling content renders as usual.
func (r *Renderer) unsupported(ps *pageState, kind notebook.Kind, parent string) {
	ps.skipped++
	if kind == notebook.KindUnknown {
		r.logger.Warn("skipping unknown content", "in", parent)
		return
	}
	r.logger.Warn("rendering not implemented", "kind", kind, "in", parent)
}
