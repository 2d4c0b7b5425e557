// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/base64"
	"fmt"

	"github.com/pdiddy/one2xopp/pkg/notebook"
)

// defaultImageSize applies to images without a layout width or height.
const defaultImageSize = 100.0

// Box is an axis-aligned rectangle in page units.
type Box struct {
	Left, Top, Right, Bottom float32
}

// ImageBox computes the placement of img. outline is the offset of the
// enclosing outline, zero for images placed directly on the page.
func (r *Renderer) ImageBox(img *notebook.Image, outline notebook.Point) Box {
	width := valueOr(img.LayoutMaxWidth, defaultImageSize) * r.cfg.ImageScalingFactor()
	height := valueOr(img.LayoutMaxHeight, defaultImageSize) * r.cfg.ImageScalingFactor()

	// Each product is rounded to float32 before the sum, never fused.
	left := float32(valueOr(img.OffsetHorizontal, 0)*r.cfg.ImageOffsetFactor()) +
		float32(outline.X*r.cfg.OutlineOffsetFactor())
	top := float32(valueOr(img.OffsetVertical, 0)*r.cfg.ImageOffsetFactor()) +
		float32(outline.Y*r.cfg.OutlineOffsetFactor())

	return Box{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

func (r *Renderer) renderImage(ps *pageState, img *notebook.Image, outline notebook.Point) {
	box := r.ImageBox(img, outline)

	fmt.Fprintf(&ps.body, "<image left=\"%s\" top=\"%s\" right=\"%s\" bottom=\"%s\">",
		formatFloat(ps.size.X(box.Left)),
		formatFloat(ps.size.Y(box.Top)),
		formatFloat(ps.size.X(box.Right)),
		formatFloat(ps.size.Y(box.Bottom)))
	ps.body.WriteString(base64.StdEncoding.EncodeToString(img.Data))
	ps.body.WriteString("</image>\n")
	ps.images++
}
