// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "github.com/pdiddy/one2xopp/pkg/notebook"

// FlattenOutline returns the elements of a nested outline item tree in
// document order, descending into each group before moving to the next
// sibling. It walks an explicit stack, so nesting depth is bounded only by
// memory. Items with neither an element nor a group are skipped.
func FlattenOutline(items []notebook.OutlineItem) []*notebook.OutlineElement {
	var out []*notebook.OutlineElement

	stack := make([]*notebook.OutlineItem, 0, len(items))
	stack = pushReversed(stack, items)
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case item.Element != nil:
			out = append(out, item.Element)
		case item.Group != nil:
			stack = pushReversed(stack, item.Group.Items)
		}
	}
	return out
}

// pushReversed pushes items so the first one ends up on top of the stack.
func pushReversed(stack []*notebook.OutlineItem, items []notebook.OutlineItem) []*notebook.OutlineItem {
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, &items[i])
	}
	return stack
}

func (r *Renderer) renderOutline(ps *pageState, o *notebook.Outline) {
	offset := notebook.Point{
		X: valueOr(o.OffsetHorizontal, 0),
		Y: valueOr(o.OffsetVertical, 0),
	}

	for _, el := range FlattenOutline(o.Items) {
		if len(el.Children) > 0 {
			ps.skipped++
			r.logger.Warn("outline element has children; table items are not rendered", "children", len(el.Children))
		}
		for i := range el.Contents {
			r.renderContent(ps, &el.Contents[i], offset)
		}
	}
}
