// Package assemble turns flat parse output into its final tree shape:
// list items into an item forest, top-level blocks into nested
// sections, and filled imports into spliced child documents.
package assemble

import (
	"github.com/inkdown/inkdown/internal/document"
)

// BuildListForest nests a flat, textually ordered item sequence by
// indentation level. Levels do not need to be contiguous: an item is
// the child of the nearest preceding item with a smaller level, and
// siblings keep their textual order.
func BuildListForest(items []*document.ListItem) []*document.ListItem {
	var roots []*document.ListItem
	var stack []*document.ListItem
	for _, item := range items {
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.Level < item.Level {
				break
			}
			stack = stack[:len(stack)-1]
			if top.Level == item.Level {
				if len(stack) == 0 {
					roots = append(roots, top)
				} else {
					stack[len(stack)-1].AddChild(top)
				}
				break
			}
			// top is deeper than the new item, fold it into its parent
			if len(stack) == 0 {
				item.AddChild(top)
			} else {
				stack[len(stack)-1].AddChild(top)
			}
		}
		stack = append(stack, item)
	}
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack[len(stack)-1].AddChild(top)
	}
	if len(stack) == 1 {
		roots = append(roots, stack[0])
	}
	return roots
}

// Renest rewrites the document's top-level block sequence. Filled
// imports are replaced in place by the blocks of their child document,
// which then run through the same pass so they nest at the splice
// point. Sections deeper than the most recent top-level section are
// grafted below it; other blocks attach to the open section.
func Renest(doc *document.Document) {
	work := make([]document.Block, len(doc.Blocks))
	copy(work, doc.Blocks)

	var out []document.Block
	var open *document.Section
	for len(work) > 0 {
		block := work[0]
		work = work[1:]
		switch b := block.(type) {
		case *document.Section:
			if open != nil && b.Header.Size > open.Header.Size {
				graft(open, b)
			} else {
				out = append(out, b)
				open = b
			}
		case *document.Import:
			if !b.Anchor.Filled() {
				// never filled, dropped silently
				continue
			}
			child := b.Anchor.Take()
			doc.Placeholders = append(doc.Placeholders, child.Placeholders...)
			doc.Stylesheets = append(doc.Stylesheets, child.Stylesheets...)
			spliced := make([]document.Block, 0, len(child.Blocks)+len(work))
			spliced = append(spliced, child.Blocks...)
			spliced = append(spliced, work...)
			work = spliced
		case *document.Null:
		default:
			if open != nil {
				open.AddBlock(block)
			} else {
				out = append(out, block)
			}
		}
	}
	doc.Blocks = out
}

// graft inserts a deeper section below parent. When intermediate
// levels exist the most recently added matching child recurses;
// otherwise the section attaches directly, tolerating gaps in heading
// sizes.
func graft(parent, section *document.Section) {
	if section.Header.Size == parent.Header.Size+1 {
		parent.AddBlock(section)
		return
	}
	for i := len(parent.Blocks) - 1; i >= 0; i-- {
		child, ok := parent.Blocks[i].(*document.Section)
		if !ok {
			continue
		}
		if child.Header.Size > parent.Header.Size && child.Header.Size < section.Header.Size {
			graft(child, section)
			return
		}
	}
	parent.AddBlock(section)
}
