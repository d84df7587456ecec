package document

import "sync"

// Element is any node of the tree: a Block, a Line or an Inline.
type Element interface{ element() }

// Block is a top-level or section-level node.
type Block interface {
	Element
	block()
}

// Section is a titled, nestable region. Size follows heading depth:
// 1 is the shallowest. In a fully assembled tree every descendant
// section has a strictly greater size than its ancestors, though the
// difference need not be exactly one.
type Section struct {
	Header   Header
	Metadata *Metadata
	Blocks   []Block
}

// Header is a section heading with its anchor slug.
type Header struct {
	Size   int
	Line   Line
	Anchor string
}

// RefTarget returns a reference link pointing at this header.
func (h Header) RefTarget() *RefLink {
	return &RefLink{Description: h.Line, Reference: h.Anchor}
}

func (s *Section) AddBlock(b Block) {
	if _, null := b.(*Null); null {
		return
	}
	s.Blocks = append(s.Blocks, b)
}

// HiddenInTOC reports whether the section opted out of the table of
// contents via [toc-hidden] metadata.
func (s *Section) HiddenInTOC() bool {
	return s.Metadata.GetBool("toc-hidden")
}

// Paragraph is a run of lines with no surrounding structure.
type Paragraph struct {
	Lines []Line
}

func (p *Paragraph) AddLine(l Line) { p.Lines = append(p.Lines, l) }

// List is an ordered or unordered item forest.
type List struct {
	Ordered bool
	Items   []*ListItem
}

func (l *List) AddItem(item *ListItem) { l.Items = append(l.Items, item) }

// ListItem carries its indentation level so the assembler can
// reconstruct nesting from the flat sequence the grammar emits. In the
// final forest every child's level is strictly greater than its
// parent's.
type ListItem struct {
	Text     Line
	Level    int
	Ordered  bool
	Children []*ListItem
}

func (i *ListItem) AddChild(child *ListItem) { i.Children = append(i.Children, child) }

// Table has a fixed column count set by its header row.
type Table struct {
	Header *Row
	Rows   []*Row
}

func (t *Table) AddRow(r *Row) { t.Rows = append(t.Rows, r) }

type Row struct {
	Cells []Cell
}

func (r *Row) AddCell(c Cell) { r.Cells = append(r.Cells, c) }

type Cell struct {
	Text Line
}

// CodeBlock is a fenced code block with an optional language tag.
type CodeBlock struct {
	Language string
	Code     string
}

// MathBlock holds a raw math expression; interpreting the expression
// is the renderer's business.
type MathBlock struct {
	Expression string
}

// Quote is a group of quoted lines with optional metadata (author,
// source).
type Quote struct {
	Metadata *Metadata
	Lines    []*TextLine
}

func (q *Quote) AddLine(l *TextLine) { q.Lines = append(q.Lines, l) }

// Import is the tree node for one document import directive. Anchor is
// empty until the spawned child parse installs its result.
type Import struct {
	Path   string
	Anchor *ImportAnchor
}

// Null is the no-op block produced by directives that leave no node
// (non-document imports, dropped cycles). It never enters a tree.
type Null struct{}

// Placeholder is a shared write-once cell: the registry entry and
// every tree occurrence point at the same value. The resolution pass
// fills it exactly once.
type Placeholder struct {
	Name     string
	Metadata *Metadata

	mu     sync.RWMutex
	value  Element
	filled bool
}

func NewPlaceholder(name string, meta *Metadata) *Placeholder {
	return &Placeholder{Name: name, Metadata: meta}
}

// HasValue reports whether the cell has been resolved. Renderers treat
// an unresolved cell as a normal state, never an error.
func (p *Placeholder) HasValue() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filled
}

// Value returns the resolved content, nil while unresolved.
func (p *Placeholder) Value() Element {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Resolve fills the cell; only the first call has an effect.
func (p *Placeholder) Resolve(value Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filled {
		return
	}
	p.value = value
	p.filled = true
}

func (*Section) element()     {}
func (*Paragraph) element()   {}
func (*List) element()        {}
func (*Table) element()       {}
func (*CodeBlock) element()   {}
func (*MathBlock) element()   {}
func (*Quote) element()       {}
func (*Import) element()      {}
func (*Null) element()        {}
func (*Placeholder) element() {}

func (*Section) block()     {}
func (*Paragraph) block()   {}
func (*List) block()        {}
func (*Table) block()       {}
func (*CodeBlock) block()   {}
func (*MathBlock) block()   {}
func (*Quote) block()       {}
func (*Import) block()      {}
func (*Null) block()        {}
func (*Placeholder) block() {}
