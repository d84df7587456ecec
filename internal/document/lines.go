package document

import "github.com/inkdown/inkdown/internal/refs"

// Line is one parsed line inside a paragraph, list item or table cell.
type Line interface {
	Element
	line()
}

// TextLine is a run of inline spans.
type TextLine struct {
	Spans []Inline
}

func (t *TextLine) AddSpan(s Inline) { t.Spans = append(t.Spans, s) }

// Ruler is a horizontal rule ("- - -").
type Ruler struct{}

// Centered is a line rendered centered ("||text").
type Centered struct {
	Line *TextLine
}

// RefLink points at a section anchor; produced for table-of-contents
// entries.
type RefLink struct {
	Description Line
	Reference   string
}

// AnchorLine wraps a line with a link target key; produced for
// glossary listings.
type AnchorLine struct {
	Inner Line
	Key   string
}

// BibEntryLine is a bibliography definition line ("[key]: ...").
type BibEntryLine struct {
	Key   string
	Entry *refs.BibEntry
}

func (*TextLine) element()     {}
func (*Ruler) element()        {}
func (*Centered) element()     {}
func (*RefLink) element()      {}
func (*AnchorLine) element()   {}
func (*BibEntryLine) element() {}

func (*TextLine) line()     {}
func (*Ruler) line()        {}
func (*Centered) line()     {}
func (*RefLink) line()      {}
func (*AnchorLine) line()   {}
func (*BibEntryLine) line() {}
