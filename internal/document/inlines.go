package document

import (
	"github.com/inkdown/inkdown/internal/downloads"
	"github.com/inkdown/inkdown/internal/refs"
)

// Inline is one formatting span within a line.
type Inline interface {
	Element
	inline()
}

// Plain is unformatted text.
type Plain struct {
	Text string
}

// Bold, Italic, Underline, Strike, Superscript wrap nested spans.
type Bold struct{ Spans []Inline }
type Italic struct{ Spans []Inline }
type Underline struct{ Spans []Inline }
type Strike struct{ Spans []Inline }
type Superscript struct{ Spans []Inline }

// Monospace is inline code; its content is never reparsed.
type Monospace struct {
	Text string
}

// URL is a link with an optional description.
type URL struct {
	Description []Inline
	Target      string
}

// Image records the target and a pending embed job; the parser never
// fetches.
type Image struct {
	URL      URL
	Metadata *Metadata
	Download *downloads.Pending
}

// Checkbox is "[x]" or "[ ]".
type Checkbox struct {
	Checked bool
}

// Emoji is a ":name:" shortcode resolved against the built-in table.
type Emoji struct {
	Value rune
	Name  string
}

// Colored renders its spans in the given color ("§[red]...").
type Colored struct {
	Color string
	Spans []Inline
}

// Math is an inline math expression.
type Math struct {
	Expression string
}

// CharacterCode is an "&code;" escape kept verbatim for the renderer.
type CharacterCode struct {
	Code string
}

// Arrow is one of the smart arrow tokens ("-->", "<==>", ...).
type Arrow struct {
	Kind string
}

// BibReference wraps the shared citation cell.
type BibReference struct {
	Ref *refs.BibRef
}

// GlossaryReference wraps the shared glossary cell.
type GlossaryReference struct {
	Ref *refs.GlossaryRef
}

func (*Plain) element()             {}
func (*Bold) element()              {}
func (*Italic) element()            {}
func (*Underline) element()         {}
func (*Strike) element()            {}
func (*Superscript) element()       {}
func (*Monospace) element()         {}
func (*URL) element()               {}
func (*Image) element()             {}
func (*Checkbox) element()          {}
func (*Emoji) element()             {}
func (*Colored) element()           {}
func (*Math) element()              {}
func (*CharacterCode) element()     {}
func (*Arrow) element()             {}
func (*BibReference) element()      {}
func (*GlossaryReference) element() {}

func (*Plain) inline()             {}
func (*Bold) inline()              {}
func (*Italic) inline()            {}
func (*Underline) inline()         {}
func (*Strike) inline()            {}
func (*Superscript) inline()       {}
func (*Monospace) inline()         {}
func (*URL) inline()               {}
func (*Image) inline()             {}
func (*Checkbox) inline()          {}
func (*Emoji) inline()             {}
func (*Colored) inline()           {}
func (*Math) inline()              {}
func (*CharacterCode) inline()     {}
func (*Arrow) inline()             {}
func (*BibReference) inline()      {}
func (*GlossaryReference) inline() {}

// A placeholder occurs both at block position and inline.
func (*Placeholder) inline() {}

// TemplateVariable occurrences are inline spans.
func (*TemplateVariable) element() {}
func (*TemplateVariable) inline() {}
