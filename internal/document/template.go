package document

import "sync"

// TemplateVariable is the transient cell behind one "{prefix{name}suffix}"
// occurrence. Rendering a template binds it, freezes the occurrences
// into snapshots and resets it again, so one template can be expanded
// with different replacement sets.
type TemplateVariable struct {
	Prefix string
	Name   string
	Suffix string

	mu    sync.RWMutex
	value Element
	bound bool
}

func NewTemplateVariable(prefix, name, suffix string) *TemplateVariable {
	return &TemplateVariable{Prefix: prefix, Name: name, Suffix: suffix}
}

func (v *TemplateVariable) HasValue() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bound
}

func (v *TemplateVariable) Value() Element {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Bind assigns the replacement value for the current expansion.
func (v *TemplateVariable) Bind(value Element) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
	v.bound = true
}

// Reset clears the binding after an expansion.
func (v *TemplateVariable) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = nil
	v.bound = false
}

// freeze snapshots the variable into an independent bound copy.
func (v *TemplateVariable) freeze() *TemplateVariable {
	v.mu.RLock()
	defer v.mu.RUnlock()
	frozen := &TemplateVariable{Prefix: v.Prefix, Name: v.Name, Suffix: v.Suffix}
	frozen.value = v.value
	frozen.bound = v.bound
	return frozen
}

// Template is a reusable "%...%" body with its variable occurrences
// indexed by name.
type Template struct {
	Elements  []Element
	Variables map[string][]*TemplateVariable
}

// NewTemplate indexes the template variables occurring in body.
func NewTemplate(body []Element) *Template {
	t := &Template{Elements: body, Variables: make(map[string][]*TemplateVariable)}
	for _, e := range body {
		for _, v := range CollectTemplateVariables(e) {
			t.Variables[v.Name] = append(t.Variables[v.Name], v)
		}
	}
	return t
}

// Render expands the template once: every named variable is bound to
// its replacement, the body is copied with the variable occurrences
// frozen, and the shared variables are reset for the next expansion.
func (t *Template) Render(replacements map[string]Element) []Element {
	for name, value := range replacements {
		for _, v := range t.Variables[name] {
			v.Bind(value)
		}
	}
	out := make([]Element, 0, len(t.Elements))
	for _, e := range t.Elements {
		out = append(out, freezeElement(e))
	}
	for _, vars := range t.Variables {
		for _, v := range vars {
			v.Reset()
		}
	}
	return out
}

// CollectTemplateVariables walks a subtree and gathers every template
// variable occurrence.
func CollectTemplateVariables(e Element) []*TemplateVariable {
	var out []*TemplateVariable
	var walkInlines func(spans []Inline)
	var walkLine func(l Line)
	var walkBlock func(b Block)
	var walkItems func(items []*ListItem)

	walkInlines = func(spans []Inline) {
		for _, s := range spans {
			switch n := s.(type) {
			case *TemplateVariable:
				out = append(out, n)
			case *Bold:
				walkInlines(n.Spans)
			case *Italic:
				walkInlines(n.Spans)
			case *Underline:
				walkInlines(n.Spans)
			case *Strike:
				walkInlines(n.Spans)
			case *Superscript:
				walkInlines(n.Spans)
			case *Colored:
				walkInlines(n.Spans)
			}
		}
	}
	walkLine = func(l Line) {
		switch n := l.(type) {
		case *TextLine:
			walkInlines(n.Spans)
		case *Centered:
			walkInlines(n.Line.Spans)
		case *AnchorLine:
			walkLine(n.Inner)
		}
	}
	walkItems = func(items []*ListItem) {
		for _, item := range items {
			walkLine(item.Text)
			walkItems(item.Children)
		}
	}
	walkBlock = func(b Block) {
		switch n := b.(type) {
		case *Section:
			for _, child := range n.Blocks {
				walkBlock(child)
			}
		case *Paragraph:
			for _, l := range n.Lines {
				walkLine(l)
			}
		case *Quote:
			for _, l := range n.Lines {
				walkInlines(l.Spans)
			}
		case *List:
			walkItems(n.Items)
		}
	}

	switch n := e.(type) {
	case Block:
		walkBlock(n)
	case Line:
		walkLine(n)
	case Inline:
		walkInlines([]Inline{n})
	}
	return out
}

// freezeElement copies an element, replacing each template variable
// occurrence with an independent snapshot of its current binding.
// Shared cells (placeholders, citations, import anchors) are not
// copied; they stay shared with the registry that resolves them.
func freezeElement(e Element) Element {
	switch n := e.(type) {
	case Block:
		return freezeBlock(n)
	case Line:
		return freezeLine(n)
	case Inline:
		return freezeInline(n)
	}
	return e
}

func freezeBlock(b Block) Block {
	switch n := b.(type) {
	case *Section:
		section := &Section{Header: n.Header, Metadata: n.Metadata}
		for _, child := range n.Blocks {
			section.Blocks = append(section.Blocks, freezeBlock(child))
		}
		return section
	case *Paragraph:
		p := &Paragraph{}
		for _, l := range n.Lines {
			p.Lines = append(p.Lines, freezeLine(l))
		}
		return p
	case *Quote:
		q := &Quote{Metadata: n.Metadata}
		for _, l := range n.Lines {
			q.Lines = append(q.Lines, &TextLine{Spans: freezeInlines(l.Spans)})
		}
		return q
	case *List:
		list := &List{Ordered: n.Ordered}
		for _, item := range n.Items {
			list.Items = append(list.Items, freezeItem(item))
		}
		return list
	case *Table:
		table := &Table{Header: freezeRow(n.Header)}
		for _, row := range n.Rows {
			table.Rows = append(table.Rows, freezeRow(row))
		}
		return table
	default:
		return b
	}
}

func freezeRow(r *Row) *Row {
	if r == nil {
		return nil
	}
	out := &Row{}
	for _, c := range r.Cells {
		out.Cells = append(out.Cells, Cell{Text: freezeLine(c.Text)})
	}
	return out
}

func freezeItem(item *ListItem) *ListItem {
	out := &ListItem{Text: freezeLine(item.Text), Level: item.Level, Ordered: item.Ordered}
	for _, child := range item.Children {
		out.Children = append(out.Children, freezeItem(child))
	}
	return out
}

func freezeLine(l Line) Line {
	switch n := l.(type) {
	case *TextLine:
		return &TextLine{Spans: freezeInlines(n.Spans)}
	case *Centered:
		return &Centered{Line: &TextLine{Spans: freezeInlines(n.Line.Spans)}}
	case *AnchorLine:
		return &AnchorLine{Inner: freezeLine(n.Inner), Key: n.Key}
	default:
		return l
	}
}

func freezeInlines(spans []Inline) []Inline {
	out := make([]Inline, 0, len(spans))
	for _, s := range spans {
		out = append(out, freezeInline(s))
	}
	return out
}

func freezeInline(s Inline) Inline {
	switch n := s.(type) {
	case *TemplateVariable:
		return n.freeze()
	case *Bold:
		return &Bold{Spans: freezeInlines(n.Spans)}
	case *Italic:
		return &Italic{Spans: freezeInlines(n.Spans)}
	case *Underline:
		return &Underline{Spans: freezeInlines(n.Spans)}
	case *Strike:
		return &Strike{Spans: freezeInlines(n.Spans)}
	case *Superscript:
		return &Superscript{Spans: freezeInlines(n.Spans)}
	case *Colored:
		return &Colored{Color: n.Color, Spans: freezeInlines(n.Spans)}
	default:
		return s
	}
}
