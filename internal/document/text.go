package document

import "strings"

// PlainText flattens an element to its visible text, ignoring
// formatting. Deferred references contribute their formatted value
// when resolved and their fallback otherwise.
func PlainText(e Element) string {
	var b strings.Builder
	plainText(&b, e)
	return b.String()
}

func plainText(b *strings.Builder, e Element) {
	switch v := e.(type) {
	case nil:
	case *Plain:
		b.WriteString(v.Text)
	case *Monospace:
		b.WriteString(v.Text)
	case *Bold:
		plainSpans(b, v.Spans)
	case *Italic:
		plainSpans(b, v.Spans)
	case *Underline:
		plainSpans(b, v.Spans)
	case *Strike:
		plainSpans(b, v.Spans)
	case *Superscript:
		plainSpans(b, v.Spans)
	case *Colored:
		plainSpans(b, v.Spans)
	case *URL:
		if len(v.Description) > 0 {
			plainSpans(b, v.Description)
		} else {
			b.WriteString(v.Target)
		}
	case *Emoji:
		b.WriteRune(v.Value)
	case *Arrow:
		b.WriteString(v.Kind)
	case *CharacterCode:
		b.WriteString("&" + v.Code + ";")
	case *Math:
		b.WriteString(v.Expression)
	case *BibReference:
		b.WriteString(v.Ref.Formatted())
	case *GlossaryReference:
		b.WriteString(v.Ref.Formatted())
	case *Placeholder:
		if v.HasValue() {
			plainText(b, v.Value())
		}
	case *TemplateVariable:
		if v.HasValue() {
			b.WriteString(v.Prefix)
			plainText(b, v.Value())
			b.WriteString(v.Suffix)
		}
	case *TextLine:
		plainSpans(b, v.Spans)
	case *Centered:
		plainText(b, v.Line)
	case *AnchorLine:
		plainText(b, v.Inner)
	case *RefLink:
		plainText(b, v.Description)
	case *BibEntryLine:
		b.WriteString(v.Key)
	case *Paragraph:
		for i, line := range v.Lines {
			if i > 0 {
				b.WriteString(" ")
			}
			plainText(b, line)
		}
	}
}

func plainSpans(b *strings.Builder, spans []Inline) {
	for _, s := range spans {
		plainText(b, s)
	}
}
