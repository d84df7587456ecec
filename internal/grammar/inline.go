package grammar

import (
	"strings"

	"github.com/inkdown/inkdown/internal/cursor"
	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/refs"
)

// parseInline tries every inline kind in priority order and falls back
// to plain text. Plain text always consumes at least one character, so
// a special character that completes no construct renders literally
// and the parse makes progress.
func (p *Parser) parseInline(ctx parseCtx) (document.Inline, error) {
	if ctx.vars {
		if v, err := p.parseTemplateVariable(); err == nil {
			return v, nil
		}
	}
	if p.cur.AtEnd() || p.cur.IsLineBreak() || p.cur.IsAny(ctx.inlineBreak) {
		return nil, p.cur.Err()
	}
	if span, err := p.parseImage(ctx); err == nil {
		return span, nil
	}
	if span, err := p.parseURL(ctx, false); err == nil {
		return span, nil
	}
	if span, err := p.parseInlinePlaceholder(); err == nil {
		return span, nil
	}
	if span, err := p.parseCheckbox(); err == nil {
		return span, nil
	}
	if spans, err := p.parseEnclosed(seqBold, ctx); err == nil {
		return &document.Bold{Spans: spans}, nil
	}
	if spans, err := p.parseEnclosed([]rune{tkAsterisk}, ctx); err == nil {
		return &document.Italic{Spans: spans}, nil
	}
	if spans, err := p.parseEnclosed([]rune{tkUnderscore}, ctx); err == nil {
		return &document.Underline{Spans: spans}, nil
	}
	if span, err := p.parseMonospace(); err == nil {
		return span, nil
	}
	if spans, err := p.parseEnclosed(seqStrike, ctx); err == nil {
		return &document.Strike{Spans: spans}, nil
	}
	if span, err := p.parseGlossaryReference(); err == nil {
		return span, nil
	}
	if spans, err := p.parseEnclosed([]rune{tkCaret}, ctx); err == nil {
		return &document.Superscript{Spans: spans}, nil
	}
	if span, err := p.parseEmoji(); err == nil {
		return span, nil
	}
	if span, err := p.parseColored(ctx); err == nil {
		return span, nil
	}
	if span, err := p.parseBibReference(); err == nil {
		return span, nil
	}
	if span, err := p.parseInlineMath(); err == nil {
		return span, nil
	}
	if span, err := p.parseCharacterCode(); err == nil {
		return span, nil
	}
	if span, err := p.parseArrow(); err == nil {
		return span, nil
	}
	return p.parsePlain(ctx)
}

// parseEnclosed reads delimiter, nested inline content, delimiter. A
// line break before the closing delimiter fails the whole construct so
// a dangling "**" renders literally.
func (p *Parser) parseEnclosed(delim []rune, ctx parseCtx) ([]document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.ExpectSequence(delim, mark); err != nil {
		return nil, err
	}
	var spans []document.Inline
	for !p.cur.IsSequence(delim) {
		if p.cur.AtEnd() || p.cur.IsLineBreak() {
			return nil, p.cur.RewindErr(mark)
		}
		span, err := p.parseInline(ctx)
		if err != nil {
			return nil, p.cur.RewindErr(mark)
		}
		spans = append(spans, span)
	}
	p.cur.MatchSequence(delim)
	if len(spans) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return spans, nil
}

func (p *Parser) parseImage(ctx parseCtx) (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkBang, mark); err != nil {
		return nil, err
	}
	url, err := p.parseURL(ctx, true)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	metadata, _ := p.parseInlineMetadata()
	img := &document.Image{
		URL:      *url,
		Metadata: metadata,
		Download: p.doc.Shared.Downloads.Add(url.Target),
	}
	return img, nil
}

// parseURL reads "[description](target)". With short syntax the
// description may be omitted entirely, which images use.
func (p *Parser) parseURL(ctx parseCtx, short bool) (*document.URL, error) {
	mark := p.cur.Mark()
	var description []document.Inline
	if p.cur.MatchChar(tkBracketO) {
		descCtx := ctx.withInlineBreak(tkBracketC)
		for !p.cur.Is(tkBracketC) {
			if p.cur.AtEnd() || p.cur.IsLineBreak() {
				return nil, p.cur.RewindErr(mark)
			}
			span, err := p.parseInline(descCtx)
			if err != nil {
				return nil, p.cur.RewindErr(mark)
			}
			description = append(description, span)
		}
		p.cur.MatchChar(tkBracketC)
	} else if !short {
		return nil, p.cur.RewindErr(mark)
	}
	if err := p.cur.Expect(tkParenO, mark); err != nil {
		return nil, err
	}
	target, err := p.cur.ScanUntil([]rune{tkParenC}, []rune{tkLineBreak})
	if err != nil || strings.TrimSpace(target) == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkParenC)
	return &document.URL{Description: description, Target: strings.TrimSpace(target)}, nil
}

// parseInlinePlaceholder registers the placeholder with the document
// so the resolution pass can fill it later.
func (p *Parser) parseInlinePlaceholder() (document.Inline, error) {
	return p.parsePlaceholder()
}

func (p *Parser) parsePlaceholder() (*document.Placeholder, error) {
	mark := p.cur.Mark()
	if err := p.cur.ExpectSequence(seqPlaceholderO, mark); err != nil {
		return nil, err
	}
	name, err := p.cur.ScanUntilSequence([][]rune{seqPlaceholderC}, []rune{tkLineBreak})
	if err != nil || strings.TrimSpace(name) == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchSequence(seqPlaceholderC)
	metadata, _ := p.parseInlineMetadata()
	ph := document.NewPlaceholder(strings.TrimSpace(name), metadata)
	p.doc.AddPlaceholder(ph)
	return ph, nil
}

func (p *Parser) parseCheckbox() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkBracketO, mark); err != nil {
		return nil, err
	}
	checked := false
	switch {
	case p.cur.MatchAny([]rune{tkChecked, 'X'}):
		checked = true
	case p.cur.MatchChar(tkSpace):
	default:
		return nil, p.cur.RewindErr(mark)
	}
	if err := p.cur.Expect(tkBracketC, mark); err != nil {
		return nil, err
	}
	return &document.Checkbox{Checked: checked}, nil
}

func (p *Parser) parseMonospace() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkBacktick, mark); err != nil {
		return nil, err
	}
	text, err := p.cur.ScanUntil([]rune{tkBacktick}, []rune{tkLineBreak})
	if err != nil || text == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBacktick)
	return &document.Monospace{Text: text}, nil
}

// parseGlossaryReference reads "~key" or "~~key". The double tilde
// requests the long form; it is only reachable when the input is not a
// terminated strikethrough, which is tried first.
func (p *Parser) parseGlossaryReference() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkTilde, mark); err != nil {
		return nil, err
	}
	display := refs.DisplayShort
	if p.cur.MatchChar(tkTilde) {
		display = refs.DisplayLong
	}
	var b strings.Builder
	for isKeyRune(p.cur.Current()) {
		b.WriteRune(p.cur.Current())
		p.cur.Advance()
	}
	if b.Len() == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	ref := p.doc.Shared.Glossary.Reference(b.String(), display)
	return &document.GlossaryReference{Ref: ref}, nil
}

func (p *Parser) parseEmoji() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkColon, mark); err != nil {
		return nil, err
	}
	var b strings.Builder
	for isKeyRune(p.cur.Current()) {
		b.WriteRune(p.cur.Current())
		p.cur.Advance()
	}
	if b.Len() == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	if err := p.cur.Expect(tkColon, mark); err != nil {
		return nil, err
	}
	value, ok := emojiByName[b.String()]
	if !ok {
		return nil, p.cur.RewindErr(mark)
	}
	return &document.Emoji{Value: value, Name: b.String()}, nil
}

// parseColored reads "§[color]" followed by a single inline element.
func (p *Parser) parseColored(ctx parseCtx) (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.ExpectSequence(seqColored, mark); err != nil {
		return nil, err
	}
	color, err := p.cur.ScanUntil([]rune{tkBracketC}, []rune{tkLineBreak, tkSpace})
	if err != nil || color == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBracketC)
	span, err := p.parseInline(ctx)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	return &document.Colored{Color: color, Spans: []document.Inline{span}}, nil
}

// parseBibReference reads "[^key]" and registers a deferred cell with
// the bibliography manager. The display pattern is shared through the
// configuration entry so a manifest loaded later still applies.
func (p *Parser) parseBibReference() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.ExpectSequence(seqBibRef, mark); err != nil {
		return nil, err
	}
	key, err := p.cur.ScanUntil([]rune{tkBracketC}, []rune{tkLineBreak, tkSpace})
	if err != nil || key == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBracketC)
	display := p.doc.Shared.Config.Ref(refs.KeyBibRefDisplay)
	ref := p.doc.Shared.Bib.Reference(key, display)
	return &document.BibReference{Ref: ref}, nil
}

func (p *Parser) parseInlineMath() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.ExpectSequence(seqMathInline, mark); err != nil {
		return nil, err
	}
	expr, err := p.cur.ScanUntilSequence([][]rune{seqMathInline}, []rune{tkLineBreak})
	if err != nil || strings.TrimSpace(expr) == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchSequence(seqMathInline)
	return &document.Math{Expression: strings.TrimSpace(expr)}, nil
}

func (p *Parser) parseCharacterCode() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkAmpersand, mark); err != nil {
		return nil, err
	}
	code, err := p.cur.ScanUntil([]rune{tkSemicolon}, []rune{tkLineBreak, tkSpace})
	if err != nil || code == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkSemicolon)
	return &document.CharacterCode{Code: code}, nil
}

func (p *Parser) parseArrow() (document.Inline, error) {
	if v, ok := p.doc.Shared.Config.Get(refs.KeySmartArrows); ok && !v.AsBool() {
		return nil, p.cur.Err()
	}
	for _, arrow := range arrowSequences {
		if p.cur.MatchSequence([]rune(arrow)) {
			return &document.Arrow{Kind: arrow}, nil
		}
	}
	return nil, p.cur.Err()
}

// parsePlain consumes text up to the next special character. The first
// character is taken unconditionally: when every other inline kind has
// failed, the special character itself becomes literal text.
func (p *Parser) parsePlain(ctx parseCtx) (document.Inline, error) {
	var b strings.Builder
	first := true
	for {
		if p.cur.AtEnd() || p.cur.IsLineBreak() || p.cur.IsAny(ctx.inlineBreak) {
			break
		}
		ch := p.cur.Current()
		if ch == cursor.Escape {
			next := p.cur.Peek(1)
			if next == 0 || next == tkLineBreak {
				p.cur.Advance()
				break
			}
			p.cur.Advance()
			b.WriteRune(next)
			p.cur.Advance()
			first = false
			continue
		}
		if !first {
			if p.cur.IsAny(inlineSpecials) || (ctx.vars && ch == tkBraceO) {
				break
			}
		}
		b.WriteRune(ch)
		p.cur.Advance()
		first = false
	}
	if b.Len() == 0 {
		return nil, p.cur.Err()
	}
	return &document.Plain{Text: b.String()}, nil
}

func (p *Parser) parseTemplateVariable() (document.Inline, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkBraceO, mark); err != nil {
		return nil, err
	}
	prefix, err := p.cur.ScanUntil([]rune{tkBraceO}, []rune{tkLineBreak, tkBraceC})
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBraceO)
	name, err := p.cur.ScanUntil([]rune{tkBraceC}, []rune{tkLineBreak, tkBraceO})
	if err != nil || strings.TrimSpace(name) == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBraceC)
	suffix, err := p.cur.ScanUntil([]rune{tkBraceC}, []rune{tkLineBreak, tkBraceO})
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	if err := p.cur.Expect(tkBraceC, mark); err != nil {
		return nil, err
	}
	return document.NewTemplateVariable(prefix, strings.TrimSpace(name), suffix), nil
}
