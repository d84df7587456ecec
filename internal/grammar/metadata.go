package grammar

import (
	"strconv"
	"strings"

	"github.com/inkdown/inkdown/internal/document"
)

// parseInlineMetadata reads a "[key=value, flag, other='quoted']"
// block. A bare line break before the closing bracket aborts the whole
// parse; no partial metadata is kept.
func (p *Parser) parseInlineMetadata() (*document.Metadata, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkBracketO, mark); err != nil {
		return nil, err
	}
	if p.cur.Is(tkBracketO) || p.cur.Is(tkCaret) {
		// placeholder or bib reference
		return nil, p.cur.RewindErr(mark)
	}
	meta := document.NewMetadata()
	for {
		p.cur.SkipInlineWhitespace()
		for p.cur.MatchChar(tkComma) {
			p.cur.SkipInlineWhitespace()
		}
		if p.cur.Is(tkBracketC) || p.cur.IsLineBreak() || p.cur.AtEnd() {
			break
		}
		key, value, err := p.parseMetadataPair()
		if err != nil {
			return nil, p.cur.RewindErr(mark)
		}
		meta.Set(key, value)
	}
	if !p.cur.MatchChar(tkBracketC) || meta.Len() == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return meta, nil
}

// parseMetadataPair reads one "key=value" pair. A key without a value
// is a boolean flag.
func (p *Parser) parseMetadataPair() (string, document.MetaValue, error) {
	key, err := p.cur.ScanUntil([]rune{tkBracketC, tkEquals, tkSpace, tkComma, tkLineBreak}, nil)
	if err != nil || key == "" {
		return "", document.MetaValue{}, p.cur.Err()
	}
	p.cur.SkipInlineWhitespace()
	if !p.cur.MatchChar(tkEquals) {
		return key, document.MetaBoolValue(true), nil
	}
	p.cur.SkipInlineWhitespace()
	value, err := p.parseMetaValue()
	if err != nil {
		return "", document.MetaValue{}, err
	}
	return key, value, nil
}

func (p *Parser) parseMetaValue() (document.MetaValue, error) {
	if p.cur.IsAny(quoteChars) {
		quote := p.cur.Current()
		p.cur.Advance()
		text, err := p.cur.ScanUntil([]rune{quote}, []rune{tkLineBreak})
		if err != nil {
			return document.MetaValue{}, err
		}
		p.cur.MatchChar(quote)
		return document.MetaStringValue(text), nil
	}
	if ph, err := p.parsePlaceholder(); err == nil {
		return document.MetaValue{Kind: document.MetaPlaceholder, Placeholder: ph}, nil
	}
	if tpl, err := p.parseTemplate(); err == nil {
		return document.MetaValue{Kind: document.MetaTemplate, Template: tpl}, nil
	}
	raw, err := p.cur.ScanUntil([]rune{tkBracketC, tkSpace, tkComma, tkLineBreak}, nil)
	if err != nil || raw == "" {
		return document.MetaValue{}, p.cur.Err()
	}
	switch strings.ToLower(raw) {
	case "true":
		return document.MetaBoolValue(true), nil
	case "false":
		return document.MetaBoolValue(false), nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return document.MetaIntValue(i), nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return document.MetaFloatValue(f), nil
	}
	return document.MetaStringValue(raw), nil
}

// parseTemplate reads a "% body %" template. Template variables are
// only recognized inside the body, where the context enables them.
func (p *Parser) parseTemplate() (*document.Template, error) {
	mark := p.cur.Mark()
	if err := p.cur.Expect(tkPercent, mark); err != nil {
		return nil, err
	}
	if p.cur.Is(tkPercent) {
		return nil, p.cur.RewindErr(mark)
	}
	ctx := parseCtx{}.
		withInlineBreak(tkPercent).
		withBlockBreak([]rune{tkPercent}).
		withVars()
	var elements []document.Element
	for {
		p.cur.SkipWhitespace()
		if p.cur.Is(tkPercent) {
			break
		}
		if p.cur.AtEnd() {
			return nil, p.cur.RewindErr(mark)
		}
		block, err := p.parseBlock(ctx)
		if err != nil {
			return nil, p.cur.RewindErr(mark)
		}
		elements = append(elements, block)
	}
	p.cur.MatchChar(tkPercent)
	if len(elements) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return document.NewTemplate(elements), nil
}
