package grammar

import (
	"strings"

	"github.com/inkdown/inkdown/internal/document"
)

func (p *Parser) parseLine(ctx parseCtx) (document.Line, error) {
	if p.cur.AtEnd() {
		return nil, p.cur.Err()
	}
	if line, err := p.parseRuler(); err == nil {
		return line, nil
	}
	if line, err := p.parseCentered(ctx); err == nil {
		return line, nil
	}
	if line, err := p.parseBibEntry(); err == nil {
		return line, nil
	}
	return p.parseTextLine(ctx)
}

// parseHeader reads the heading text. The anchor is the raw source of
// the heading with all whitespace stripped, so links stay stable no
// matter which inline constructs the heading uses.
func (p *Parser) parseHeader(ctx parseCtx, size int) (document.Header, error) {
	from := p.cur.Mark()
	line, err := p.parseLine(ctx)
	if err != nil {
		return document.Header{}, err
	}
	raw := p.cur.Slice(from, p.cur.Pos())
	anchor := strings.Join(strings.Fields(raw), "")
	return document.Header{Size: size, Line: line, Anchor: anchor}, nil
}

func (p *Parser) parseRuler() (document.Line, error) {
	mark := p.cur.Mark()
	p.cur.SkipInlineWhitespace()
	if err := p.cur.ExpectSequence(seqRuler, mark); err != nil {
		return nil, err
	}
	p.cur.SkipToLineEnd()
	return &document.Ruler{}, nil
}

func (p *Parser) parseCentered(ctx parseCtx) (document.Line, error) {
	mark := p.cur.Mark()
	p.cur.SkipInlineWhitespace()
	if err := p.cur.ExpectSequence(seqCentered, mark); err != nil {
		return nil, err
	}
	p.cur.SkipInlineWhitespace()
	line, err := p.parseTextLine(ctx)
	if err != nil || len(line.Spans) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return &document.Centered{Line: line}, nil
}

// parseBibEntry reads a "[key]: ..." bibliography definition. The
// value is either a metadata block with typed fields or a bare URL.
func (p *Parser) parseBibEntry() (document.Line, error) {
	mark := p.cur.Mark()
	p.cur.SkipInlineWhitespace()
	if err := p.cur.Expect(tkBracketO, mark); err != nil {
		return nil, err
	}
	if p.cur.Is(tkBracketO) || p.cur.Is(tkCaret) {
		// placeholder or reference, not a definition
		return nil, p.cur.RewindErr(mark)
	}
	key, err := p.cur.ScanUntil([]rune{tkBracketC}, []rune{tkLineBreak, tkSpace})
	if err != nil || key == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBracketC)
	if err := p.cur.Expect(tkColon, mark); err != nil {
		return nil, err
	}
	p.cur.SkipInlineWhitespace()

	var entry *document.BibEntryLine
	if metadata, err := p.parseInlineMetadata(); err == nil {
		bib := p.doc.Shared.Bib.Define(key, metadata.StringMap())
		entry = &document.BibEntryLine{Key: key, Entry: bib}
	} else {
		url, err := p.cur.ScanUntil([]rune{tkLineBreak}, nil)
		if err != nil || strings.TrimSpace(url) == "" {
			return nil, p.cur.RewindErr(mark)
		}
		bib := p.doc.Shared.Bib.DefineURL(key, strings.TrimSpace(url))
		entry = &document.BibEntryLine{Key: key, Entry: bib}
	}
	if p.cur.IsLineBreak() {
		p.cur.Advance()
	}
	return entry, nil
}

// parseTextLine reads inline spans until the line ends or a break
// character of the enclosing construct appears. The trailing line
// break is consumed. An empty line succeeds unless the input is
// exhausted.
func (p *Parser) parseTextLine(ctx parseCtx) (*document.TextLine, error) {
	line := &document.TextLine{}
	for {
		span, err := p.parseInline(ctx)
		if err != nil {
			break
		}
		line.AddSpan(span)
		if p.cur.AtEnd() || p.cur.IsAny(ctx.inlineBreak) {
			break
		}
	}
	if p.cur.IsLineBreak() {
		p.cur.Advance()
	} else if len(line.Spans) == 0 && p.cur.AtEnd() {
		return nil, p.cur.Err()
	}
	return line, nil
}
