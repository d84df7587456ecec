package grammar

import (
	"strings"

	"github.com/inkdown/inkdown/internal/assemble"
	"github.com/inkdown/inkdown/internal/document"
)

// parseBlock tries every block kind in priority order. The order
// matters: a section heading must win over a paragraph, a table row
// over a centered line, and so on.
func (p *Parser) parseBlock(ctx parseCtx) (document.Block, error) {
	if p.sectionReturn != nil {
		if *p.sectionReturn <= p.sectionNesting && p.sectionNesting > 0 {
			// the heading closes this section too, keep unwinding
			return nil, p.cur.Err()
		}
		p.sectionReturn = nil
	}
	if block, err := p.parseSection(ctx); err == nil {
		return block, nil
	} else if p.sectionReturn != nil {
		return nil, err
	}
	if block, err := p.parseList(ctx); err == nil {
		return block, nil
	}
	if block, err := p.parseTable(ctx); err == nil {
		return block, nil
	}
	if block, err := p.parseCodeBlock(); err == nil {
		return block, nil
	}
	if block, err := p.parseMathBlock(); err == nil {
		return block, nil
	}
	if block, err := p.parseQuote(ctx); err == nil {
		return block, nil
	}
	if block, err := p.parseImport(); err == nil {
		return block, nil
	} else if p.sectionReturn != nil {
		return nil, err
	}
	if block, err := p.parseBlockPlaceholder(); err == nil {
		return block, nil
	}
	return p.parseParagraph(ctx)
}

// parseSection reads a heading and everything nested below it. A
// heading no deeper than the innermost open section sets sectionReturn
// and fails, which closes sections on the way up until a level is
// reached that the heading fits under.
func (p *Parser) parseSection(ctx parseCtx) (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	if !p.cur.MatchChar(tkHash) {
		p.cur.Rewind(mark)
		return nil, p.cur.Err()
	}
	size := 1
	for p.cur.MatchChar(tkHash) {
		size++
	}
	metadata, _ := p.parseInlineMetadata()
	if size <= p.sectionNesting && p.sectionNesting > 0 {
		ret := size
		p.sectionReturn = &ret
		return nil, p.cur.RewindErr(mark)
	}
	if !p.cur.Is(tkSpace) {
		// "#hashtag" style text, not a heading
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.SkipInlineWhitespace()
	header, err := p.parseHeader(ctx, size)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	section := &document.Section{Header: header, Metadata: metadata}
	p.pushSection(size)
	p.cur.SkipWhitespace()
	for {
		block, err := p.parseBlock(ctx)
		if err != nil {
			break
		}
		section.AddBlock(block)
		p.cur.SkipWhitespace()
		if p.cur.AtEnd() {
			break
		}
	}
	p.popSection()
	return section, nil
}

// parseList reads consecutive list items as a flat (level, item)
// sequence and hands the nesting to the assembler.
func (p *Parser) parseList(ctx parseCtx) (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	list := &document.List{}
	var items []*document.ListItem
	for {
		item, err := p.parseListItem(ctx)
		if err != nil {
			break
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	list.Ordered = items[0].Ordered
	for _, root := range assemble.BuildListForest(items) {
		list.AddItem(root)
	}
	return list, nil
}

func (p *Parser) parseListItem(ctx parseCtx) (*document.ListItem, error) {
	mark := p.cur.Mark()
	level := p.cur.SkipInlineWhitespace()
	if !p.cur.IsAny(listMarkers) {
		return nil, p.cur.RewindErr(mark)
	}
	marker := p.cur.Current()
	ordered := isDigit(marker)
	p.cur.Advance()
	if ordered {
		for isDigit(p.cur.Current()) {
			p.cur.Advance()
		}
		p.cur.MatchChar(tkDot)
	}
	if p.cur.SkipInlineWhitespace() == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	if p.cur.Is(tkMinus) {
		// "- - -" is a ruler, not an item
		return nil, p.cur.RewindErr(mark)
	}
	text, err := p.parseLine(ctx)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	return &document.ListItem{Text: text, Level: level, Ordered: ordered}, nil
}

// parseTable reads a header row, an optional separator row of dashes
// and pipes, and then body rows. Without the separator the table
// degenerates to the header row alone.
func (p *Parser) parseTable(ctx parseCtx) (document.Block, error) {
	header, err := p.parseRow(ctx)
	if err != nil {
		return nil, err
	}
	table := &document.Table{Header: header}
	mark := p.cur.Mark()
	p.cur.SkipInlineWhitespace()
	seps := 0
	for p.cur.IsAny([]rune{tkMinus, tkPipe}) {
		p.cur.Advance()
		seps++
		p.cur.SkipInlineWhitespace()
	}
	if seps == 0 || !p.cur.IsLineBreak() {
		p.cur.Rewind(mark)
		return table, nil
	}
	p.cur.SkipWhitespace()
	for {
		row, err := p.parseRow(ctx)
		if err != nil {
			break
		}
		table.AddRow(row)
	}
	return table, nil
}

func (p *Parser) parseRow(ctx parseCtx) (*document.Row, error) {
	mark := p.cur.Mark()
	p.cur.SkipInlineWhitespace()
	if err := p.cur.Expect(tkPipe, mark); err != nil {
		return nil, err
	}
	if p.cur.Is(tkPipe) {
		// "||" opens a centered line, not a row
		return nil, p.cur.RewindErr(mark)
	}
	cellCtx := ctx.withInlineBreak(tkPipe)
	row := &document.Row{}
	for {
		line := &document.TextLine{}
		for {
			span, err := p.parseInline(cellCtx)
			if err != nil {
				break
			}
			line.AddSpan(span)
		}
		row.AddCell(document.Cell{Text: line})
		if p.cur.Is(tkPipe) {
			p.cur.Advance()
		}
		if p.cur.IsLineBreak() || p.cur.AtEnd() {
			break
		}
		p.cur.SkipInlineWhitespace()
	}
	if p.cur.IsLineBreak() {
		p.cur.Advance()
	}
	if len(row.Cells) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return row, nil
}

func (p *Parser) parseCodeBlock() (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	if err := p.cur.ExpectSequence(seqCodeFence, mark); err != nil {
		return nil, err
	}
	language, err := p.cur.ScanUntil([]rune{tkLineBreak}, nil)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.Advance()
	code, err := p.cur.ScanUntilSequence([][]rune{seqCodeFence}, nil)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchSequence(seqCodeFence)
	return &document.CodeBlock{
		Language: strings.TrimSpace(language),
		Code:     strings.TrimSuffix(code, "\n"),
	}, nil
}

func (p *Parser) parseMathBlock() (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	if err := p.cur.ExpectSequence(seqMathFence, mark); err != nil {
		return nil, err
	}
	expr, err := p.cur.ScanUntilSequence([][]rune{seqMathFence}, nil)
	if err != nil {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchSequence(seqMathFence)
	return &document.MathBlock{Expression: strings.TrimSpace(expr)}, nil
}

// parseQuote reads "> " prefixed lines, with optional metadata before
// the first line for attribution.
func (p *Parser) parseQuote(ctx parseCtx) (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	metadata, _ := p.parseInlineMetadata()
	if metadata != nil {
		p.cur.SkipWhitespace()
	}
	quote := &document.Quote{Metadata: metadata}
	for {
		lineMark := p.cur.Mark()
		p.cur.SkipInlineWhitespace()
		if !p.cur.Is(tkQuote) {
			p.cur.Rewind(lineMark)
			break
		}
		p.cur.Advance()
		if !p.cur.Is(tkSpace) && !p.cur.IsLineBreak() {
			p.cur.Rewind(lineMark)
			break
		}
		p.cur.SkipInlineWhitespace()
		line, err := p.parseTextLine(ctx)
		if err != nil {
			p.cur.Rewind(lineMark)
			break
		}
		if len(line.Spans) > 0 {
			quote.AddLine(line)
		}
	}
	if len(quote.Lines) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return quote, nil
}

// parseImport reads an "<[path]" directive with optional metadata and
// hands it to the resolver. Imports are rejected while a section is
// open: the directive closes all sections first and is retried at
// document level, so imported sections nest predictably.
func (p *Parser) parseImport() (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	if err := p.cur.ExpectSequence(seqImport, mark); err != nil {
		return nil, err
	}
	path, err := p.cur.ScanUntil([]rune{tkBracketC}, []rune{tkLineBreak})
	if err != nil || strings.TrimSpace(path) == "" {
		return nil, p.cur.RewindErr(mark)
	}
	p.cur.MatchChar(tkBracketC)
	if p.sectionNesting > 0 {
		ret := 0
		p.sectionReturn = &ret
		return nil, p.cur.RewindErr(mark)
	}
	metadata, _ := p.parseInlineMetadata()
	path = strings.TrimSpace(path)
	if p.resolver == nil {
		p.report(mark, "no import resolver, dropping import of "+path)
		return &document.Null{}, nil
	}
	anchor, err := p.resolver.Import(p.path, path, metadata)
	if err != nil {
		p.report(mark, "import of "+path+" failed: "+err.Error())
		return &document.Null{}, nil
	}
	if anchor == nil {
		// handled out of band, no tree node
		return &document.Null{}, nil
	}
	return &document.Import{Path: path, Anchor: anchor}, nil
}

func (p *Parser) parseBlockPlaceholder() (document.Block, error) {
	ph, err := p.parsePlaceholder()
	if err != nil {
		return nil, err
	}
	return ph, nil
}

// parseParagraph collects lines until the next line opens a different
// block kind or a break sequence of the enclosing construct starts.
func (p *Parser) parseParagraph(ctx parseCtx) (document.Block, error) {
	mark := p.cur.Mark()
	p.cur.SkipWhitespace()
	paragraph := &document.Paragraph{}
	for {
		lineMark := p.cur.Mark()
		line, err := p.parseLine(ctx)
		if err != nil {
			break
		}
		paragraph.AddLine(line)
		if p.cur.AtEnd() {
			break
		}
		if p.cur.IsAnySequence(blockStarts) || p.cur.IsAnySequence(ctx.blockBreak) {
			break
		}
		if p.cur.Pos() == lineMark {
			break
		}
	}
	if len(paragraph.Lines) == 0 {
		return nil, p.cur.RewindErr(mark)
	}
	return paragraph, nil
}
