// Package grammar turns markdown-superset source text into the typed
// document tree. Parsing is recursive descent over a backtracking
// cursor: every construct saves a mark, tries to read itself and on
// failure rewinds so the next alternative sees untouched input.
package grammar

import (
	"fmt"
	"log/slog"

	"github.com/inkdown/inkdown/internal/cursor"
	"github.com/inkdown/inkdown/internal/document"
)

// ImportResolver schedules one import directive. A nil anchor with a
// nil error means the directive was handled out of band (stylesheet,
// manifest, bibliography, glossary or an ignored path) and produces no
// tree node. An error means the directive is dropped and reported;
// parsing continues after it.
type ImportResolver interface {
	Import(fromPath, target string, args *document.Metadata) (*document.ImportAnchor, error)
}

// Diagnostic is a non-fatal parse problem tied to a source position.
type Diagnostic struct {
	Path string
	Pos  int
	Line int
	Col  int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Line, d.Col, d.Msg)
}

// Options configure a single Parser run.
type Options struct {
	// Path of the source file, used in diagnostics and as the base
	// for relative imports. Empty for in-memory input.
	Path string
	// Document receives the parsed blocks. Required.
	Document *document.Document
	// Resolver handles import directives. May be nil, in which case
	// every import is dropped with a diagnostic.
	Resolver ImportResolver
	Logger   *slog.Logger
}

// Parser holds the state of one document parse. A Parser is not safe
// for concurrent use; each imported file gets its own.
type Parser struct {
	cur      *cursor.Cursor
	doc      *document.Document
	path     string
	resolver ImportResolver
	log      *slog.Logger

	// sectionNesting is the heading size of the innermost open
	// section, zero at document level.
	sectionNesting int
	sectionLevels  []int
	// sectionReturn carries the size of a heading that closed the
	// current section so outer levels can decide whether it closes
	// them too.
	sectionReturn *int

	diags []Diagnostic
}

// parseCtx carries the break sets of the enclosing construct. It is
// passed by value; pushing a break character builds a new context
// instead of mutating shared state.
type parseCtx struct {
	inlineBreak []rune
	blockBreak  [][]rune
	// vars enables template variable syntax inside template bodies.
	vars bool
}

func (c parseCtx) withInlineBreak(chars ...rune) parseCtx {
	next := c
	next.inlineBreak = append(append([]rune{}, c.inlineBreak...), chars...)
	return next
}

func (c parseCtx) withBlockBreak(seqs ...[]rune) parseCtx {
	next := c
	next.blockBreak = append(append([][]rune{}, c.blockBreak...), seqs...)
	return next
}

func (c parseCtx) withVars() parseCtx {
	next := c
	next.vars = true
	return next
}

// New builds a parser over input. The cursor normalizes line endings
// and guarantees a trailing line break, so grammar code only ever
// deals with '\n'.
func New(input string, opts Options) *Parser {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	doc := opts.Document
	if doc == nil {
		doc = document.New()
	}
	if doc.Path == "" {
		doc.Path = opts.Path
	}
	return &Parser{
		cur:      cursor.New(input),
		doc:      doc,
		path:     opts.Path,
		resolver: opts.Resolver,
		log:      log,
	}
}

// Parse consumes the whole input and returns the document. Parsing
// never fails as a whole: an unparseable region is reported as a
// diagnostic and skipped.
func (p *Parser) Parse() *document.Document {
	ctx := parseCtx{}
	for {
		p.cur.SkipWhitespace()
		if p.cur.AtEnd() {
			break
		}
		block, err := p.parseBlock(ctx)
		if err != nil {
			if p.cur.AtEnd() {
				break
			}
			p.report(p.cur.Pos(), fmt.Sprintf("no block matches at %q", string(p.cur.Current())))
			p.cur.SkipToLineEnd()
			continue
		}
		p.doc.AddBlock(block)
	}
	return p.doc
}

// Diagnostics reports the problems collected during Parse.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diags
}

func (p *Parser) report(pos int, msg string) {
	line, col := p.cur.LineCol(pos)
	d := Diagnostic{Path: p.path, Pos: pos, Line: line, Col: col, Msg: msg}
	p.diags = append(p.diags, d)
	p.log.Warn("parse diagnostic", "path", p.path, "line", line, "col", col, "msg", msg)
}

func (p *Parser) pushSection(size int) {
	p.sectionLevels = append(p.sectionLevels, size)
	p.sectionNesting = size
}

func (p *Parser) popSection() {
	if n := len(p.sectionLevels); n > 0 {
		p.sectionLevels = p.sectionLevels[:n-1]
	}
	if n := len(p.sectionLevels); n > 0 {
		p.sectionNesting = p.sectionLevels[n-1]
	} else {
		p.sectionNesting = 0
	}
}
