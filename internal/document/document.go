// Package document defines the typed tree a parse produces: the block,
// line and inline node kinds, the deferred cells resolved after the
// whole import graph joins, and the Document container renderers walk.
package document

import (
	"sync"

	"github.com/inkdown/inkdown/internal/downloads"
	"github.com/inkdown/inkdown/internal/refs"
)

// Shared bundles the state jointly owned by every document in one
// import graph. Each member is internally synchronized.
type Shared struct {
	Config    *refs.Configuration
	Bib       *refs.BibManager
	Glossary  *refs.GlossaryManager
	Downloads *downloads.Manager
}

func NewShared() *Shared {
	return &Shared{
		Config:    refs.NewConfiguration(),
		Bib:       refs.NewBibManager(),
		Glossary:  refs.NewGlossaryManager(),
		Downloads: downloads.NewManager(),
	}
}

// Document is an ordered block tree for one source file. The root
// document additionally owns the merged placeholder registry after
// import splicing.
type Document struct {
	Blocks []Block
	Root   bool
	Path   string

	// Placeholders references every placeholder cell occurring in this
	// document's tree; the cells themselves are shared with the nodes.
	Placeholders []*Placeholder

	// Stylesheets lists the stylesheet embed jobs this document
	// imported.
	Stylesheets []*downloads.Pending

	Shared *Shared
}

// New creates a root document with fresh shared managers.
func New() *Document {
	return &Document{Root: true, Shared: NewShared()}
}

// Child creates the document for one import. It shares the parent's
// configuration, bibliography, glossary and download managers.
func (d *Document) Child(path string) *Document {
	return &Document{Path: path, Shared: d.Shared}
}

func (d *Document) AddBlock(b Block) {
	if _, null := b.(*Null); null {
		return
	}
	d.Blocks = append(d.Blocks, b)
}

func (d *Document) AddPlaceholder(p *Placeholder) {
	d.Placeholders = append(d.Placeholders, p)
}

// ImportAnchor is the deferred cell an import directive returns
// immediately. The spawned child parse installs its document exactly
// once; the splice step consumes it exactly once.
type ImportAnchor struct {
	mu       sync.Mutex
	doc      *Document
	set      bool
	consumed bool
}

// Install hands the finished child document to the anchor. Only the
// first call has an effect.
func (a *ImportAnchor) Install(doc *Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.set {
		return
	}
	a.doc = doc
	a.set = true
}

// Filled reports whether a document has been installed and not yet
// consumed.
func (a *ImportAnchor) Filled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.set && !a.consumed
}

// Take consumes the installed document. The second call returns nil.
func (a *ImportAnchor) Take() *Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.set || a.consumed {
		return nil
	}
	a.consumed = true
	doc := a.doc
	a.doc = nil
	return doc
}
