package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/grammar"
	"github.com/inkdown/inkdown/internal/refs"
	"github.com/inkdown/inkdown/internal/settings"
)

// ErrCycle reports an import that is already part of the running
// parse, either through a cycle or a duplicate directive.
var ErrCycle = errors.New("already imported")

type importKind int

const (
	kindDocument importKind = iota
	kindStylesheet
	kindManifest
	kindBibliography
	kindGlossary
)

// classify picks the import kind from the explicit "type" metadata
// argument, falling back to the file name.
func classify(explicit, path string) importKind {
	switch strings.ToLower(explicit) {
	case "document":
		return kindDocument
	case "stylesheet":
		return kindStylesheet
	case "manifest", "config":
		return kindManifest
	case "bibliography":
		return kindBibliography
	case "glossary":
		return kindGlossary
	}
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".css"):
		return kindStylesheet
	case strings.HasSuffix(name, ".bib.toml"):
		return kindBibliography
	case strings.HasSuffix(name, ".gloss.toml"), name == "glossary.toml":
		return kindGlossary
	case strings.HasSuffix(name, ".toml"):
		return kindManifest
	default:
		return kindDocument
	}
}

// task is the per-file import resolver. Document imports spawn a
// goroutine each and are joined through the wait group; the other
// kinds load synchronously into the shared managers.
type task struct {
	c   *Coordinator
	doc *document.Document
	wg  sync.WaitGroup
}

func (t *task) Import(fromPath, target string, args *document.Metadata) (*document.ImportAnchor, error) {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(fromPath), path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve import %s: %w", target, err)
	}
	if t.ignored(abs) {
		t.c.log.Debug("skipping ignored import", "path", abs)
		return nil, nil
	}
	switch classify(args.GetString("type"), abs) {
	case kindStylesheet:
		pending := t.doc.Shared.Downloads.Add(abs)
		t.doc.Stylesheets = append(t.doc.Stylesheets, pending)
		return nil, nil
	case kindManifest:
		return nil, settings.LoadManifest(abs, t.doc.Shared.Config)
	case kindBibliography:
		return nil, settings.LoadBibliography(abs, t.doc.Shared.Bib)
	case kindGlossary:
		return nil, settings.LoadGlossary(abs, t.doc.Shared.Glossary)
	}

	if !t.c.register(abs) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, target)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", target, err)
	}
	anchor := &document.ImportAnchor{}
	child := t.doc.Child(abs)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.c.parse(string(data), child)
		anchor.Install(child)
	}()
	return anchor, nil
}

func (t *task) ignored(abs string) bool {
	value, ok := t.doc.Shared.Config.Get(refs.KeyIgnoredImports)
	if !ok {
		return false
	}
	base := filepath.Base(abs)
	for _, item := range settings.SplitList(value.AsString()) {
		if item == base {
			return true
		}
	}
	return false
}

// importManifest loads the manifest next to the root document when one
// exists. A broken manifest is a diagnostic, not a fatal error.
func (t *task) importManifest() {
	path := filepath.Join(filepath.Dir(t.doc.Path), ManifestName)
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := settings.LoadManifest(path, t.doc.Shared.Config); err != nil {
		t.report(path, err.Error())
	}
}

// importFromConfig runs the imports the manifest requests: extra
// stylesheets, bibliography and glossary files.
func (t *task) importFromConfig() {
	lists := []struct {
		key  string
		kind string
	}{
		{refs.KeyIncludedStyles, "stylesheet"},
		{refs.KeyIncludedBib, "bibliography"},
		{refs.KeyIncludedGlossaries, "glossary"},
	}
	for _, list := range lists {
		value, ok := t.doc.Shared.Config.Get(list.key)
		if !ok {
			continue
		}
		for _, item := range settings.SplitList(value.AsString()) {
			meta := document.NewMetadata()
			meta.Set("type", document.MetaStringValue(list.kind))
			if _, err := t.Import(t.doc.Path, item, meta); err != nil {
				t.report(item, err.Error())
			}
		}
	}
}

func (t *task) report(path, msg string) {
	t.c.log.Warn("import failed", "path", path, "msg", msg)
	t.c.addDiagnostics([]grammar.Diagnostic{{Path: path, Msg: msg}})
}
