// Package pipeline drives a full parse: it reads the root file, runs
// the grammar, resolves imports concurrently, waits for the import
// graph to finish and then assembles and resolves the combined
// document. Every imported file parses on its own goroutine; shared
// state lives behind the reference managers and the coordinator.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/inkdown/inkdown/internal/assemble"
	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/grammar"
	"github.com/inkdown/inkdown/internal/resolve"
)

// ManifestName is the file imported automatically for the root
// document when it exists next to it.
const ManifestName = "Manifest.toml"

// Result is a finished parse: the assembled and resolved document
// together with every diagnostic collected across the import graph.
type Result struct {
	Document    *document.Document
	Diagnostics []grammar.Diagnostic
}

// Coordinator owns the cross-file state of one parse run: the set of
// paths ever imported, which doubles as cycle detection and duplicate
// suppression, and the merged diagnostics.
type Coordinator struct {
	log *slog.Logger

	mu    sync.Mutex
	seen  map[string]struct{}
	diags []grammar.Diagnostic
}

func newCoordinator(log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{log: log, seen: make(map[string]struct{})}
}

// register claims a path for parsing. It reports false when the path
// was already claimed, which means a cycle or a duplicate import.
func (c *Coordinator) register(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[path]; ok {
		return false
	}
	c.seen[path] = struct{}{}
	return true
}

func (c *Coordinator) addDiagnostics(diags []grammar.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, diags...)
}

func (c *Coordinator) diagnostics() []grammar.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]grammar.Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// ParseFile parses path and its whole import graph.
func ParseFile(path string, log *slog.Logger) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	c := newCoordinator(log)
	c.register(abs)
	doc := document.New()
	doc.Path = abs
	c.parse(string(data), doc)
	return &Result{Document: doc, Diagnostics: c.diagnostics()}, nil
}

// ParseString parses in-memory input. The path, which may be empty,
// anchors relative imports and diagnostics.
func ParseString(input, path string, log *slog.Logger) *Result {
	c := newCoordinator(log)
	doc := document.New()
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		doc.Path = path
		c.register(path)
	}
	c.parse(input, doc)
	return &Result{Document: doc, Diagnostics: c.diagnostics()}
}

// parse runs the grammar over one file and joins its import subtree.
// Only the root document triggers manifest loading, configuration
// driven imports and the final resolution pass.
func (c *Coordinator) parse(input string, doc *document.Document) {
	t := &task{c: c, doc: doc}
	p := grammar.New(input, grammar.Options{
		Path:     doc.Path,
		Document: doc,
		Resolver: t,
		Logger:   c.log,
	})
	p.Parse()
	c.addDiagnostics(p.Diagnostics())

	if doc.Root {
		t.importManifest()
	}
	t.wg.Wait()
	if doc.Root {
		t.importFromConfig()
		t.wg.Wait()
	}

	assemble.Renest(doc)
	if doc.Root {
		resolve.Run(doc, c.log)
	}
}
