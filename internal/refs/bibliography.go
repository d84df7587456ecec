package refs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// BibEntry is a single bibliography definition. Fields hold the raw
// key/value pairs of the defining metadata ("author", "title", "url",
// ...); Ord is the 1-based citation number assigned by the resolution
// pass.
type BibEntry struct {
	Key    string
	Fields map[string]string
	Ord    int
}

// URL returns the url field of the entry, if any.
func (e *BibEntry) URL() string { return e.Fields["url"] }

// BibRef is the deferred cell behind one citation occurrence. It is
// created at parse time and filled exactly once by the resolution pass.
type BibRef struct {
	Key string

	// display is the shared config entry controlling citation
	// rendering ({{key}} and {{number}} substitution). May be nil.
	display *Entry

	mu     sync.RWMutex
	entry  *BibEntry
	filled bool
}

// HasValue reports whether the resolution pass has run for this cell.
func (r *BibRef) HasValue() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filled
}

// Entry returns the resolved entry, which is nil for an unknown key.
func (r *BibRef) Entry() *BibEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entry
}

// resolve fills the cell. Only the first call has an effect.
func (r *BibRef) resolve(entry *BibEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filled {
		return
	}
	r.entry = entry
	r.filled = true
}

// Formatted renders the citation. An unresolved or unknown key renders
// the neutral "citation needed" fallback instead of failing.
func (r *BibRef) Formatted() string {
	entry := r.Entry()
	if entry == nil {
		return "citation needed"
	}
	if r.display != nil {
		pattern := r.display.Get().AsString()
		if pattern != "" {
			out := strings.ReplaceAll(pattern, "{{key}}", entry.Key)
			out = strings.ReplaceAll(out, "{{number}}", fmt.Sprintf("%d", entry.Ord))
			return out
		}
	}
	return entry.Key
}

// BibManager collects bibliography definitions and reference cells from
// every parse in the import graph. All operations are single atomic
// steps.
type BibManager struct {
	mu      sync.Mutex
	entries map[string]*BibEntry
	order   []string
	refs    []*BibRef
}

func NewBibManager() *BibManager {
	return &BibManager{entries: make(map[string]*BibEntry)}
}

// Define registers a bibliography entry. The last definition of a key
// wins.
func (m *BibManager) Define(key string, fields map[string]string) *BibEntry {
	if fields == nil {
		fields = make(map[string]string)
	}
	entry := &BibEntry{Key: key, Fields: fields}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, seen := m.entries[key]; !seen {
		m.order = append(m.order, key)
	}
	m.entries[key] = entry
	return entry
}

// DefineURL registers a url-only entry ("[key]: https://...").
func (m *BibManager) DefineURL(key, url string) *BibEntry {
	return m.Define(key, map[string]string{"url": url})
}

// Reference creates and registers the deferred cell for one citation
// occurrence.
func (m *BibManager) Reference(key string, display *Entry) *BibRef {
	ref := &BibRef{Key: key, display: display}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs = append(m.refs, ref)
	return ref
}

// AssignReferences runs the final assignment: every reference cell is
// filled once, entries get citation numbers in definition order.
// Running it again is a no-op for already filled cells.
func (m *BibManager) AssignReferences() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, key := range m.order {
		m.entries[key].Ord = i + 1
	}
	for _, ref := range m.refs {
		ref.resolve(m.entries[ref.Key])
	}
}

// Entries returns the referenced entries sorted by citation number.
// Entries no reference points at are skipped.
func (m *BibManager) Entries() []*BibEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	used := make(map[string]bool)
	for _, ref := range m.refs {
		used[ref.Key] = true
	}
	var out []*BibEntry
	for key, entry := range m.entries {
		if used[key] {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ord < out[j].Ord })
	return out
}
