package refs

import (
	"sort"
	"sync"
)

// GlossaryDisplay selects which form of an entry a reference renders.
type GlossaryDisplay int

const (
	DisplayShort GlossaryDisplay = iota
	DisplayLong
)

// GlossaryEntry is a single glossary definition.
type GlossaryEntry struct {
	Short       string
	Long        string
	Description string

	// Assigned is set when the first reference resolves against this
	// entry; that first occurrence displays the long form.
	Assigned bool
}

// GlossaryRef is the deferred cell behind one glossary occurrence.
type GlossaryRef struct {
	Short   string
	Display GlossaryDisplay

	mu     sync.RWMutex
	entry  *GlossaryEntry
	filled bool
}

func (r *GlossaryRef) HasValue() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filled
}

// Entry returns the resolved entry, nil for an unknown key.
func (r *GlossaryRef) Entry() *GlossaryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entry
}

// Formatted renders the reference; unknown keys fall back to the raw
// key.
func (r *GlossaryRef) Formatted() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entry == nil {
		return r.Short
	}
	if r.Display == DisplayLong {
		return r.entry.Long
	}
	return r.entry.Short
}

func (r *GlossaryRef) resolve(entry *GlossaryEntry, display GlossaryDisplay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filled {
		return
	}
	r.entry = entry
	r.Display = display
	r.filled = true
}

// GlossaryManager collects glossary definitions and reference cells.
type GlossaryManager struct {
	mu      sync.Mutex
	entries map[string]*GlossaryEntry
	refs    []*GlossaryRef
}

func NewGlossaryManager() *GlossaryManager {
	return &GlossaryManager{entries: make(map[string]*GlossaryEntry)}
}

// Define registers a glossary entry under its short form.
func (m *GlossaryManager) Define(entry GlossaryEntry) *GlossaryEntry {
	e := entry
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Short] = &e
	return m.entries[e.Short]
}

// Reference creates and registers the deferred cell for one glossary
// occurrence.
func (m *GlossaryManager) Reference(short string, display GlossaryDisplay) *GlossaryRef {
	ref := &GlossaryRef{Short: short, Display: display}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs = append(m.refs, ref)
	return ref
}

// AssignReferences fills every reference cell once. The first
// reference that resolves an entry is promoted to the long display
// form.
func (m *GlossaryManager) AssignReferences() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ref := range m.refs {
		if ref.HasValue() {
			continue
		}
		entry := m.entries[ref.Short]
		display := ref.Display
		if entry != nil && !entry.Assigned {
			entry.Assigned = true
			display = DisplayLong
		}
		ref.resolve(entry, display)
	}
}

// AssignedEntries returns all entries at least one reference resolved
// against, sorted by their short form.
func (m *GlossaryManager) AssignedEntries() []*GlossaryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*GlossaryEntry
	for _, e := range m.entries {
		if e.Assigned {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Short < out[j].Short })
	return out
}
