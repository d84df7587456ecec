// Package refs holds the state shared between concurrently running
// parses: the configuration store, the bibliography manager and the
// glossary manager. Every mutating operation is a single internally
// locked step; callers never hold a lock across a parse step.
package refs

import (
	"strconv"
	"sync"
)

// ValueKind enumerates the typed configuration values.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindOpaque
)

// Value is a typed configuration value. Opaque values carry payloads
// the store does not interpret (template bodies).
type Value struct {
	kind ValueKind
	s    string
	b    bool
	i    int64
	f    float64
	raw  any
}

func String(s string) Value  { return Value{kind: KindString, s: s} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Opaque(raw any) Value   { return Value{kind: KindOpaque, raw: raw} }
func (v Value) Kind() ValueKind { return v.kind }
func (v Value) Raw() any        { return v.raw }
func (v Value) AsBool() bool    { return v.kind == KindBool && v.b }

// AsString renders the value the way placeholder resolution displays
// it. Opaque values render empty.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return ""
	}
}

// Entry is a shared, synchronized slot for one configuration value.
// References handed out by Ref stay valid when the value is replaced.
type Entry struct {
	mu sync.RWMutex
	v  Value
}

func (e *Entry) Get() Value {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.v
}

func (e *Entry) Set(v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.v = v
}

// Configuration is the key to typed-value store shared by a whole
// import graph.
type Configuration struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewConfiguration() *Configuration {
	return &Configuration{entries: make(map[string]*Entry)}
}

// Get returns a copy of the value stored under key.
func (c *Configuration) Get(key string) (Value, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Value{}, false
	}
	return e.Get(), true
}

// GetString returns the rendered string value under key.
func (c *Configuration) GetString(key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString(), true
}

// Ref returns the shared entry under key, creating an empty one for an
// absent key. The entry reflects later Set calls, so a reference taken
// at parse time observes configuration loaded afterwards.
func (c *Configuration) Ref(key string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &Entry{}
		c.entries[key] = e
	}
	return e
}

// Set stores a value under key, updating the shared entry in place if
// one exists so earlier Ref holders observe the change.
func (c *Configuration) Set(key string, v Value) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &Entry{}
		c.entries[key] = e
	}
	c.mu.Unlock()
	e.Set(v)
}

// Keys returns a snapshot of all configured keys.
func (c *Configuration) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Well-known configuration keys.
const (
	KeyBibRefDisplay = "bib-ref-display"
	KeyMetaAuthor    = "author"
	KeyMetaTitle     = "title"
	KeyMetaDate      = "date"
	KeyMetaLanguage  = "language"

	KeyIgnoredImports     = "ignored-imports"
	KeyIncludedStyles     = "included-stylesheets"
	KeyIncludedBib        = "included-bibliography"
	KeyIncludedGlossaries = "included-glossary"
	KeySmartArrows        = "smart-arrows"
)
