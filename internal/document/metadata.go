package document

import (
	"strconv"

	"github.com/inkdown/inkdown/internal/refs"
)

// MetaKind enumerates the typed metadata values.
type MetaKind int

const (
	MetaString MetaKind = iota
	MetaBool
	MetaInt
	MetaFloat
	MetaPlaceholder
	MetaTemplate
)

// MetaValue is one typed value of a metadata mapping.
type MetaValue struct {
	Kind        MetaKind
	Str         string
	Bool        bool
	Int         int64
	Float       float64
	Placeholder *Placeholder
	Template    *Template
}

func MetaStringValue(s string) MetaValue { return MetaValue{Kind: MetaString, Str: s} }
func MetaBoolValue(b bool) MetaValue     { return MetaValue{Kind: MetaBool, Bool: b} }
func MetaIntValue(i int64) MetaValue     { return MetaValue{Kind: MetaInt, Int: i} }
func MetaFloatValue(f float64) MetaValue { return MetaValue{Kind: MetaFloat, Float: f} }

// String renders the value for display contexts. Placeholder and
// template values render empty.
func (v MetaValue) String() string {
	switch v.Kind {
	case MetaString:
		return v.Str
	case MetaBool:
		return strconv.FormatBool(v.Bool)
	case MetaInt:
		return strconv.FormatInt(v.Int, 10)
	case MetaFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return ""
	}
}

// ConfigValue converts the metadata value for the configuration store.
// Placeholder values have no configuration representation.
func (v MetaValue) ConfigValue() (refs.Value, bool) {
	switch v.Kind {
	case MetaString:
		return refs.String(v.Str), true
	case MetaBool:
		return refs.Bool(v.Bool), true
	case MetaInt:
		return refs.Int(v.Int), true
	case MetaFloat:
		return refs.Float(v.Float), true
	case MetaTemplate:
		return refs.Opaque(v.Template), true
	default:
		return refs.Value{}, false
	}
}

// Metadata is the "[key=value, flag]" mapping attached to a block or
// inline. A nil *Metadata behaves as empty.
type Metadata struct {
	Values map[string]MetaValue
}

func NewMetadata() *Metadata {
	return &Metadata{Values: make(map[string]MetaValue)}
}

func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Values)
}

func (m *Metadata) Set(key string, v MetaValue) {
	m.Values[key] = v
}

func (m *Metadata) Get(key string) (MetaValue, bool) {
	if m == nil {
		return MetaValue{}, false
	}
	v, ok := m.Values[key]
	return v, ok
}

// GetBool returns the value of a boolean key, false when missing or of
// another kind.
func (m *Metadata) GetBool(key string) bool {
	v, ok := m.Get(key)
	return ok && v.Kind == MetaBool && v.Bool
}

// GetString returns a string-typed value, "" when missing.
func (m *Metadata) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok || v.Kind != MetaString {
		return ""
	}
	return v.Str
}

// StringMap flattens the displayable values into plain strings.
func (m *Metadata) StringMap() map[string]string {
	out := make(map[string]string)
	if m == nil {
		return out
	}
	for k, v := range m.Values {
		switch v.Kind {
		case MetaString, MetaBool, MetaInt, MetaFloat:
			out[k] = v.String()
		}
	}
	return out
}
