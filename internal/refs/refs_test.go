package refs

import (
	"testing"
)

func TestConfiguration_RefSharesUpdates(t *testing.T) {
	cfg := NewConfiguration()
	entry := cfg.Ref("bib-ref-display")
	if got := entry.Get(); got.AsString() != "" {
		t.Fatalf("expected empty value before Set, got %q", got.AsString())
	}

	cfg.Set("bib-ref-display", String("[{{number}}]"))
	if got := entry.Get().AsString(); got != "[{{number}}]" {
		t.Errorf("expected the shared entry to see the update, got %q", got)
	}

	// the same key always resolves to the same entry
	if cfg.Ref("bib-ref-display") != entry {
		t.Error("expected Ref to return the shared entry")
	}
}

func TestBibManager_AssignReferences(t *testing.T) {
	m := NewBibManager()
	display := &Entry{}
	display.Set(String("[{{number}}]"))

	// referenced before defined
	first := m.Reference("alpha", display)
	m.Define("beta", map[string]string{"url": "https://b.example"})
	m.Define("alpha", map[string]string{"url": "https://a.example"})
	second := m.Reference("beta", display)

	if first.HasValue() {
		t.Fatal("expected reference unassigned before AssignReferences")
	}
	m.AssignReferences()

	if !first.HasValue() || !second.HasValue() {
		t.Fatal("expected both references assigned")
	}
	// numbering follows definition order
	if got := first.Formatted(); got != "[2]" {
		t.Errorf("expected alpha formatted as [2], got %q", got)
	}
	if got := second.Formatted(); got != "[1]" {
		t.Errorf("expected beta formatted as [1], got %q", got)
	}

	entries := m.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 referenced entries, got %d", len(entries))
	}
}

func TestBibRef_CitationNeededFallback(t *testing.T) {
	m := NewBibManager()
	ref := m.Reference("ghost", nil)
	m.AssignReferences()
	if ref.HasValue() {
		t.Fatal("expected undefined reference to stay unassigned")
	}
	if got := ref.Formatted(); got != "citation needed" {
		t.Errorf("expected %q, got %q", "citation needed", got)
	}
}

func TestGlossaryManager_FirstUseGetsLongForm(t *testing.T) {
	m := NewGlossaryManager()
	m.Define(GlossaryEntry{Short: "HTTP", Long: "Hypertext Transfer Protocol"})

	first := m.Reference("HTTP", DisplayShort)
	second := m.Reference("HTTP", DisplayShort)
	m.AssignReferences()

	if got := first.Formatted(); got != "Hypertext Transfer Protocol" {
		t.Errorf("expected first use expanded, got %q", got)
	}
	if got := second.Formatted(); got != "HTTP" {
		t.Errorf("expected later uses short, got %q", got)
	}

	assigned := m.AssignedEntries()
	if len(assigned) != 1 || assigned[0].Short != "HTTP" {
		t.Fatalf("expected the used entry listed, got %+v", assigned)
	}
}

func TestGlossaryRef_UnknownKeyFallsBackToKey(t *testing.T) {
	m := NewGlossaryManager()
	ref := m.Reference("REST", DisplayShort)
	m.AssignReferences()
	if got := ref.Formatted(); got != "REST" {
		t.Errorf("expected raw key fallback, got %q", got)
	}
}

func TestValue_KindsAndPayloads(t *testing.T) {
	payload := []string{"a", "b"}
	tests := []struct {
		name string
		v    Value
		kind ValueKind
		str  string
	}{
		{"string", String("x"), KindString, "x"},
		{"bool", Bool(true), KindBool, "true"},
		{"int", Int(7), KindInt, "7"},
		{"float", Float(1.5), KindFloat, "1.5"},
		{"opaque", Opaque(payload), KindOpaque, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
			if got := tt.v.AsString(); got != tt.str {
				t.Errorf("AsString() = %q, want %q", got, tt.str)
			}
		})
	}

	raw, ok := Opaque(payload).Raw().([]string)
	if !ok || len(raw) != 2 || raw[0] != "a" {
		t.Fatalf("Raw() lost the payload: %#v", Opaque(payload).Raw())
	}
	if String("x").Raw() != nil {
		t.Error("expected typed values to carry no raw payload")
	}
}
