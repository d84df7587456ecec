package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/inkdown/inkdown/internal/refs"
)

// LoadBibliography reads a TOML bibliography file. Each top-level
// table is one entry: the table name is the citation key, its fields
// become the entry fields. go-toml keeps key case, so citation keys
// stay exactly as written.
func LoadBibliography(path string, bib *refs.BibManager) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bibliography %s: %w", path, err)
	}
	var raw map[string]map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse bibliography %s: %w", path, err)
	}
	for _, key := range sortedKeys(raw) {
		fields := make(map[string]string, len(raw[key]))
		for name, value := range raw[key] {
			fields[strings.ToLower(name)] = fieldString(value)
		}
		bib.Define(key, fields)
	}
	return nil
}

type glossaryEntry struct {
	Long        string `toml:"long"`
	Description string `toml:"description"`
}

// LoadGlossary reads a TOML glossary file. Each top-level table maps a
// short form to its long form and description.
func LoadGlossary(path string, glossary *refs.GlossaryManager) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read glossary %s: %w", path, err)
	}
	var raw map[string]glossaryEntry
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse glossary %s: %w", path, err)
	}
	for _, short := range sortedKeys(raw) {
		glossary.Define(refs.GlossaryEntry{
			Short:       short,
			Long:        raw[short].Long,
			Description: raw[short].Description,
		})
	}
	return nil
}
