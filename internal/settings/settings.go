// Package settings loads the external configuration files a document
// can import: the project manifest, bibliography files and glossary
// files. Loaded values land in the shared reference managers, so
// entries become visible to deferred cells created before the load.
package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/inkdown/inkdown/internal/refs"
)

// manifestKeys maps manifest sections to flat configuration keys.
// Underscores in manifest keys are treated as dashes.
var manifestKeys = map[string]string{
	"metadata.author":                refs.KeyMetaAuthor,
	"metadata.title":                 refs.KeyMetaTitle,
	"metadata.date":                  refs.KeyMetaDate,
	"metadata.language":              refs.KeyMetaLanguage,
	"bibliography.reference-display": refs.KeyBibRefDisplay,
	"imports.ignored":                refs.KeyIgnoredImports,
	"imports.stylesheets":            refs.KeyIncludedStyles,
	"imports.bibliography":           refs.KeyIncludedBib,
	"imports.glossaries":             refs.KeyIncludedGlossaries,
	"features.smart-arrows":          refs.KeySmartArrows,
}

// LoadManifest reads a manifest file (TOML, YAML or JSON by extension)
// into the configuration. Known sections map to their flat keys; other
// keys are stored under their dotted path.
func LoadManifest(path string, cfg *refs.Configuration) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read manifest %s: %w", path, err)
	}
	for _, key := range v.AllKeys() {
		flat := strings.ReplaceAll(key, "_", "-")
		if mapped, ok := manifestKeys[flat]; ok {
			flat = mapped
		}
		cfg.Set(flat, configValue(v.Get(key)))
	}
	return nil
}

func configValue(raw any) refs.Value {
	switch v := raw.(type) {
	case string:
		return refs.String(v)
	case bool:
		return refs.Bool(v)
	case int:
		return refs.Int(int64(v))
	case int64:
		return refs.Int(v)
	case float64:
		return refs.Float(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fieldString(item))
		}
		return refs.String(strings.Join(parts, ","))
	case []string:
		return refs.String(strings.Join(v, ","))
	default:
		return refs.Opaque(raw)
	}
}

func fieldString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(raw)
	}
}

// SplitList turns a comma separated configuration value into its
// items, dropping empty entries.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// sortedKeys keeps file order independent loading deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
