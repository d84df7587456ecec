// Package resolve fills the deferred cells of an assembled document:
// definition placeholders feed the configuration, builtin placeholders
// expand, and bibliography and glossary references receive their
// entries. The pass runs once over the fully assembled tree; a second
// run is a no-op because every cell fills at most once.
package resolve

import (
	"log/slog"
	"strings"
	"time"

	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/refs"
)

const (
	definitionPrefix = "set:"

	dateLayout     = "02.01.2006"
	timeLayout     = "15:04:05"
	datetimeLayout = dateLayout + " " + timeLayout
)

// Run resolves the document in two phases: definitions first so that
// configuration they set is visible to everything else, then general
// placeholders and reference assignment.
func Run(doc *document.Document, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	now := time.Now()

	for _, ph := range doc.Placeholders {
		if ph.HasValue() {
			continue
		}
		name := strings.ToLower(ph.Name)
		if !strings.HasPrefix(name, definitionPrefix) {
			continue
		}
		key := strings.TrimPrefix(name, definitionPrefix)
		if value, ok := ph.Metadata.Get("value"); ok {
			if cv, ok := value.ConfigValue(); ok {
				doc.Shared.Config.Set(key, cv)
			}
		} else {
			doc.Shared.Config.Set(key, refs.Bool(true))
		}
		// a definition leaves no visible output
		ph.Resolve(&document.Plain{Text: ""})
	}

	doc.Shared.Bib.AssignReferences()
	doc.Shared.Glossary.AssignReferences()

	for _, ph := range doc.Placeholders {
		if ph.HasValue() {
			continue
		}
		switch strings.ToLower(ph.Name) {
		case "toc":
			ordered := ph.Metadata.GetBool("ordered")
			ph.Resolve(TableOfContents(doc, ordered))
		case "date":
			ph.Resolve(&document.Plain{Text: now.Format(dateLayout)})
		case "time":
			ph.Resolve(&document.Plain{Text: now.Format(timeLayout)})
		case "datetime":
			ph.Resolve(&document.Plain{Text: now.Format(datetimeLayout)})
		case "bibliography":
			ph.Resolve(BibliographyList(doc.Shared.Bib))
		case "glossary":
			ph.Resolve(GlossaryList(doc.Shared.Glossary))
		default:
			if value, ok := doc.Shared.Config.Get(strings.ToLower(ph.Name)); ok && value.Kind() != refs.KindOpaque {
				ph.Resolve(&document.Plain{Text: value.AsString()})
				continue
			}
			log.Warn("unknown placeholder", "name", ph.Name, "path", doc.Path)
			ph.Resolve(&document.Plain{Text: "[[" + ph.Name + "]]"})
		}
	}
}

// TableOfContents builds a nested list over the section tree. Sections
// with the toc-hidden metadata flag are skipped together with their
// subtree.
func TableOfContents(doc *document.Document, ordered bool) *document.List {
	list := &document.List{Ordered: ordered}
	for _, item := range tocItems(doc.Blocks, ordered) {
		list.AddItem(item)
	}
	return list
}

func tocItems(blocks []document.Block, ordered bool) []*document.ListItem {
	var items []*document.ListItem
	for _, block := range blocks {
		section, ok := block.(*document.Section)
		if !ok || section.HiddenInTOC() {
			continue
		}
		item := &document.ListItem{
			Text:    section.Header.RefTarget(),
			Ordered: ordered,
		}
		for _, child := range tocItems(section.Blocks, ordered) {
			item.AddChild(child)
		}
		items = append(items, item)
	}
	return items
}
