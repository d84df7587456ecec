package resolve

import (
	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/refs"
)

// BibliographyList renders the referenced bibliography entries in
// citation order. Each item is an anchor target so references can link
// back to it.
func BibliographyList(bib *refs.BibManager) *document.List {
	list := &document.List{Ordered: true}
	for _, entry := range bib.Entries() {
		line := &document.TextLine{}
		line.AddSpan(&document.Bold{Spans: []document.Inline{
			&document.Plain{Text: entry.Key},
		}})
		line.AddSpan(&document.Plain{Text: " " + bibSummary(entry)})
		item := &document.ListItem{
			Text:    &document.AnchorLine{Inner: line, Key: "bib-" + entry.Key},
			Ordered: true,
		}
		list.AddItem(item)
	}
	return list
}

func bibSummary(entry *refs.BibEntry) string {
	for _, field := range []string{"title", "author", "description"} {
		if v, ok := entry.Fields[field]; ok && v != "" {
			if url := entry.URL(); url != "" {
				return v + " (" + url + ")"
			}
			return v
		}
	}
	if url := entry.URL(); url != "" {
		return url
	}
	return ""
}

// GlossaryList renders the glossary entries whose short form was used
// somewhere in the document, sorted by short form.
func GlossaryList(glossary *refs.GlossaryManager) *document.List {
	list := &document.List{}
	for _, entry := range glossary.AssignedEntries() {
		line := &document.TextLine{}
		line.AddSpan(&document.Bold{Spans: []document.Inline{
			&document.Plain{Text: entry.Short},
		}})
		line.AddSpan(&document.Plain{Text: " (" + entry.Long + ")"})
		if entry.Description != "" {
			line.AddSpan(&document.Plain{Text: ": " + entry.Description})
		}
		item := &document.ListItem{
			Text: &document.AnchorLine{Inner: line, Key: "gloss-" + entry.Short},
		}
		list.AddItem(item)
	}
	return list
}
