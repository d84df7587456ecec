package html

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/inkdown/inkdown/internal/pipeline"
)

func renderMarkup(t *testing.T, input string) string {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	result := pipeline.ParseString(input, "", log)
	for _, d := range result.Diagnostics {
		t.Logf("diagnostic: %s", d)
	}
	var buf bytes.Buffer
	if err := Render(&buf, result.Document); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func mustContain(t *testing.T, page string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("output missing %q\n%s", want, page)
		}
	}
}

func TestRender_Page(t *testing.T) {
	page := renderMarkup(t, `# Greetings Page

hello **bold** and *slanted* world

- [x] done
- [ ] open
`)
	mustContain(t, page,
		"<!DOCTYPE html>",
		"<title>Greetings Page</title>",
		`<h1 id="GreetingsPage">`,
		"<b>",
		"<i>",
		"<ul>",
		`<input type="checkbox" disabled="" checked=""`,
	)
}

func TestRender_TitleFallsBackToDocument(t *testing.T) {
	page := renderMarkup(t, "just a paragraph\n")
	mustContain(t, page, "<title>Document</title>")
}

func TestRender_Table(t *testing.T) {
	page := renderMarkup(t, `| Name | Value |
|------|-------|
| port | 8090  |
`)
	mustContain(t, page,
		"<thead>", "<th>", "Name",
		"<tbody>", "<td>", "8090",
	)
}

func TestRender_ArrowAndCharacterCode(t *testing.T) {
	page := renderMarkup(t, "input --> output gives &copy; marks\n")
	mustContain(t, page, "→", "©")
}

func TestRender_EscapesMarkupCharacters(t *testing.T) {
	page := renderMarkup(t, "true when 3 < 4\n")
	mustContain(t, page, "3 &lt; 4")
}

func TestRender_BibliographyLinksRoundTrip(t *testing.T) {
	page := renderMarkup(t, `[mybook]: https://example.com/book

as shown in [^mybook]

[[bibliography]]
`)
	mustContain(t, page,
		`href="#bib-mybook"`,
		`id="bib-mybook"`,
	)
}

func TestRender_CodeBlockKeepsLanguage(t *testing.T) {
	page := renderMarkup(t, "```go\nfmt.Println(\"hi\")\n```\n")
	mustContain(t, page,
		`<code class="language-go">`,
		"fmt.Println(&#34;hi&#34;)",
	)
}

func TestRender_LanguageAttributeFromConfig(t *testing.T) {
	page := renderMarkup(t, "[[set:language]][value='de']\n\ntext\n")
	mustContain(t, page, `<html lang="de">`)
}
