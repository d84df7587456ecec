package pipeline

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/refs"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func sectionTitles(doc *document.Document) []string {
	var titles []string
	for _, b := range doc.Blocks {
		if s, ok := b.(*document.Section); ok {
			titles = append(titles, document.PlainText(s.Header.Line))
		}
	}
	return titles
}

func TestParseFile_SplicesImportedDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.md", "# Child\n\nimported [[date]]\n")
	root := writeFile(t, dir, "root.md", "intro text\n\n<[child.md]\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}

	titles := sectionTitles(result.Document)
	if len(titles) != 1 || titles[0] != "Child" {
		t.Fatalf("sections %v, want [Child]", titles)
	}
	if len(result.Document.Placeholders) == 0 {
		t.Fatal("child placeholders not merged into root")
	}
	for _, ph := range result.Document.Placeholders {
		if !ph.HasValue() {
			t.Errorf("placeholder %q left unresolved", ph.Name)
		}
	}
}

func TestParseFile_ImportCycleReportsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A\n\n<[b.md]\n")
	writeFile(t, dir, "b.md", "# B\n\n<[a.md]\n")

	result, err := ParseFile(filepath.Join(dir, "a.md"), quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	found := false
	for _, d := range result.Diagnostics {
		if strings.Contains(d.Msg, "already imported") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no cycle diagnostic in %v", result.Diagnostics)
	}

	// both files still contribute their sections exactly once
	titles := sectionTitles(result.Document)
	if len(titles) != 2 || titles[0] != "A" || titles[1] != "B" {
		t.Fatalf("sections %v, want [A B]", titles)
	}
}

func TestParseFile_DuplicateImportLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.md", "# Shared\n")
	root := writeFile(t, dir, "root.md", "<[shared.md]\n\n<[shared.md]\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	titles := sectionTitles(result.Document)
	if len(titles) != 1 || titles[0] != "Shared" {
		t.Fatalf("sections %v, want [Shared]", titles)
	}
}

func TestParseFile_LoadsManifestNextToRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ManifestName, "[metadata]\ntitle = \"From Manifest\"\n")
	root := writeFile(t, dir, "root.md", "the title is [[title]]\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	value, ok := result.Document.Shared.Config.Get(refs.KeyMetaTitle)
	if !ok || value.AsString() != "From Manifest" {
		t.Fatalf("title = %q, %v", value.AsString(), ok)
	}
	if got := document.PlainText(result.Document.Blocks[0]); got != "the title is From Manifest" {
		t.Errorf("rendered %q", got)
	}
}

func TestParseFile_MissingImportIsDiagnosticNotError(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.md", "before\n\n<[missing.md]\n\nafter\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("diagnostics %v, want exactly one", result.Diagnostics)
	}
	if !strings.Contains(result.Diagnostics[0].Msg, "missing.md") {
		t.Errorf("diagnostic %q does not name the file", result.Diagnostics[0].Msg)
	}
	if len(result.Document.Blocks) != 2 {
		t.Errorf("blocks around the failed import lost: %d", len(result.Document.Blocks))
	}
}

func TestParseFile_StylesheetImportRegistersEmbed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "style.css", "body { margin: 0 }\n")
	root := writeFile(t, dir, "root.md", "<[style.css]\n\ntext\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if len(result.Document.Stylesheets) != 1 {
		t.Fatalf("stylesheets %d, want 1", len(result.Document.Stylesheets))
	}
}

func TestParseFile_BibliographyImportDefinesEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "refs.bib.toml", "[golang]\ntitle = \"The Go Programming Language\"\nurl = \"https://go.dev\"\n")
	root := writeFile(t, dir, "root.md", "<[refs.bib.toml]\n\nsee [^golang]\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	entries := result.Document.Shared.Bib.Entries()
	if len(entries) != 1 || entries[0].Key != "golang" {
		t.Fatalf("entries %v", entries)
	}
	if got := entries[0].Fields["title"]; got != "The Go Programming Language" {
		t.Errorf("title %q", got)
	}
}

func TestImport_IgnoredBasenameIsSkipped(t *testing.T) {
	doc := document.New()
	doc.Shared.Config.Set(refs.KeyIgnoredImports, refs.String("skip.md, other.md"))
	tk := &task{c: newCoordinator(quietLogger()), doc: doc}

	anchor, err := tk.Import("/tmp/root.md", "skip.md", nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if anchor != nil {
		t.Fatal("ignored import returned an anchor")
	}
}

func TestClassify_KindSelection(t *testing.T) {
	tests := []struct {
		explicit string
		path     string
		want     importKind
	}{
		{"", "notes.md", kindDocument},
		{"", "style.css", kindStylesheet},
		{"", "refs.bib.toml", kindBibliography},
		{"", "terms.gloss.toml", kindGlossary},
		{"", "glossary.toml", kindGlossary},
		{"", "Manifest.toml", kindManifest},
		{"stylesheet", "anything.txt", kindStylesheet},
		{"config", "settings.dat", kindManifest},
		{"document", "data.toml", kindDocument},
	}
	for _, tt := range tests {
		if got := classify(tt.explicit, tt.path); got != tt.want {
			t.Errorf("classify(%q, %q) = %d, want %d", tt.explicit, tt.path, got, tt.want)
		}
	}
}

func TestParseFile_ManifestCitationDisplay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Manifest.toml", "[bibliography]\nreference_display = \"[{{number}}]\"\n")
	writeFile(t, dir, "refs.bib.toml", "[mybook]\nurl = \"https://example.com\"\n")
	root := writeFile(t, dir, "root.md", "<[refs.bib.toml]\n\nsee [^mybook]\n")

	result, err := ParseFile(root, quietLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	ref := firstCitation(result.Document)
	if ref == nil {
		t.Fatal("expected a citation span in the parsed document")
	}
	// the manifest loads after the grammar runs, so the pattern has to
	// reach references taken at parse time
	if got := ref.Ref.Formatted(); got != "[1]" {
		t.Errorf("citation rendered %q, want %q", got, "[1]")
	}
}

func firstCitation(doc *document.Document) *document.BibReference {
	var walk func(blocks []document.Block) *document.BibReference
	walk = func(blocks []document.Block) *document.BibReference {
		for _, block := range blocks {
			switch b := block.(type) {
			case *document.Paragraph:
				for _, line := range b.Lines {
					text, ok := line.(*document.TextLine)
					if !ok {
						continue
					}
					for _, span := range text.Spans {
						if ref, ok := span.(*document.BibReference); ok {
							return ref
						}
					}
				}
			case *document.Section:
				if ref := walk(b.Blocks); ref != nil {
					return ref
				}
			}
		}
		return nil
	}
	return walk(doc.Blocks)
}
