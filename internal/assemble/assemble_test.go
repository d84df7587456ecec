package assemble_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/inkdown/inkdown/internal/assemble"
	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/grammar"
)

func item(text string, level int) *document.ListItem {
	line := &document.TextLine{}
	line.AddSpan(&document.Plain{Text: text})
	return &document.ListItem{Text: line, Level: level}
}

type itemShape struct {
	Text     string
	Children []itemShape
}

func shape(items []*document.ListItem) []itemShape {
	var out []itemShape
	for _, it := range items {
		out = append(out, itemShape{
			Text:     document.PlainText(it.Text),
			Children: shape(it.Children),
		})
	}
	return out
}

func TestBuildListForest(t *testing.T) {
	tests := []struct {
		name  string
		items []*document.ListItem
		want  []itemShape
	}{
		{
			name:  "flat",
			items: []*document.ListItem{item("a", 0), item("b", 0), item("c", 0)},
			want:  []itemShape{{Text: "a"}, {Text: "b"}, {Text: "c"}},
		},
		{
			name:  "nested",
			items: []*document.ListItem{item("a", 0), item("b", 2), item("c", 2), item("d", 0)},
			want: []itemShape{
				{Text: "a", Children: []itemShape{{Text: "b"}, {Text: "c"}}},
				{Text: "d"},
			},
		},
		{
			name:  "level gap",
			items: []*document.ListItem{item("a", 0), item("b", 6), item("c", 2)},
			want: []itemShape{
				{Text: "a", Children: []itemShape{{Text: "b"}, {Text: "c"}}},
			},
		},
		{
			name:  "deep unwind",
			items: []*document.ListItem{item("a", 0), item("b", 2), item("c", 4), item("d", 0)},
			want: []itemShape{
				{Text: "a", Children: []itemShape{
					{Text: "b", Children: []itemShape{{Text: "c"}}},
				}},
				{Text: "d"},
			},
		},
		{
			// a leading over-indented item folds into the first
			// shallower item that follows
			name:  "starts deep",
			items: []*document.ListItem{item("a", 4), item("b", 0)},
			want: []itemShape{
				{Text: "b", Children: []itemShape{{Text: "a"}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shape(assemble.BuildListForest(tt.items))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("forest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func section(size int) *document.Section {
	line := &document.TextLine{}
	line.AddSpan(&document.Plain{Text: "s"})
	return &document.Section{Header: document.Header{Size: size, Line: line}}
}

func TestRenest_GraftsDeeperSections(t *testing.T) {
	doc := document.New()
	a := section(1)
	b := section(3)
	doc.AddBlock(a)
	doc.AddBlock(b)

	assemble.Renest(doc)

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 top-level block, got %d", len(doc.Blocks))
	}
	if got := doc.Blocks[0]; got != a {
		t.Fatalf("expected the h1 at top level, got %T", got)
	}
	if len(a.Blocks) != 1 || a.Blocks[0] != b {
		t.Fatalf("expected the h3 grafted below the h1, got %+v", a.Blocks)
	}
}

func TestRenest_IntermediateLevelWins(t *testing.T) {
	doc := document.New()
	a := section(1)
	b := section(2)
	c := section(4)
	doc.AddBlock(a)
	doc.AddBlock(b)
	doc.AddBlock(c)

	assemble.Renest(doc)

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 top-level block, got %d", len(doc.Blocks))
	}
	if len(a.Blocks) != 1 || a.Blocks[0] != b {
		t.Fatalf("expected the h2 below the h1")
	}
	if len(b.Blocks) != 1 || b.Blocks[0] != c {
		t.Fatalf("expected the h4 below the h2, got %+v", b.Blocks)
	}
}

func TestRenest_SplicesFilledImports(t *testing.T) {
	child := document.New()
	child.Root = false
	childSection := section(2)
	child.AddBlock(childSection)
	child.AddPlaceholder(document.NewPlaceholder("toc", nil))

	anchor := &document.ImportAnchor{}
	anchor.Install(child)

	doc := document.New()
	parent := section(1)
	doc.AddBlock(parent)
	doc.AddBlock(&document.Import{Path: "child.md", Anchor: anchor})

	if !anchor.Filled() {
		t.Fatal("expected the anchor to report filled before the splice")
	}
	assemble.Renest(doc)
	if anchor.Filled() {
		t.Error("expected the splice to consume the anchor")
	}

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 top-level block after splice, got %d", len(doc.Blocks))
	}
	if len(parent.Blocks) != 1 || parent.Blocks[0] != childSection {
		t.Fatalf("expected imported section grafted below the open section")
	}
	if len(doc.Placeholders) != 1 {
		t.Errorf("expected the child placeholder merged, got %d", len(doc.Placeholders))
	}
}

func TestRenest_DropsUnfilledImports(t *testing.T) {
	doc := document.New()
	doc.AddBlock(&document.Import{Path: "missing.md", Anchor: &document.ImportAnchor{}})

	assemble.Renest(doc)

	if len(doc.Blocks) != 0 {
		t.Errorf("expected unfilled import dropped, got %d blocks", len(doc.Blocks))
	}
}

// TestRenest_MatchesGoldmarkHeadingTree checks the section shape of a
// plain markdown document against goldmark's AST, which nests content
// under headings the same way.
func TestRenest_MatchesGoldmarkHeadingTree(t *testing.T) {
	input := `# One

intro

## One A

text

### One A 1

deep

## One B

more

# Two

end
`
	p := grammar.New(input, grammar.Options{Path: "cmp.md"})
	doc := p.Parse()
	assemble.Renest(doc)
	got := sectionShape(doc.Blocks)

	want := goldmarkShape(t, input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("heading tree mismatch (-goldmark +ours):\n%s", diff)
	}
}

type headingShape struct {
	Title    string
	Level    int
	Children []headingShape
}

func sectionShape(blocks []document.Block) []headingShape {
	var out []headingShape
	for _, b := range blocks {
		s, ok := b.(*document.Section)
		if !ok {
			continue
		}
		out = append(out, headingShape{
			Title:    document.PlainText(s.Header.Line),
			Level:    s.Header.Size,
			Children: sectionShape(s.Blocks),
		})
	}
	return out
}

// goldmarkShape rebuilds the same nesting from goldmark's flat heading
// sequence with an explicit level stack.
func goldmarkShape(t *testing.T, input string) []headingShape {
	t.Helper()
	source := []byte(input)
	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(source))

	type node struct {
		title    string
		level    int
		children []*node
	}
	top := &node{}
	stack := []*node{top}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		current := &node{
			title: strings.TrimSpace(string(heading.Lines().Value(source))),
			level: heading.Level,
		}
		for len(stack) > 1 && stack[len(stack)-1].level >= heading.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, current)
		stack = append(stack, current)
	}

	var convert func(nodes []*node) []headingShape
	convert = func(nodes []*node) []headingShape {
		var out []headingShape
		for _, n := range nodes {
			out = append(out, headingShape{
				Title:    n.title,
				Level:    n.level,
				Children: convert(n.children),
			})
		}
		return out
	}
	return convert(top.children)
}
