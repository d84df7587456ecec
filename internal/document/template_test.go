package document

import "testing"

func templateBody() []Element {
	line := &TextLine{}
	line.AddSpan(&Plain{Text: "Hello "})
	line.AddSpan(NewTemplateVariable("", "name", "!"))
	p := &Paragraph{}
	p.AddLine(line)
	return []Element{p}
}

func renderedText(t *testing.T, out []Element) string {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("expected 1 element, got %d", len(out))
	}
	return PlainText(out[0])
}

func TestTemplate_RenderBindsVariables(t *testing.T) {
	tpl := NewTemplate(templateBody())
	out := tpl.Render(map[string]Element{"name": &Plain{Text: "World"}})
	if got := renderedText(t, out); got != "Hello World!" {
		t.Fatalf("rendered %q", got)
	}
}

func TestTemplate_RenderIsRepeatable(t *testing.T) {
	tpl := NewTemplate(templateBody())

	first := tpl.Render(map[string]Element{"name": &Plain{Text: "Alice"}})
	second := tpl.Render(map[string]Element{"name": &Plain{Text: "Bob"}})

	if got := renderedText(t, first); got != "Hello Alice!" {
		t.Errorf("first expansion rendered %q", got)
	}
	if got := renderedText(t, second); got != "Hello Bob!" {
		t.Errorf("second expansion rendered %q", got)
	}
}

func TestTemplate_RenderResetsSharedVariables(t *testing.T) {
	tpl := NewTemplate(templateBody())
	tpl.Render(map[string]Element{"name": &Plain{Text: "once"}})

	for name, vars := range tpl.Variables {
		for _, v := range vars {
			if v.HasValue() {
				t.Errorf("variable %q still bound after render", name)
			}
		}
	}
}

func TestTemplate_UnboundVariableRendersNothing(t *testing.T) {
	tpl := NewTemplate(templateBody())
	out := tpl.Render(nil)
	if got := renderedText(t, out); got != "Hello " {
		t.Fatalf("rendered %q", got)
	}
}

func TestCollectTemplateVariables_FindsNestedOccurrences(t *testing.T) {
	inner := &TextLine{}
	inner.AddSpan(&Bold{Spans: []Inline{NewTemplateVariable("", "a", "")}})
	p := &Paragraph{}
	p.AddLine(inner)

	item := &ListItem{Text: &TextLine{Spans: []Inline{NewTemplateVariable("", "b", "")}}}
	list := &List{Items: []*ListItem{item}}

	section := &Section{Blocks: []Block{p, list}}

	vars := CollectTemplateVariables(section)
	if len(vars) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(vars))
	}
	names := map[string]bool{}
	for _, v := range vars {
		names[v.Name] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("collected names %v", names)
	}
}
