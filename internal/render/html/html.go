// Package html renders a resolved document tree to an HTML page. The
// output is built as a node tree and serialized with x/net/html, so
// text is always escaped correctly.
package html

import (
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/refs"
)

// Renderer writes a document as a standalone HTML page.
type Renderer struct {
	// EmbedSources inlines fetched stylesheets and images into the
	// page. Pending jobs must be fetched beforehand.
	EmbedSources bool
}

// Render writes doc as a complete page.
func Render(w io.Writer, doc *document.Document) error {
	return (&Renderer{}).Render(w, doc)
}

func (r *Renderer) Render(w io.Writer, doc *document.Document) error {
	return xhtml.Render(w, r.page(doc))
}

func (r *Renderer) page(doc *document.Document) *xhtml.Node {
	root := el(atom.Html)
	if lang, ok := doc.Shared.Config.GetString(refs.KeyMetaLanguage); ok {
		root.Attr = append(root.Attr, attr("lang", lang))
	}

	head := el(atom.Head)
	meta := el(atom.Meta, attr("charset", "utf-8"))
	head.AppendChild(meta)
	title := el(atom.Title)
	title.AppendChild(text(r.title(doc)))
	head.AppendChild(title)
	for _, stylesheet := range doc.Stylesheets {
		if r.EmbedSources && stylesheet.HasData() {
			style := el(atom.Style)
			style.AppendChild(text(string(stylesheet.Data())))
			head.AppendChild(style)
			continue
		}
		head.AppendChild(el(atom.Link,
			attr("rel", "stylesheet"), attr("href", stylesheet.Path)))
	}
	root.AppendChild(head)

	body := el(atom.Body)
	main := el(atom.Main)
	for _, block := range doc.Blocks {
		appendNode(main, r.block(block))
	}
	body.AppendChild(main)
	root.AppendChild(body)

	page := &xhtml.Node{Type: xhtml.DocumentNode}
	page.AppendChild(&xhtml.Node{Type: xhtml.DoctypeNode, Data: "html"})
	page.AppendChild(root)
	return page
}

func (r *Renderer) title(doc *document.Document) string {
	if title, ok := doc.Shared.Config.GetString(refs.KeyMetaTitle); ok && title != "" {
		return title
	}
	for _, block := range doc.Blocks {
		if section, ok := block.(*document.Section); ok {
			if title := document.PlainText(section.Header.Line); title != "" {
				return title
			}
		}
	}
	return "Document"
}

func (r *Renderer) block(b document.Block) *xhtml.Node {
	switch v := b.(type) {
	case *document.Section:
		return r.section(v)
	case *document.Paragraph:
		p := el(atom.P)
		for i, line := range v.Lines {
			if i > 0 {
				p.AppendChild(el(atom.Br))
			}
			appendNode(p, r.line(line))
		}
		return p
	case *document.List:
		return r.list(v.Ordered, v.Items)
	case *document.Table:
		return r.table(v)
	case *document.CodeBlock:
		pre := el(atom.Pre)
		code := el(atom.Code)
		if v.Language != "" {
			code.Attr = append(code.Attr, attr("class", "language-"+v.Language))
		}
		code.AppendChild(text(v.Code))
		pre.AppendChild(code)
		return pre
	case *document.MathBlock:
		pre := el(atom.Pre, attr("class", "math"))
		pre.AppendChild(text(v.Expression))
		return pre
	case *document.Quote:
		quote := el(atom.Blockquote)
		for i, line := range v.Lines {
			if i > 0 {
				quote.AppendChild(el(atom.Br))
			}
			appendNode(quote, r.spans(line.Spans))
		}
		if author := v.Metadata.GetString("author"); author != "" {
			cite := el(atom.Cite)
			cite.AppendChild(text(author))
			quote.AppendChild(cite)
		}
		return quote
	case *document.Placeholder:
		if v.HasValue() {
			return r.element(v.Value())
		}
		return text("[[" + v.Name + "]]")
	case *document.Import, *document.Null:
		return nil
	default:
		return nil
	}
}

func (r *Renderer) section(s *document.Section) *xhtml.Node {
	node := el(atom.Section)
	size := s.Header.Size
	if size > 6 {
		size = 6
	}
	headings := []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}
	h := el(headings[size-1])
	if s.Header.Anchor != "" {
		h.Attr = append(h.Attr, attr("id", s.Header.Anchor))
	}
	appendNode(h, r.line(s.Header.Line))
	node.AppendChild(h)
	for _, block := range s.Blocks {
		appendNode(node, r.block(block))
	}
	return node
}

func (r *Renderer) list(ordered bool, items []*document.ListItem) *xhtml.Node {
	a := atom.Ul
	if ordered {
		a = atom.Ol
	}
	node := el(a)
	for _, item := range items {
		li := el(atom.Li)
		appendNode(li, r.line(item.Text))
		if len(item.Children) > 0 {
			li.AppendChild(r.list(item.Children[0].Ordered, item.Children))
		}
		node.AppendChild(li)
	}
	return node
}

func (r *Renderer) table(t *document.Table) *xhtml.Node {
	node := el(atom.Table)
	if t.Header != nil {
		thead := el(atom.Thead)
		thead.AppendChild(r.row(t.Header, atom.Th))
		node.AppendChild(thead)
	}
	tbody := el(atom.Tbody)
	for _, row := range t.Rows {
		tbody.AppendChild(r.row(row, atom.Td))
	}
	node.AppendChild(tbody)
	return node
}

func (r *Renderer) row(row *document.Row, cell atom.Atom) *xhtml.Node {
	tr := el(atom.Tr)
	for _, c := range row.Cells {
		td := el(cell)
		appendNode(td, r.line(c.Text))
		tr.AppendChild(td)
	}
	return tr
}

func (r *Renderer) line(l document.Line) *xhtml.Node {
	switch v := l.(type) {
	case *document.TextLine:
		return r.spans(v.Spans)
	case *document.Ruler:
		return el(atom.Hr)
	case *document.Centered:
		div := el(atom.Div, attr("class", "centered"))
		appendNode(div, r.line(v.Line))
		return div
	case *document.RefLink:
		a := el(atom.A, attr("href", "#"+v.Reference))
		appendNode(a, r.line(v.Description))
		return a
	case *document.AnchorLine:
		a := el(atom.A, attr("id", v.Key))
		appendNode(a, r.line(v.Inner))
		return a
	case *document.BibEntryLine:
		// definitions have no visible output
		return nil
	default:
		return nil
	}
}

func (r *Renderer) spans(spans []document.Inline) *xhtml.Node {
	span := el(atom.Span)
	for _, s := range spans {
		appendNode(span, r.inline(s))
	}
	return span
}

func (r *Renderer) inline(s document.Inline) *xhtml.Node {
	switch v := s.(type) {
	case *document.Plain:
		return text(v.Text)
	case *document.Bold:
		return wrap(atom.B, r.spans(v.Spans))
	case *document.Italic:
		return wrap(atom.I, r.spans(v.Spans))
	case *document.Underline:
		return wrap(atom.U, r.spans(v.Spans))
	case *document.Strike:
		return wrap(atom.Del, r.spans(v.Spans))
	case *document.Superscript:
		return wrap(atom.Sup, r.spans(v.Spans))
	case *document.Monospace:
		code := el(atom.Code)
		code.AppendChild(text(v.Text))
		return code
	case *document.URL:
		a := el(atom.A, attr("href", v.Target))
		if len(v.Description) > 0 {
			appendNode(a, r.spans(v.Description))
		} else {
			a.AppendChild(text(v.Target))
		}
		return a
	case *document.Image:
		return r.image(v)
	case *document.Checkbox:
		box := el(atom.Input, attr("type", "checkbox"), attr("disabled", ""))
		if v.Checked {
			box.Attr = append(box.Attr, attr("checked", ""))
		}
		return box
	case *document.Emoji:
		return text(string(v.Value))
	case *document.Colored:
		span := el(atom.Span, attr("style", "color:"+v.Color))
		appendNode(span, r.spans(v.Spans))
		return span
	case *document.Math:
		code := el(atom.Code, attr("class", "math"))
		code.AppendChild(text(v.Expression))
		return code
	case *document.CharacterCode:
		return text(xhtml.UnescapeString("&" + v.Code + ";"))
	case *document.Arrow:
		return text(arrowGlyphs[v.Kind])
	case *document.BibReference:
		sup := el(atom.Sup)
		a := el(atom.A)
		if entry := v.Ref.Entry(); entry != nil {
			a.Attr = append(a.Attr, attr("href", "#bib-"+entry.Key))
		}
		a.AppendChild(text(v.Ref.Formatted()))
		sup.AppendChild(a)
		return sup
	case *document.GlossaryReference:
		if entry := v.Ref.Entry(); entry != nil {
			a := el(atom.A, attr("href", "#gloss-"+entry.Short))
			a.AppendChild(text(v.Ref.Formatted()))
			return a
		}
		return text(v.Ref.Formatted())
	case *document.Placeholder:
		if v.HasValue() {
			return r.element(v.Value())
		}
		return text("[[" + v.Name + "]]")
	case *document.TemplateVariable:
		if v.HasValue() {
			span := el(atom.Span)
			if v.Prefix != "" {
				span.AppendChild(text(v.Prefix))
			}
			appendNode(span, r.element(v.Value()))
			if v.Suffix != "" {
				span.AppendChild(text(v.Suffix))
			}
			return span
		}
		return nil
	default:
		return nil
	}
}

func (r *Renderer) image(img *document.Image) *xhtml.Node {
	src := img.URL.Target
	if r.EmbedSources && img.Download != nil && img.Download.HasData() {
		mime := imageMime(img.URL.Target)
		src = fmt.Sprintf("data:%s;base64,%s", mime,
			base64.StdEncoding.EncodeToString(img.Download.Data()))
	}
	node := el(atom.Img, attr("src", src))
	if alt := document.PlainText(&img.URL); alt != "" {
		node.Attr = append(node.Attr, attr("alt", alt))
	}
	if img.Metadata != nil {
		if width := img.Metadata.GetString("width"); width != "" {
			node.Attr = append(node.Attr, attr("width", width))
		}
		if height := img.Metadata.GetString("height"); height != "" {
			node.Attr = append(node.Attr, attr("height", height))
		}
	}
	return node
}

// element renders a resolved placeholder value, which may be a block,
// a line or an inline.
func (r *Renderer) element(e document.Element) *xhtml.Node {
	switch v := e.(type) {
	case document.Block:
		return r.block(v)
	case document.Line:
		return r.line(v)
	case document.Inline:
		return r.inline(v)
	default:
		return nil
	}
}

var arrowGlyphs = map[string]string{
	"-->":  "→",
	"<--":  "←",
	"<-->": "↔",
	"==>":  "⇒",
	"<==":  "⇐",
	"<==>": "⇔",
}

func imageMime(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func el(a atom.Atom, attrs ...xhtml.Attribute) *xhtml.Node {
	return &xhtml.Node{Type: xhtml.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *xhtml.Node {
	return &xhtml.Node{Type: xhtml.TextNode, Data: s}
}

func attr(key, val string) xhtml.Attribute {
	return xhtml.Attribute{Key: key, Val: val}
}

func wrap(a atom.Atom, child *xhtml.Node) *xhtml.Node {
	node := el(a)
	appendNode(node, child)
	return node
}

func appendNode(parent, child *xhtml.Node) {
	if child != nil {
		parent.AppendChild(child)
	}
}
