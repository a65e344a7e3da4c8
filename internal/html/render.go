// Package html implements the tree-walking visitor that renders a parsed
// Markdown AST (internal/ast) to HTML: reference resolution, HTML-special
// escaping, and the context-sensitive rendering decisions (tight vs. loose
// list items, a paragraph that is only a horizontal rule, HTML
// passthrough).
package html

import (
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/ragodev/mdpapers/internal/ast"
)

// renderState accumulates output into a growable byte buffer and carries
// the document's reference table for link/image resolution.
type renderState struct {
	buf  []byte
	refs ast.ReferenceTable
}

// Render walks doc in document order and returns the HTML it produces.
func Render(doc *ast.Node) string {
	rs := &renderState{refs: doc.References}
	rs.renderChildren(doc)
	return string(rs.buf)
}

func (rs *renderState) writeString(s string) { rs.buf = append(rs.buf, s...) }

func (rs *renderState) renderChildren(n *ast.Node) {
	for _, c := range n.Children {
		rs.render(c)
	}
}

func (rs *renderState) render(n *ast.Node) {
	switch n.Kind {
	case ast.Document:
		rs.renderChildren(n)
	case ast.Paragraph:
		rs.renderParagraph(n)
	case ast.Header:
		rs.renderHeader(n)
	case ast.Quote:
		rs.writeString("<blockquote>\n")
		rs.renderChildren(n)
		rs.writeString("</blockquote>\n")
	case ast.List:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		rs.writeString("<" + tag + ">\n")
		rs.renderChildren(n)
		rs.writeString("</" + tag + ">\n")
	case ast.Item:
		rs.writeString("<li>")
		rs.renderChildren(n)
		rs.writeString("</li>\n")
	case ast.Code:
		rs.renderCode(n)
	case ast.Ruler:
		rs.writeString("<hr/>\n")
	case ast.ResourceDefinition:
		// Registered into the reference table during parse; never rendered.
	case ast.Comment:
		rs.writeString("<!--")
		rs.writeString(n.Value)
		rs.writeString("-->")
	case ast.Line:
		rs.renderChildren(n)
	case ast.Text:
		rs.writeString(escape(n.Value))
	case ast.CodeText:
		rs.writeString(escape(n.Value))
	case ast.CharRef:
		rs.writeString(n.Value)
	case ast.CodeSpan:
		rs.writeString("<code>")
		rs.writeString(escape(n.Value))
		rs.writeString("</code>")
	case ast.Emphasis:
		rs.renderEmphasis(n)
	case ast.Link:
		rs.renderLink(n)
	case ast.Image:
		rs.renderImage(n)
	case ast.InlineURL:
		rs.writeString(`<a href="`)
		rs.writeString(escape(n.Value))
		rs.writeString(`">`)
		rs.writeString(escape(n.Value))
		rs.writeString("</a>")
	case ast.LineBreak:
		rs.writeString("<br/>")
	case ast.Tag, ast.OpeningTag, ast.ClosingTag, ast.EmptyTag:
		rs.renderTag(n)
	case ast.TagAttribute:
		// Consumed directly by renderTag's attribute loop, never visited
		// on its own.
	}
}

// renderParagraph applies the paragraph special cases in priority order -
// a paragraph that is really a horizontal rule (an hr tag first, followed
// by nothing but whitespace text), a paragraph led by HTML
// passthrough, a paragraph inside a tight list item - before falling back
// to a normal <p>-wrapped render.
func (rs *renderState) renderParagraph(n *ast.Node) {
	if _, ok := containsHR(n); ok {
		alone := len(n.Children) == 1
		for _, c := range n.Children[0].Children[1:] {
			if c.Kind != ast.Text || strings.TrimSpace(c.Value) != "" {
				alone = false
			}
		}
		if alone {
			rs.writeString("<hr/>\n")
			return
		}
	}
	if _, ok := leadingTagGrandchild(n); ok {
		rs.renderLines(n)
		return
	}
	if isTightItemChild(n) {
		rs.renderLines(n)
		return
	}
	rs.writeString("<p>")
	rs.renderLines(n)
	rs.writeString("</p>\n")
}

// renderLines renders a paragraph's Line children joined by newlines.
func (rs *renderState) renderLines(n *ast.Node) {
	for i, line := range n.Children {
		if i > 0 {
			rs.writeString("\n")
		}
		rs.render(line)
	}
}

// containsHR inspects only the paragraph's first grandchild - not every
// line, just the very first inline node of the first line. A rule tag
// buried deeper in the paragraph renders inline.
func containsHR(para *ast.Node) (*ast.Node, bool) {
	if len(para.Children) == 0 {
		return nil, false
	}
	line := para.Children[0]
	if len(line.Children) == 0 {
		return nil, false
	}
	gc := line.Children[0]
	if (gc.Kind == ast.Tag || gc.Kind == ast.EmptyTag) && strings.EqualFold(gc.TagName, "hr") {
		return gc, true
	}
	return nil, false
}

// leadingTagGrandchild reports whether the paragraph's first inline node is
// an HTML tag (balanced or a stray opener), in which case the content is
// emitted raw with no <p> wrapper.
func leadingTagGrandchild(para *ast.Node) (*ast.Node, bool) {
	if len(para.Children) == 0 {
		return nil, false
	}
	line := para.Children[0]
	if len(line.Children) == 0 {
		return nil, false
	}
	if gc := line.Children[0]; gc.Kind == ast.OpeningTag || gc.Kind == ast.Tag {
		return gc, true
	}
	return nil, false
}

func isTightItemChild(n *ast.Node) bool {
	return n.Parent != nil && n.Parent.Kind == ast.Item && !n.Parent.Loose
}

func (rs *renderState) renderHeader(n *ast.Node) {
	tag := headerTag(n.Level)
	rs.writeString("<" + tag + ">")
	rs.renderChildren(n)
	rs.writeString("</" + tag + ">\n")
}

func headerTag(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return "h" + strconv.Itoa(level)
}

func (rs *renderState) renderCode(n *ast.Node) {
	rs.writeString("<pre><code>")
	for i, c := range n.Children {
		if i > 0 {
			rs.writeString("\n")
		}
		rs.writeString(escape(c.Value))
	}
	rs.writeString("</code></pre>\n")
}

func (rs *renderState) renderEmphasis(n *ast.Node) {
	var open, close string
	switch n.EmphasisType {
	case ast.Italic:
		open, close = "<em>", "</em>"
	case ast.Bold:
		open, close = "<strong>", "</strong>"
	default:
		open, close = "<strong><em>", "</em></strong>"
	}
	rs.writeString(open)
	rs.writeString(escape(n.Value))
	rs.writeString(close)
}

// renderLink resolves a link for emission: an inline resource is used
// as-is; a referenced link looks its name (or, if empty, its own text) up
// in the reference table; a lookup miss re-emits the original bracket
// syntax verbatim rather than a broken anchor.
func (rs *renderState) renderLink(n *ast.Node) {
	if !n.Referenced {
		rs.writeAnchor(n.InlineResource, n.Value)
		return
	}
	name := n.ReferenceName
	if !n.HasReferenceName || name == "" {
		name = n.Value
	}
	res, ok := rs.refs[name]
	if !ok {
		id := ""
		if n.HasReferenceName {
			id = n.ReferenceName
		}
		rs.writeString("[" + n.Value + "][" + id + "]")
		return
	}
	rs.writeAnchor(res, n.Value)
}

func (rs *renderState) writeAnchor(res *ast.Resource, text string) {
	href, title, hasTitle := "", "", false
	if res != nil {
		href, title, hasTitle = res.Location, res.Title, res.HasTitle
	}
	rs.writeString(`<a href="` + escape(href) + `"`)
	if hasTitle {
		rs.writeString(` title="` + escape(title) + `"`)
	}
	rs.writeString(">")
	rs.writeString(escape(text))
	rs.writeString("</a>")
}

// renderImage implements the Image resolution rule: refId (or, if absent,
// the image's own text) is looked up in the reference table; a miss emits
// an empty src with the escaped alt text.
func (rs *renderState) renderImage(n *ast.Node) {
	res := n.InlineResource
	if res == nil {
		name := n.RefID
		if !n.HasRefID || name == "" {
			name = n.Value
		}
		res = rs.refs[name]
	}
	src := ""
	if res != nil {
		src = res.Location
	}
	rs.writeString(`<img src="` + escape(src) + `" alt="` + escape(n.Value) + `"`)
	if res != nil && res.HasTitle {
		rs.writeString(` title="` + escape(res.Title) + `"`)
	}
	rs.writeString("/>")
}

func (rs *renderState) renderTag(n *ast.Node) {
	if n.FellBackToRaw {
		rs.writeString(n.RawSource)
		return
	}
	switch n.Kind {
	case ast.ClosingTag:
		rs.writeString("</" + n.TagName + ">")
	case ast.EmptyTag:
		rs.writeString(tagOpenSource(n, true))
	case ast.OpeningTag:
		rs.writeString(tagOpenSource(n, false))
	case ast.Tag:
		void := isVoidElement(n.TagName)
		rs.writeString(tagOpenSource(n, void))
		if !void {
			rs.renderChildren(n)
			rs.writeString("</" + n.TagName + ">")
		}
	}
}

func tagOpenSource(n *ast.Node, selfClose bool) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.TagName)
	for _, a := range n.Attributes {
		b.WriteString(" ")
		b.WriteString(a.AttrName)
		b.WriteString(`="`)
		b.WriteString(escape(a.AttrValue))
		b.WriteString(`"`)
	}
	if selfClose {
		b.WriteString("/>")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

// isVoidElement reports whether name is an HTML5 void element (self-closed
// on output), resolved through golang.org/x/net/html/atom's tag identity
// table rather than a hand-maintained string set.
func isVoidElement(name string) bool {
	switch atom.Lookup([]byte(strings.ToLower(name))) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	default:
		return false
	}
}

// escape applies the four-character HTML escape table used for text
// content and URL/alt/title attributes. Never applied to CharRef values,
// which are already entities.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
