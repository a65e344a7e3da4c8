package html

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragodev/mdpapers/internal/ast"
)

// line wraps inline children in an ast.Line node, the way the parser does
// for a Paragraph's content.
func line(children ...*ast.Node) *ast.Node {
	n := ast.NewNode(ast.Line)
	for _, c := range children {
		n.Append(c)
	}
	return n
}

func text(s string) *ast.Node {
	n := ast.NewNode(ast.Text)
	n.Value = s
	return n
}

func doc(children ...*ast.Node) *ast.Node {
	d := ast.NewNode(ast.Document)
	d.References = ast.ReferenceTable{}
	for _, c := range children {
		d.Append(c)
	}
	return d
}

func TestRenderHeader(t *testing.T) {
	h := ast.NewNode(ast.Header)
	h.Level = 2
	h.Append(line(text("Title")))
	assert.Equal(t, "<h2>Title</h2>\n", Render(doc(h)))
}

func TestRenderHeaderLevelClampedToRange(t *testing.T) {
	h0 := ast.NewNode(ast.Header)
	h0.Level = 0
	h0.Append(line(text("a")))
	assert.Equal(t, "<h1>a</h1>\n", Render(doc(h0)))

	h9 := ast.NewNode(ast.Header)
	h9.Level = 9
	h9.Append(line(text("b")))
	assert.Equal(t, "<h6>b</h6>\n", Render(doc(h9)))
}

func TestRenderParagraphMultipleLines(t *testing.T) {
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(text("first")))
	p.Append(line(text("second")))
	assert.Equal(t, "<p>first\nsecond</p>\n", Render(doc(p)))
}

func TestRenderParagraphContainingOnlyHRIsUnwrapped(t *testing.T) {
	hr := ast.NewNode(ast.Tag)
	hr.TagName = "hr"
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(hr))
	assert.Equal(t, "<hr/>\n", Render(doc(p)))
}

func TestRenderParagraphContainingOnlyHREmptyTagIsUnwrapped(t *testing.T) {
	hr := ast.NewNode(ast.EmptyTag)
	hr.TagName = "HR"
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(hr))
	assert.Equal(t, "<hr/>\n", Render(doc(p)))
}

func TestRenderParagraphOnlyChecksFirstGrandchildForHR(t *testing.T) {
	// hr is not the first grandchild, so the paragraph renders normally.
	hr := ast.NewNode(ast.Tag)
	hr.TagName = "hr"
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(text("not a rule: "), hr))
	got := Render(doc(p))
	assert.Equal(t, "<p>not a rule: <hr/></p>\n", got)
}

func TestRenderParagraphStartingWithOpeningTagIsUnwrapped(t *testing.T) {
	div := ast.NewNode(ast.OpeningTag)
	div.TagName = "div"
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(div))
	assert.Equal(t, "<div>", Render(doc(p)))
}

func TestRenderParagraphInTightItemIsUnwrapped(t *testing.T) {
	item := ast.NewNode(ast.Item)
	item.Loose = false
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(text("content")))
	item.Append(p)

	got := Render(doc(item))
	assert.Equal(t, "<li>content</li>\n", got)
}

func TestRenderParagraphInLooseItemKeepsPTag(t *testing.T) {
	item := ast.NewNode(ast.Item)
	item.Loose = true
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(text("content")))
	item.Append(p)

	got := Render(doc(item))
	assert.Equal(t, "<li><p>content</p>\n</li>\n", got)
}

func TestRenderQuote(t *testing.T) {
	p := ast.NewNode(ast.Paragraph)
	p.Append(line(text("quoted")))
	q := ast.NewNode(ast.Quote)
	q.Append(p)
	assert.Equal(t, "<blockquote>\n<p>quoted</p>\n</blockquote>\n", Render(doc(q)))
}

func TestRenderUnorderedList(t *testing.T) {
	item := ast.NewNode(ast.Item)
	item.Loose = false
	para := ast.NewNode(ast.Paragraph)
	para.Append(line(text("one")))
	item.Append(para)

	l := ast.NewNode(ast.List)
	l.Ordered = false
	l.Append(item)

	assert.Equal(t, "<ul>\n<li>one</li>\n</ul>\n", Render(doc(l)))
}

func TestRenderOrderedList(t *testing.T) {
	l := ast.NewNode(ast.List)
	l.Ordered = true
	assert.Equal(t, "<ol>\n</ol>\n", Render(doc(l)))
}

func TestRenderCodeBlockJoinsLinesAndEscapes(t *testing.T) {
	c := ast.NewNode(ast.Code)
	l1 := ast.NewNode(ast.CodeText)
	l1.Value = "<html>"
	l2 := ast.NewNode(ast.CodeText)
	l2.Value = "done"
	c.Append(l1)
	c.Append(l2)
	assert.Equal(t, "<pre><code>&lt;html&gt;\ndone</code></pre>\n", Render(doc(c)))
}

func TestRenderRuler(t *testing.T) {
	assert.Equal(t, "<hr/>\n", Render(doc(ast.NewNode(ast.Ruler))))
}

func TestRenderResourceDefinitionProducesNoOutput(t *testing.T) {
	rd := ast.NewNode(ast.ResourceDefinition)
	rd.ID = "1"
	rd.Resource = &ast.Resource{Location: "http://example.com"}
	assert.Equal(t, "", Render(doc(rd)))
}

func TestRenderComment(t *testing.T) {
	c := ast.NewNode(ast.Comment)
	c.Value = " note "
	assert.Equal(t, "<!-- note -->", Render(doc(c)))
}

func TestRenderCharRefIsNotEscaped(t *testing.T) {
	n := ast.NewNode(ast.CharRef)
	n.Value = "&amp;"
	assert.Equal(t, "&amp;", Render(doc(line(n))))
}

func TestRenderCodeSpanEscapesContent(t *testing.T) {
	n := ast.NewNode(ast.CodeSpan)
	n.Value = "a < b"
	assert.Equal(t, "<code>a &lt; b</code>", Render(doc(line(n))))
}

func TestRenderEmphasisVariants(t *testing.T) {
	italic := ast.NewNode(ast.Emphasis)
	italic.EmphasisType = ast.Italic
	italic.Value = "i"
	assert.Equal(t, "<em>i</em>", Render(doc(line(italic))))

	bold := ast.NewNode(ast.Emphasis)
	bold.EmphasisType = ast.Bold
	bold.Value = "b"
	assert.Equal(t, "<strong>b</strong>", Render(doc(line(bold))))

	both := ast.NewNode(ast.Emphasis)
	both.EmphasisType = ast.ItalicAndBold
	both.Value = "ib"
	assert.Equal(t, "<strong><em>ib</em></strong>", Render(doc(line(both))))
}

func TestRenderInlineURL(t *testing.T) {
	n := ast.NewNode(ast.InlineURL)
	n.Value = "http://example.com/a&b"
	got := Render(doc(line(n)))
	assert.Equal(t, `<a href="http://example.com/a&amp;b">http://example.com/a&amp;b</a>`, got)
}

func TestRenderLineBreak(t *testing.T) {
	assert.Equal(t, "<br/>", Render(doc(line(ast.NewNode(ast.LineBreak)))))
}

func TestRenderLinkInlineResource(t *testing.T) {
	n := ast.NewNode(ast.Link)
	n.Value = "text"
	n.InlineResource = &ast.Resource{Location: "http://x", Title: "t", HasTitle: true}
	got := Render(doc(line(n)))
	assert.Equal(t, `<a href="http://x" title="t">text</a>`, got)
}

func TestRenderLinkInlineResourceNoTitle(t *testing.T) {
	n := ast.NewNode(ast.Link)
	n.Value = "text"
	n.InlineResource = &ast.Resource{Location: "http://x"}
	got := Render(doc(line(n)))
	assert.Equal(t, `<a href="http://x">text</a>`, got)
}

func TestRenderLinkReferencedResolvesByName(t *testing.T) {
	n := ast.NewNode(ast.Link)
	n.Value = "click here"
	n.Referenced = true
	n.ReferenceName = "1"
	n.HasReferenceName = true

	d := doc(line(n))
	d.References["1"] = &ast.Resource{Location: "http://y"}

	got := Render(d)
	assert.Equal(t, `<a href="http://y">click here</a>`, got)
}

func TestRenderLinkReferencedFallsBackToOwnTextAsName(t *testing.T) {
	n := ast.NewNode(ast.Link)
	n.Value = "foo"
	n.Referenced = true

	d := doc(line(n))
	d.References["foo"] = &ast.Resource{Location: "http://z"}

	got := Render(d)
	assert.Equal(t, `<a href="http://z">foo</a>`, got)
}

func TestRenderLinkReferencedMissFallsBackToBracketSyntax(t *testing.T) {
	n := ast.NewNode(ast.Link)
	n.Value = "foo"
	n.Referenced = true
	n.ReferenceName = "missing"
	n.HasReferenceName = true

	got := Render(doc(line(n)))
	assert.Equal(t, "[foo][missing]", got)
}

func TestRenderImageInlineResource(t *testing.T) {
	n := ast.NewNode(ast.Image)
	n.Value = "alt text"
	n.InlineResource = &ast.Resource{Location: "http://img"}
	got := Render(doc(line(n)))
	assert.Equal(t, `<img src="http://img" alt="alt text"/>`, got)
}

func TestRenderImageReferencedByRefID(t *testing.T) {
	n := ast.NewNode(ast.Image)
	n.Value = "alt"
	n.RefID = "logo"
	n.HasRefID = true

	d := doc(line(n))
	d.References["logo"] = &ast.Resource{Location: "http://logo.png"}

	got := Render(d)
	assert.Equal(t, `<img src="http://logo.png" alt="alt"/>`, got)
}

func TestRenderImageReferencedMissEmitsEmptySrc(t *testing.T) {
	n := ast.NewNode(ast.Image)
	n.Value = "alt"
	n.RefID = "nope"
	n.HasRefID = true

	got := Render(doc(line(n)))
	assert.Equal(t, `<img src="" alt="alt"/>`, got)
}

func TestRenderTagWithAttributes(t *testing.T) {
	n := ast.NewNode(ast.Tag)
	n.TagName = "span"
	attr := ast.NewNode(ast.TagAttribute)
	attr.AttrName = "class"
	attr.AttrValue = "a&b"
	n.Attributes = []*ast.Node{attr}
	n.Append(text("hi"))

	got := Render(doc(line(n)))
	assert.Equal(t, `<span class="a&amp;b">hi</span>`, got)
}

func TestRenderVoidTagSelfClosesEvenAsTag(t *testing.T) {
	n := ast.NewNode(ast.Tag)
	n.TagName = "br"
	got := Render(doc(line(n)))
	assert.Equal(t, "<br/>", got)
}

func TestRenderEmptyTagIsSelfClosing(t *testing.T) {
	n := ast.NewNode(ast.EmptyTag)
	n.TagName = "img"
	attr := ast.NewNode(ast.TagAttribute)
	attr.AttrName = "src"
	attr.AttrValue = "x.png"
	n.Attributes = []*ast.Node{attr}

	got := Render(doc(line(n)))
	assert.Equal(t, `<img src="x.png"/>`, got)
}

func TestRenderClosingTag(t *testing.T) {
	n := ast.NewNode(ast.ClosingTag)
	n.TagName = "div"
	assert.Equal(t, "</div>", Render(doc(line(n))))
}

func TestRenderTagFallsBackToRawSource(t *testing.T) {
	n := ast.NewNode(ast.Tag)
	n.TagName = "div"
	n.FellBackToRaw = true
	n.RawSource = "<div oops"
	assert.Equal(t, "<div oops", Render(doc(line(n))))
}

func TestEscapeCoversFourCharacters(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;", escape(`&<>"`))
}

func TestEscapeLeavesOtherRunesUntouched(t *testing.T) {
	assert.Equal(t, "héllo", escape("héllo"))
}

func TestIsVoidElementCaseInsensitive(t *testing.T) {
	assert.True(t, isVoidElement("BR"))
	assert.True(t, isVoidElement("img"))
	assert.False(t, isVoidElement("span"))
}
