package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendSetsParent(t *testing.T) {
	doc := NewNode(Document)
	para := NewNode(Paragraph)
	doc.Append(para)

	assert.Same(t, doc, para.Parent)
	assert.Equal(t, []*Node{para}, doc.Children)
}

func TestRootWalksToDocument(t *testing.T) {
	doc := NewNode(Document)
	quote := NewNode(Quote)
	text := NewNode(Text)
	doc.Append(quote)
	quote.Append(text)

	assert.Same(t, doc, text.Root())
	assert.Same(t, doc, doc.Root())
}

func TestIsBlock(t *testing.T) {
	blocks := []Kind{Document, Paragraph, Header, Quote, List, Item, Code, Ruler, ResourceDefinition, Comment, Line}
	for _, k := range blocks {
		assert.True(t, NewNode(k).IsBlock(), "%s should be a block", k)
	}

	inline := []Kind{Text, CodeText, CharRef, CodeSpan, Emphasis, Link, Image, InlineURL, LineBreak}
	for _, k := range inline {
		assert.False(t, NewNode(k).IsBlock(), "%s should not be a block", k)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Header", Header.String())
	assert.Equal(t, "Unknown", Kind(9999).String())
}

func TestReferenceTableLookup(t *testing.T) {
	refs := ReferenceTable{
		"foo": {Location: "http://example.com", Title: "t", HasTitle: true},
	}
	res, ok := refs["foo"]
	assert.True(t, ok)
	assert.Equal(t, "http://example.com", res.Location)

	_, ok = refs["Foo"]
	assert.False(t, ok, "lookup must be exact-case, not folded")
}
