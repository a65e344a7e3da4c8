// Package ast defines the fixed taxonomy of Markdown document nodes
// produced by internal/parser and walked by internal/html.
//
// Nodes are created during parsing, mutated only by the parser (attribute
// assignment, child append, loose/level promotion), and are read-only once
// the document is handed to the visitor. Nodes are plain heap-allocated
// *Node values; the parser's open-block stacks and the tree share them
// directly.
package ast

// Kind is the closed set of AST node variants.
type Kind int

const (
	Document Kind = iota
	Paragraph
	Header
	Quote
	List
	Item
	Code
	Ruler
	ResourceDefinition
	Comment
	Line

	Text
	CodeText
	CharRef
	CodeSpan
	Emphasis
	Link
	Image
	InlineURL
	LineBreak

	Tag
	OpeningTag
	ClosingTag
	EmptyTag
	TagAttribute
)

var kindNames = [...]string{
	Document: "Document", Paragraph: "Paragraph", Header: "Header",
	Quote: "Quote", List: "List", Item: "Item", Code: "Code", Ruler: "Ruler",
	ResourceDefinition: "ResourceDefinition", Comment: "Comment", Line: "Line",
	Text: "Text", CodeText: "CodeText", CharRef: "CharRef", CodeSpan: "CodeSpan",
	Emphasis: "Emphasis", Link: "Link", Image: "Image", InlineURL: "InlineURL",
	LineBreak: "LineBreak", Tag: "Tag", OpeningTag: "OpeningTag",
	ClosingTag: "ClosingTag", EmptyTag: "EmptyTag", TagAttribute: "TagAttribute",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// EmphasisType distinguishes the three emphasis strengths the grammar
// recognizes.
type EmphasisType int

const (
	Italic EmphasisType = iota
	Bold
	ItalicAndBold
)

// Resource is a link/image target: a URL plus an optional title.
type Resource struct {
	Location string
	Title    string
	HasTitle bool
}

// ReferenceTable maps a reference id, matched exactly as it appears in the
// source (no case folding - see DESIGN.md), to the Resource registered for
// it by a ResourceDefinition.
type ReferenceTable map[string]*Resource

// Node is a single AST node. Every node knows its Kind, its Parent (nil for
// the root Document) and its Children in document order. The remaining
// fields are kind-specific; see the comment on each field for which Kind(s)
// populate it.
type Node struct {
	Kind     Kind
	Parent   *Node
	Children []*Node

	// Header
	Level int

	// List, Item
	Ordered     bool
	Indentation int
	Loose       bool // Item only

	// Text, CodeText, CharRef, CodeSpan, InlineURL, Comment: literal content.
	// Emphasis, Link, Image: the enclosed text (for Image, the alt text).
	Value string

	// Emphasis
	EmphasisType EmphasisType

	// Link
	Referenced            bool
	ReferenceName         string
	HasReferenceName      bool
	HasWhitespaceAtMiddle bool

	// Link, Image: an inline resource (nil when Referenced or when the
	// reference lookup has to happen at render time).
	InlineResource *Resource

	// Image
	RefID    string
	HasRefID bool

	// ResourceDefinition
	ID       string
	Resource *Resource

	// Tag, OpeningTag, ClosingTag, EmptyTag
	TagName       string
	Attributes    []*Node // TagAttribute children, in source order
	RawSource     string  // failsafe: raw substring when the tag body couldn't be fully parsed
	FellBackToRaw bool

	// TagAttribute
	AttrName  string
	AttrValue string

	// Document only
	References ReferenceTable
}

// NewNode allocates a node of the given kind with no parent or children.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind}
}

// Append adds child to n's children and sets child's parent to n.
func (n *Node) Append(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Root walks up the parent chain and returns the Document node at the top.
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// IsBlock reports whether the node is one of the block-level variants.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case Document, Paragraph, Header, Quote, List, Item, Code, Ruler,
		ResourceDefinition, Comment, Line:
		return true
	default:
		return false
	}
}
