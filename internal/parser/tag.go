package parser

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/ragodev/mdpapers/internal/ast"
	"github.com/ragodev/mdpapers/internal/token"
)

// atOpeningOrClosingTagStart reports whether '<' at the buffer's current
// position opens an HTML tag: '<' optionally followed by '/', then a name
// starting with a letter-led CHAR_SEQUENCE.
func (p *Parser) atOpeningOrClosingTagStart() bool {
	buf := p.buf()
	if buf.Peek(0).Kind != token.Lt {
		return false
	}
	i := 1
	if buf.Peek(i).Kind == token.Slash {
		i++
	}
	name := buf.Peek(i)
	if name.Kind != token.CharSequence || name.Literal == "" {
		return false
	}
	c := name.Literal[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// tag implements the Tag production: a balanced "<name attrs>...</name>"
// or self-closing "<name attrs/>". If parsing the closing half fails -
// attributes malformed, names mismatched, input exhausted - the raw source
// substring from '<' to wherever the scan gave up is kept and re-emitted
// verbatim instead of the partial subtree; the surrounding content parses
// on.
func (p *Parser) tag() (*ast.Node, error) {
	startOffset := p.peek(0).Span.Start

	if p.peek(1).Kind == token.Slash {
		return p.closingTag()
	}

	p.next() // '<'
	name := p.scanTagName()
	attrs, selfClosing, ok := p.scanAttributes()
	if !ok {
		return p.rawFallback(startOffset), nil
	}
	if selfClosing || isVoidTag(name) {
		n := ast.NewNode(ast.EmptyTag)
		n.TagName = name
		n.Attributes = attrs
		return n, nil
	}

	tagNode := ast.NewNode(ast.Tag)
	tagNode.TagName = name
	tagNode.Attributes = attrs

	children, err := p.inlineRun(func() bool {
		return p.peek(0).Kind == token.EOF || p.atClosingTag(name)
	}, false)
	if err != nil {
		return p.rawFallback(startOffset), nil
	}
	for _, c := range children {
		tagNode.Append(c)
	}
	if !p.consumeClosingTag(name) {
		return p.rawFallback(startOffset), nil
	}
	return tagNode, nil
}

// closingTag handles a '</name>' encountered where an Inline or
// BlockElement production expected a fresh construct (i.e. with no
// matching open tag already being tracked by an enclosing tag() call).
func (p *Parser) closingTag() (*ast.Node, error) {
	startOffset := p.peek(0).Span.Start
	p.next() // '<'
	p.next() // '/'
	name := p.scanTagName()
	p.skipInlineSpaces()
	if p.peek(0).Kind != token.Gt {
		return p.rawFallback(startOffset), nil
	}
	p.next()
	n := ast.NewNode(ast.ClosingTag)
	n.TagName = name
	return n, nil
}

func (p *Parser) rawFallback(startOffset int) *ast.Node {
	src := p.buf().Source()
	endOffset := p.peek(0).Span.Start
	if endOffset < startOffset || endOffset > len(src) {
		endOffset = len(src)
	}
	n := ast.NewNode(ast.Tag)
	n.FellBackToRaw = true
	n.RawSource = string(src[startOffset:endOffset])
	return n
}

// scanTagName consumes a run of CHAR_SEQUENCE/DIGITS/MINUS tokens forming
// a tag name ("h1", "my-tag") and returns the concatenated literal.
func (p *Parser) scanTagName() string {
	src := p.buf().Source()
	var buf []byte
	for {
		tok := p.peek(0)
		switch tok.Kind {
		case token.CharSequence, token.Digits, token.Minus:
			buf = append(buf, p.next().Value(src)...)
		default:
			return string(buf)
		}
	}
}

// scanAttributes consumes "name" and "name=value" pairs up to the tag's
// closing '>' or self-closing '/>'. ok is false when the tag body could
// not be parsed to a close.
func (p *Parser) scanAttributes() (attrs []*ast.Node, selfClosing bool, ok bool) {
	for {
		p.skipInlineSpaces()
		switch p.peek(0).Kind {
		case token.Slash:
			p.next()
			if p.peek(0).Kind != token.Gt {
				return nil, false, false
			}
			p.next()
			return attrs, true, true
		case token.Gt:
			p.next()
			return attrs, false, true
		case token.EOL, token.EOF:
			return nil, false, false
		case token.CharSequence, token.Digits, token.Minus:
			name := p.scanTagName()
			attr := ast.NewNode(ast.TagAttribute)
			attr.AttrName = name
			if p.peek(0).Kind == token.Eq {
				p.next()
				val, valOk := p.scanAttrValue()
				if !valOk {
					return nil, false, false
				}
				attr.AttrValue = val
			}
			attrs = append(attrs, attr)
		default:
			return nil, false, false
		}
	}
}

func (p *Parser) scanAttrValue() (string, bool) {
	src := p.buf().Source()
	tok := p.peek(0)
	if tok.Kind == token.DoubleQuote || tok.Kind == token.SingleQuote {
		quote := tok.Kind
		p.next()
		var buf []byte
		for {
			t := p.peek(0)
			switch t.Kind {
			case quote:
				p.next()
				return string(buf), true
			case token.EOL, token.EOF:
				return "", false
			default:
				buf = append(buf, p.next().Value(src)...)
			}
		}
	}
	var buf []byte
	for {
		t := p.peek(0)
		switch t.Kind {
		case token.Space, token.Tab, token.EOL, token.EOF, token.Gt, token.Slash:
			return string(buf), len(buf) > 0
		default:
			buf = append(buf, p.next().Value(src)...)
		}
	}
}

func (p *Parser) atClosingTag(name string) bool {
	buf := p.buf()
	if buf.Peek(0).Kind != token.Lt || buf.Peek(1).Kind != token.Slash {
		return false
	}
	return strings.EqualFold(p.peekTagName(2), name)
}

func (p *Parser) peekTagName(offset int) string {
	buf := p.buf()
	src := buf.Source()
	var b []byte
	i := offset
	for {
		tok := buf.Peek(i)
		switch tok.Kind {
		case token.CharSequence, token.Digits, token.Minus:
			b = append(b, tok.Value(src)...)
			i++
		default:
			return string(b)
		}
	}
}

// isVoidTag reports whether name is an HTML5 void element, which never
// carries a closing half even when written without the XHTML slash.
func isVoidTag(name string) bool {
	switch atom.Lookup([]byte(strings.ToLower(name))) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Param,
		atom.Source, atom.Track, atom.Wbr:
		return true
	default:
		return false
	}
}

func (p *Parser) consumeClosingTag(name string) bool {
	if !p.atClosingTag(name) {
		return false
	}
	p.next() // '<'
	p.next() // '/'
	p.scanTagName()
	p.skipInlineSpaces()
	if p.peek(0).Kind != token.Gt {
		return false
	}
	p.next()
	return true
}
