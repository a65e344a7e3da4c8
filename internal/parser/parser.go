// Package parser implements the context-sensitive recursive-descent parser
// that turns a token stream into a Markdown AST (internal/ast), plus the
// lookahead predicates (predicates.go) that disambiguate Markdown's block
// and inline grammar.
package parser

import (
	"github.com/ragodev/mdpapers/internal/ast"
	"github.com/ragodev/mdpapers/internal/lookahead"
	"github.com/ragodev/mdpapers/internal/token"
)

// Parser drives the grammar productions over a buffered token stream,
// consulting and updating State as it goes.
type Parser struct {
	state *State
}

// New creates a Parser over the given Markdown source bytes.
func New(source []byte) *Parser {
	return &Parser{state: NewState(source)}
}

func (p *Parser) buf() *lookahead.Buffer { return p.state.Buf }

// Parse runs the Document production to completion and returns the root
// node together with the document's populated reference table.
func (p *Parser) Parse() (*ast.Node, ast.ReferenceTable, error) {
	doc := ast.NewNode(ast.Document)
	doc.References = p.state.Refs
	if err := p.document(doc); err != nil {
		return nil, nil, err
	}
	return doc, p.state.Refs, nil
}

// peek is shorthand for the buffer's Peek.
func (p *Parser) peek(n int) token.Token { return p.buf().Peek(n) }

// next consumes and returns the next token.
func (p *Parser) next() token.Token { return p.buf().Next() }

// skipEOLs consumes any run of EOL tokens (the separator between
// Document-level Elements) and reports how many it consumed.
func (p *Parser) skipEOLs() int {
	n := 0
	for p.peek(0).Kind == token.EOL {
		p.next()
		n++
	}
	return n
}

// currentError builds a ParseError positioned at the next unconsumed
// token.
func (p *Parser) currentError(format string, args ...interface{}) *ParseError {
	tok := p.peek(0)
	return newParseError(tok.Line, tok.BeginColumn, format, args...)
}

// document implements the Document production: a sequence of Elements
// separated by one or more EOL, terminating at EOF.
func (p *Parser) document(doc *ast.Node) error {
	p.skipEOLs()
	for p.peek(0).Kind != token.EOF {
		p.state.linePrefixCols = 0
		if err := p.element(doc); err != nil {
			return err
		}
		if p.skipEOLs() == 0 && p.peek(0).Kind != token.EOF {
			return p.currentError("expected blank line or EOF between elements")
		}
	}
	return nil
}

// element implements the Element production: a ResourceDefinition when the
// line-start lookahead matches "[id]:" (with up to 3 leading spaces), else
// a BlockElement.
func (p *Parser) element(parent *ast.Node) error {
	if p.looksLikeResourceDefinition() {
		return p.resourceDefinition(parent)
	}
	return p.blockElement(parent)
}

// looksLikeResourceDefinition implements the LOOKAHEAD for ResourceDefinition:
// up to 3 leading spaces, then "[id]:" at the start of a line.
func (p *Parser) looksLikeResourceDefinition() bool {
	buf := p.buf()
	i := 0
	spaces := 0
	for buf.Peek(i).Kind == token.Space && spaces < 3 {
		i++
		spaces++
	}
	if buf.Peek(i).Kind != token.LBracket {
		return false
	}
	i++
	if buf.Peek(i).Kind == token.RBracket {
		return false // "[]:" is not a valid reference id
	}
	for buf.Peek(i).Kind != token.RBracket {
		switch buf.Peek(i).Kind {
		case token.EOL, token.EOF:
			return false
		}
		i++
	}
	i++ // consume ']'
	if buf.Peek(i).Kind != token.Colon {
		return false
	}
	return true
}
