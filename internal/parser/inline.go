package parser

import (
	"github.com/ragodev/mdpapers/internal/ast"
	"github.com/ragodev/mdpapers/internal/token"
)

// line implements the Line production: a run of inline elements up to
// EOL/EOF, wrapped in a Line node. A hard break inside the run pulls the
// continuation line into this same Line node.
func (p *Parser) line() (*ast.Node, error) {
	ln := ast.NewNode(ast.Line)
	children, err := p.inlineRun(p.atLineEnd, true)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		ln.Append(c)
	}
	return ln, nil
}

func (p *Parser) atLineEnd() bool {
	k := p.peek(0).Kind
	return k == token.EOL || k == token.EOF
}

// inlineRun implements the Inline production: CharRef, CodeSpan, Link,
// Image, InlineURL, Emphasis, LineBreak, HTML Tag, then Text, tried in
// that priority order at every position until stop reports true. Plain
// characters not claimed by any of the special productions are coalesced
// into one Text node per uninterrupted run rather than one node per token.
// mergeBreaks lets a hard break absorb its EOL so the continuation joins
// the same run; headers and tag bodies pass false.
func (p *Parser) inlineRun(stop func() bool, mergeBreaks bool) ([]*ast.Node, error) {
	var nodes []*ast.Node
	var textBuf []byte
	src := p.buf().Source()
	flush := func() {
		if len(textBuf) > 0 {
			nodes = append(nodes, textNode(string(textBuf)))
			textBuf = textBuf[:0]
		}
	}

	for !stop() {
		if p.trailingHardBreak() {
			flush()
			p.next()
			p.next()
			nodes = append(nodes, ast.NewNode(ast.LineBreak))
			if mergeBreaks && p.LineLookahead() {
				p.next() // EOL
				p.consumeLinePrefix()
			}
			continue
		}

		switch p.peek(0).Kind {
		case token.CharEntityRef, token.NumericCharRef:
			flush()
			tok := p.next()
			n := ast.NewNode(ast.CharRef)
			n.Value = tok.Value(src)
			nodes = append(nodes, n)
			continue
		case token.CommentOpen:
			flush()
			n, err := p.commentNode()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			continue
		case token.Backtick:
			flush()
			n, err := p.codeSpan()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			continue
		case token.LBracket:
			flush()
			n, err := p.linkOrImage(false)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			continue
		case token.Bang:
			if p.peek(1).Kind == token.LBracket {
				flush()
				n, err := p.linkOrImage(true)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, n)
				continue
			}
		case token.Lt:
			if p.atInlineURL() {
				flush()
				nodes = append(nodes, p.inlineURL())
				continue
			}
			if p.atOpeningOrClosingTagStart() {
				flush()
				n, err := p.tag()
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, n)
				continue
			}
		case token.Star, token.Underscore:
			flush()
			n, err := p.emphasis()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
			continue
		case token.EscapedChar:
			tok := p.next()
			v := tok.Value(src)
			if len(v) > 1 {
				v = v[1:]
			}
			textBuf = append(textBuf, v...)
			continue
		}

		// Text fallback: absorb one token's literal image as plain text.
		tok := p.next()
		textBuf = append(textBuf, tok.Value(src)...)
	}
	flush()
	return nodes, nil
}

func textNode(value string) *ast.Node {
	n := ast.NewNode(ast.Text)
	n.Value = value
	return n
}

// trailingHardBreak reports whether the upcoming two SPACE tokens are
// immediately followed by EOL - Markdown's hard line break.
func (p *Parser) trailingHardBreak() bool {
	return p.peek(0).Kind == token.Space &&
		p.peek(1).Kind == token.Space &&
		p.peek(2).Kind == token.EOL
}

// --- CodeSpan ---

// codeSpan implements the CodeSpan production: a run of N backticks opens
// the span, which closes at the next run of exactly N backticks. A shorter
// run of backticks inside is literal content (this is what lets double-
// backtick spans contain single backticks).
func (p *Parser) codeSpan() (*ast.Node, error) {
	open := p.countBackticks()
	for i := 0; i < open; i++ {
		p.next()
	}
	src := p.buf().Source()
	var buf []byte
	for {
		tok := p.peek(0)
		if tok.Kind == token.EOF {
			return nil, p.currentError("unterminated code span")
		}
		if tok.Kind == token.Backtick {
			count := p.countBackticks()
			if count == open {
				for i := 0; i < count; i++ {
					p.next()
				}
				n := ast.NewNode(ast.CodeSpan)
				n.Value = string(buf)
				return n, nil
			}
			for i := 0; i < count; i++ {
				buf = append(buf, p.next().Value(src)...)
			}
			continue
		}
		buf = append(buf, p.next().Value(src)...)
	}
}

func (p *Parser) countBackticks() int {
	n := 0
	for p.peek(n).Kind == token.Backtick {
		n++
	}
	return n
}

// --- Emphasis ---

// emphasis implements the Emphasis production: a run of 1-3 '*' or '_'
// opens italic/bold/bold+italic, closed by a matching run of the same
// character and count. A shorter run of the same marker character found
// while scanning content is literal (not a close); a different marker
// character is always literal, which is what makes cross-delimiter
// characters (e.g. '_' inside a '*'-delimited span) render as plain text.
func (p *Parser) emphasis() (*ast.Node, error) {
	marker := p.peek(0).Kind
	count := 0
	for p.peek(0).Kind == marker && count < 3 {
		p.next()
		count++
	}
	var etype ast.EmphasisType
	switch count {
	case 1:
		etype = ast.Italic
	case 2:
		etype = ast.Bold
	default:
		etype = ast.ItalicAndBold
	}

	src := p.buf().Source()
	var buf []byte
	for {
		tok := p.peek(0)
		switch tok.Kind {
		case token.EOL, token.EOF:
			return nil, p.currentError("unterminated emphasis")
		case marker:
			closeCount := 0
			for p.peek(closeCount).Kind == marker && closeCount < count {
				closeCount++
			}
			if closeCount == count {
				for i := 0; i < count; i++ {
					p.next()
				}
				n := ast.NewNode(ast.Emphasis)
				n.EmphasisType = etype
				n.Value = string(buf)
				return n, nil
			}
			for i := 0; i < closeCount; i++ {
				buf = append(buf, p.next().Value(src)...)
			}
		case token.EscapedChar:
			v := p.next().Value(src)
			buf = append(buf, v[1:]...)
		default:
			buf = append(buf, p.next().Value(src)...)
		}
	}
}

// --- InlineURL ---

// atInlineURL reports whether a '<' opens a bare autolink: a run of
// non-whitespace, non-'<' characters terminated by '>' with no line break
// in between. A scheme colon is required, which is what keeps a plain tag
// like "<br>" out of this production.
func (p *Parser) atInlineURL() bool {
	buf := p.buf()
	i := 1
	sawColon := false
	for {
		tok := buf.Peek(i)
		switch tok.Kind {
		case token.Gt:
			return i > 1 && sawColon
		case token.Colon:
			sawColon = true
			i++
		case token.Space, token.Tab, token.EOL, token.EOF, token.Lt:
			return false
		default:
			i++
		}
	}
}

func (p *Parser) inlineURL() *ast.Node {
	p.next() // '<'
	src := p.buf().Source()
	var buf []byte
	for p.peek(0).Kind != token.Gt {
		buf = append(buf, p.next().Value(src)...)
	}
	p.next() // '>'
	n := ast.NewNode(ast.InlineURL)
	n.Value = string(buf)
	return n
}

// --- Link / Image ---

// linkOrImage implements both the Link and Image productions from the
// point the opening '[' (or '![') has been recognized: bracketed text,
// then either an inline "(url title)" resource or a "[id]" reference (an
// empty "[]" means id = text).
func (p *Parser) linkOrImage(isImage bool) (*ast.Node, error) {
	if isImage {
		p.next() // '!'
	}
	p.next() // '['
	p.state.BracketDepth++
	defer func() { p.state.BracketDepth-- }()

	src := p.buf().Source()
	var textBuf []byte
	depth := 1
textLoop:
	for {
		tok := p.peek(0)
		switch tok.Kind {
		case token.LBracket:
			depth++
			textBuf = append(textBuf, p.next().Value(src)...)
		case token.RBracket:
			depth--
			p.next()
			if depth == 0 {
				break textLoop
			}
			textBuf = append(textBuf, tok.Value(src)...)
		case token.EOL, token.EOF:
			return nil, p.currentError("unterminated link text")
		case token.EscapedChar:
			v := p.next().Value(src)
			textBuf = append(textBuf, v[1:]...)
		default:
			textBuf = append(textBuf, p.next().Value(src)...)
		}
	}
	text := string(textBuf)

	// A single SPACE may separate the text bracket from the "(url)" or
	// "[id]" that follows ("[foo] [1]"); more than one space, or anything
	// else, means the trailing bracket never arrives, so it is left
	// unconsumed and the construct falls through to "default" below.
	hasSpace := false
	if p.peek(0).Kind == token.Space && (p.peek(1).Kind == token.LParen || p.peek(1).Kind == token.LBracket) {
		p.next()
		hasSpace = true
	}

	switch p.peek(0).Kind {
	case token.LParen:
		return p.inlineResourceForm(isImage, text)
	case token.LBracket:
		return p.referenceForm(isImage, text, hasSpace)
	default:
		if isImage {
			n := ast.NewNode(ast.Image)
			n.Value = text
			return n, nil
		}
		n := ast.NewNode(ast.Link)
		n.Value = text
		n.Referenced = true
		n.HasWhitespaceAtMiddle = hasSpace
		return n, nil
	}
}

func (p *Parser) inlineResourceForm(isImage bool, text string) (*ast.Node, error) {
	p.next() // '('
	p.skipInlineSpaces()
	url := p.scanURL()
	p.skipInlineSpaces()
	title, hasTitle, err := p.maybeTitle()
	if err != nil {
		return nil, err
	}
	p.skipInlineSpaces()
	if p.peek(0).Kind != token.RParen {
		return nil, p.currentError("expected ')' closing link destination")
	}
	p.next()

	res := &ast.Resource{Location: url, Title: title, HasTitle: hasTitle}
	if isImage {
		n := ast.NewNode(ast.Image)
		n.Value = text
		n.InlineResource = res
		return n, nil
	}
	n := ast.NewNode(ast.Link)
	n.Value = text
	n.InlineResource = res
	return n, nil
}

func (p *Parser) referenceForm(isImage bool, text string, hasSpace bool) (*ast.Node, error) {
	p.next() // '['
	src := p.buf().Source()
	var idBuf []byte
	for p.peek(0).Kind != token.RBracket {
		if p.peek(0).Kind == token.EOL || p.peek(0).Kind == token.EOF {
			return nil, p.currentError("unterminated reference id")
		}
		idBuf = append(idBuf, p.next().Value(src)...)
	}
	p.next() // ']'
	id := string(idBuf)

	if isImage {
		n := ast.NewNode(ast.Image)
		n.Value = text
		if id != "" {
			n.RefID = id
			n.HasRefID = true
		}
		return n, nil
	}
	n := ast.NewNode(ast.Link)
	n.Value = text
	n.Referenced = true
	n.HasWhitespaceAtMiddle = hasSpace
	if id != "" {
		n.ReferenceName = id
		n.HasReferenceName = true
	}
	return n, nil
}

// scanURL scans an inline link/image destination up to the next
// whitespace or unbalanced ')', tracking nested parens with a local depth
// count. The parser state's ParenDepth is raised for the duration of the
// scan.
func (p *Parser) scanURL() string {
	p.state.ParenDepth++
	defer func() { p.state.ParenDepth-- }()

	src := p.buf().Source()
	var buf []byte
	depth := 0
	for {
		tok := p.peek(0)
		switch tok.Kind {
		case token.LParen:
			depth++
			buf = append(buf, p.next().Value(src)...)
		case token.RParen:
			if depth == 0 {
				return string(buf)
			}
			depth--
			buf = append(buf, p.next().Value(src)...)
		case token.Space, token.Tab, token.EOL, token.EOF:
			return string(buf)
		default:
			buf = append(buf, p.next().Value(src)...)
		}
	}
}

// maybeTitle scans an optional single- or double-quoted link/image title.
// QuoteInsideTitleLookahead disambiguates a quote character that appears
// inside the title text from the delimiter that closes it: a quote is
// treated as literal content whenever another matching quote still lies
// ahead before ')'/EOL/EOF.
func (p *Parser) maybeTitle() (string, bool, error) {
	tok := p.peek(0)
	if tok.Kind != token.DoubleQuote && tok.Kind != token.SingleQuote {
		return "", false, nil
	}
	quote := tok.Kind
	p.next()
	src := p.buf().Source()
	var buf []byte
	for {
		t := p.peek(0)
		switch t.Kind {
		case quote:
			if p.QuoteInsideTitleLookahead(1, quote) {
				buf = append(buf, p.next().Value(src)...)
				continue
			}
			p.next()
			return string(buf), true, nil
		case token.EOL, token.EOF, token.RParen:
			return "", false, p.currentError("unterminated link title")
		default:
			buf = append(buf, p.next().Value(src)...)
		}
	}
}

func (p *Parser) skipInlineSpaces() {
	for p.peek(0).Kind == token.Space || p.peek(0).Kind == token.Tab {
		p.next()
	}
}
