package parser

import (
	"github.com/ragodev/mdpapers/internal/ast"
	"github.com/ragodev/mdpapers/internal/token"
)

// blockElement implements the BlockElement production: dispatch to the
// sub-block grammar indicated by the current line's shape, tried in the
// priority order Markdown gives its block structure. The 4-space/tab code
// check happens before any leading-space skip; every other alternative is
// tried after skipping up to 3 leading spaces. A line led by inline HTML
// falls through to Paragraph, whose inline grammar owns tag parsing; the
// visitor later decides whether such a paragraph keeps its <p> wrapper.
func (p *Parser) blockElement(parent *ast.Node) error {
	if p.atCodeBlockStart() {
		return p.code(parent)
	}
	indent := p.state.linePrefixCols + p.skipUpToNSpaces(3)
	switch {
	case p.peek(0).Kind == token.Gt:
		return p.quote(parent)
	case p.RulerLookahead():
		return p.ruler(parent)
	case p.atATXHeader():
		return p.atxHeader(parent)
	case p.peek(0).Kind == token.CommentOpen:
		return p.blockComment(parent)
	case isItemMarkerStart(p.buf(), 0):
		return p.list(parent, indent)
	default:
		return p.paragraph(parent)
	}
}

func (p *Parser) skipUpToNSpaces(n int) int {
	count := 0
	for count < n && p.peek(0).Kind == token.Space {
		p.next()
		count++
	}
	return count
}

// atCodeBlockStart decides whether the current line opens an indented code
// block. At the top level a tab or 4+ columns is enough; inside a list
// item the content must sit 8+ columns past the item's marker (consulting
// BlockLookahead), so modestly indented continuation content stays a
// paragraph. The item's indentation is adjusted by whatever prefix columns
// the item driver already consumed from this line.
func (p *Parser) atCodeBlockStart() bool {
	if it := p.state.currentItem(); it != nil {
		return p.BlockLookahead("Code", it.indentation-p.state.linePrefixCols)
	}
	return p.atCodeIndent()
}

// atCodeIndent reports whether the line starting at the buffer's current,
// unskipped position opens with a tab or 4+ columns of spaces.
func (p *Parser) atCodeIndent() bool {
	buf := p.buf()
	if buf.Peek(0).Kind == token.Tab {
		return true
	}
	count := 0
	for buf.Peek(count).Kind == token.Space {
		count++
	}
	return count >= 4
}

func (p *Parser) atATXHeader() bool {
	return p.peek(0).Kind == token.Sharp
}

// consumeLinePrefix re-measures the current line's leading SPACE/TAB/GT
// structure from the buffer's current position (which must already sit at
// the start of a line, i.e. any EOL ending the previous one already
// consumed) and consumes exactly that prefix.
func (p *Parser) consumeLinePrefix() lineShape {
	shape := peekLineShape(p.buf(), 0)
	for i := 0; i < shape.firstIdx; i++ {
		p.next()
	}
	return shape
}

// consumeColumns consumes up to n columns' worth of leading SPACE/TAB,
// stopping early if a non-whitespace token is reached first.
func (p *Parser) consumeColumns(n int) {
	col := 0
	prevEndCol := -1
	for col < n {
		tok := p.peek(0)
		switch tok.Kind {
		case token.Space:
			col++
			prevEndCol = tok.EndColumn
			p.next()
		case token.Tab:
			col += token.TabWidth(prevEndCol)
			prevEndCol = tok.EndColumn
			p.next()
		default:
			return
		}
	}
}

// --- Quote ---

// quote implements the Quote production: a '>' (with optional following
// space) opens the block, nested BlockElements are parsed at depth+1 until
// a line that QuotedElementLookahead no longer recognizes as part of the
// quote.
//
// A continuation line may carry more '>' markers than this quote's own
// depth (e.g. the second line of "> outer\n> > inner"): only as many
// markers as there are open quotes are stripped per continuation, so any
// deeper '>' is left for the recursive BlockElement call to recognize as a
// fresh nested Quote, rather than being flattened into this quote's own
// children.
func (p *Parser) quote(parent *ast.Node) error {
	node := ast.NewNode(ast.Quote)
	p.consumeQuoteMarker()
	p.state.pushQuote(node)
	defer p.state.popQuote()
	p.state.linePrefixCols = 0

	if err := p.blockElement(node); err != nil {
		return err
	}
	for p.peek(0).Kind == token.EOL && p.QuotedElementLookahead() {
		p.next()
		p.consumeQuoteMarkers(p.state.QuoteDepth)
		p.state.linePrefixCols = 0
		if p.peek(0).Kind == token.EOF || p.peek(0).Kind == token.EOL {
			continue
		}
		if err := p.blockElement(node); err != nil {
			return err
		}
	}
	parent.Append(node)
	return nil
}

func (p *Parser) consumeQuoteMarker() {
	if p.peek(0).Kind == token.Gt {
		p.next()
		if p.peek(0).Kind == token.Space {
			p.next()
		}
	}
}

// consumeQuoteMarkers strips up to depth '>' markers (each with its
// optional trailing space) from the start of the current line, leaving any
// deeper markers in place.
func (p *Parser) consumeQuoteMarkers(depth int) {
	for i := 0; i < depth && p.peek(0).Kind == token.Gt; i++ {
		p.next()
		if p.peek(0).Kind == token.Space {
			p.next()
		}
	}
}

// --- Paragraph ---

// paragraph implements the Paragraph production, folding in Setext header
// detection: if the first line is immediately followed by a line that is
// entirely '=' (level 1) or '-' (level 2), the paragraph is reinterpreted
// as a Header instead and the underline is consumed with it.
func (p *Parser) paragraph(parent *ast.Node) error {
	first, err := p.line()
	if err != nil {
		return err
	}
	if level, ok := p.setextLookahead(); ok {
		header := ast.NewNode(ast.Header)
		header.Level = level
		for _, c := range first.Children {
			header.Append(c)
		}
		p.next() // EOL ending the text line
		p.consumeSetextUnderline()
		parent.Append(header)
		return nil
	}

	para := ast.NewNode(ast.Paragraph)
	para.Append(first)
	for p.peek(0).Kind == token.EOL && p.LineLookahead() {
		p.next()
		p.consumeLinePrefix()
		ln, err := p.line()
		if err != nil {
			return err
		}
		para.Append(ln)
	}
	parent.Append(para)
	return nil
}

func (p *Parser) setextLookahead() (int, bool) {
	buf := p.buf()
	if buf.Peek(0).Kind != token.EOL {
		return 0, false
	}
	switch buf.Peek(1).Kind {
	case token.Eq:
		return p.setextRun(1, token.Eq, 1)
	case token.Minus:
		return p.setextRun(1, token.Minus, 2)
	default:
		return 0, false
	}
}

func (p *Parser) setextRun(start int, kind token.Kind, level int) (int, bool) {
	buf := p.buf()
	i := start
	count := 0
	for buf.Peek(i).Kind == kind {
		i++
		count++
	}
	for buf.Peek(i).Kind == token.Space {
		i++
	}
	switch buf.Peek(i).Kind {
	case token.EOL, token.EOF:
		return level, count >= 1
	default:
		return 0, false
	}
}

func (p *Parser) consumeSetextUnderline() {
	for {
		switch p.peek(0).Kind {
		case token.Eq, token.Minus, token.Space:
			p.next()
		default:
			return
		}
	}
}

// --- ATX Header ---

func (p *Parser) atxHeader(parent *ast.Node) error {
	level := 0
	for p.peek(0).Kind == token.Sharp && level < 6 {
		p.next()
		level++
	}
	if p.peek(0).Kind == token.Space {
		p.next()
	}
	header := ast.NewNode(ast.Header)
	header.Level = level
	children, err := p.inlineRun(func() bool {
		return p.atLineEnd() || p.atATXTrailingRun()
	}, false)
	if err != nil {
		return err
	}
	for _, c := range children {
		header.Append(c)
	}
	for {
		switch p.peek(0).Kind {
		case token.Space, token.Sharp:
			p.next()
		default:
			parent.Append(header)
			return nil
		}
	}
}

// atATXTrailingRun implements the header half of TextLookahead: true when
// the rest of the line is only an optional run of spaces, then '#'s, then
// optional spaces, then EOL/EOF - the closing sigil a header may carry.
func (p *Parser) atATXTrailingRun() bool {
	buf := p.buf()
	i := 0
	for buf.Peek(i).Kind == token.Space {
		i++
	}
	if buf.Peek(i).Kind != token.Sharp {
		return false
	}
	for buf.Peek(i).Kind == token.Sharp {
		i++
	}
	for buf.Peek(i).Kind == token.Space {
		i++
	}
	switch buf.Peek(i).Kind {
	case token.EOL, token.EOF:
		return true
	default:
		return false
	}
}

// --- Ruler ---

func (p *Parser) ruler(parent *ast.Node) error {
	for {
		switch p.peek(0).Kind {
		case token.Star, token.Minus, token.Underscore, token.Space:
			p.next()
		case token.EOL, token.EOF:
			parent.Append(ast.NewNode(ast.Ruler))
			return nil
		default:
			return p.currentError("malformed ruler")
		}
	}
}

// --- Comment ---

func (p *Parser) blockComment(parent *ast.Node) error {
	n, err := p.commentNode()
	if err != nil {
		return err
	}
	parent.Append(n)
	return nil
}

// commentNode consumes "<!-- ... -->", which may span lines, and returns
// the Comment node holding the verbatim interior text.
func (p *Parser) commentNode() (*ast.Node, error) {
	p.next() // COMMENT_OPEN
	src := p.buf().Source()
	var buf []byte
	for p.peek(0).Kind != token.CommentClose {
		if p.peek(0).Kind == token.EOF {
			return nil, p.currentError("unterminated comment")
		}
		buf = append(buf, p.next().Value(src)...)
	}
	p.next() // COMMENT_CLOSE
	n := ast.NewNode(ast.Comment)
	n.Value = string(buf)
	return n, nil
}

// --- Code ---

func (p *Parser) code(parent *ast.Node) error {
	node := ast.NewNode(ast.Code)
	if err := p.codeLine(node); err != nil {
		return err
	}
	for p.peek(0).Kind == token.EOL && p.CodeLineLookahead() {
		p.next()
		if err := p.codeLine(node); err != nil {
			return err
		}
	}
	parent.Append(node)
	return nil
}

// stripCodeIndent consumes any open blockquote markers, then exactly 4
// columns of SPACE/TAB indentation, leaving deeper indentation as literal
// code content.
func (p *Parser) stripCodeIndent() {
	for p.peek(0).Kind == token.Gt {
		p.next()
		if p.peek(0).Kind == token.Space {
			p.next()
		}
	}
	col := 0
	prevEndCol := -1
	for col < 4 {
		tok := p.peek(0)
		switch tok.Kind {
		case token.Space:
			col++
			prevEndCol = tok.EndColumn
			p.next()
		case token.Tab:
			w := token.TabWidth(prevEndCol)
			if col+w > 4 {
				return
			}
			col += w
			prevEndCol = tok.EndColumn
			p.next()
		default:
			return
		}
	}
}

func (p *Parser) codeLine(parent *ast.Node) error {
	p.stripCodeIndent()
	src := p.buf().Source()
	var buf []byte
	prevEndCol := -1
	for {
		tok := p.peek(0)
		switch tok.Kind {
		case token.EOL, token.EOF:
			n := ast.NewNode(ast.CodeText)
			n.Value = string(buf)
			parent.Append(n)
			return nil
		case token.Tab:
			for i := 0; i < token.TabWidth(prevEndCol); i++ {
				buf = append(buf, ' ')
			}
			prevEndCol = tok.EndColumn
			p.next()
		default:
			buf = append(buf, tok.Value(src)...)
			prevEndCol = tok.EndColumn
			p.next()
		}
	}
}

// --- List / Item ---

// list implements the List production. markerColumn is the column the
// first item's marker sits at; every sibling marker must come back to that
// same column, which is what ItemLookahead checks against the frame.
func (p *Parser) list(parent *ast.Node, markerColumn int) error {
	ordered := p.peek(0).Kind == token.Digits
	markerWidth := p.consumeItemMarker()
	gapWidth := p.skipItemGap()
	p.state.linePrefixCols = markerColumn + markerWidth + gapWidth

	listNode := ast.NewNode(ast.List)
	listNode.Ordered = ordered
	listNode.Indentation = markerColumn
	lf := &listFrame{node: listNode, indentation: markerColumn, ordered: ordered}
	p.state.pushList(lf)
	defer p.state.popList()

	if err := p.item(listNode, lf); err != nil {
		return err
	}
	for p.peek(0).Kind == token.EOL && p.ItemLookahead() {
		p.next()
		if p.skipBlankLines() {
			lf.forceLoose = true
			for _, it := range lf.items {
				it.Loose = true
			}
		}
		p.consumeQuoteMarkers(p.state.QuoteDepth)
		p.consumeColumns(lf.indentation)
		markerWidth = p.consumeItemMarker()
		gapWidth = p.skipItemGap()
		p.state.linePrefixCols = lf.indentation + markerWidth + gapWidth
		if err := p.item(listNode, lf); err != nil {
			return err
		}
	}
	parent.Append(listNode)
	return nil
}

// skipBlankLines consumes whole blank lines (their quote/space prefix plus
// the EOL itself) and reports whether any were seen. The buffer must sit at
// a line start.
func (p *Parser) skipBlankLines() bool {
	blank := false
	for {
		shape := peekLineShape(p.buf(), 0)
		if !shape.blank || p.buf().Peek(shape.firstIdx).Kind == token.EOF {
			return blank
		}
		for i := 0; i <= shape.firstIdx; i++ {
			p.next()
		}
		blank = true
	}
}

// consumeItemMarker consumes a bullet ('+', '-', '*') or ordered
// ("digits.") marker and reports the number of columns it occupied.
func (p *Parser) consumeItemMarker() int {
	tok := p.peek(0)
	switch tok.Kind {
	case token.Plus, token.Minus, token.Star:
		p.next()
		return 1
	case token.Digits:
		width := len(tok.Literal)
		p.next()
		p.next() // '.'
		return width + 1
	default:
		return 0
	}
}

// skipItemGap consumes the single SPACE/TAB separating a marker from the
// item's content and reports its column width.
func (p *Parser) skipItemGap() int {
	tok := p.peek(0)
	switch tok.Kind {
	case token.Space:
		p.next()
		return 1
	case token.Tab:
		p.next()
		return token.TabWidth(tok.BeginColumn - 1)
	default:
		return 0
	}
}

func (p *Parser) item(listNode *ast.Node, lf *listFrame) error {
	node := ast.NewNode(ast.Item)
	node.Ordered = lf.ordered
	node.Indentation = lf.indentation
	if lf.forceLoose {
		node.Loose = true
	}
	p.state.pushItem(&itemFrame{node: node, indentation: lf.indentation, ordered: lf.ordered})
	defer p.state.popItem()

	if err := p.blockElement(node); err != nil {
		return err
	}
	for p.peek(0).Kind == token.EOL && p.ItemContinues(lf.indentation, p.state.QuoteDepth) {
		if p.ItemLookahead() {
			// A sibling marker at this list's own column: the list, not
			// this item, owns what follows.
			break
		}
		if p.skipItemBlankRunThenPrefix(lf.indentation) {
			p.state.markLoose()
		}
		if err := p.blockElement(node); err != nil {
			return err
		}
	}
	listNode.Append(node)
	lf.items = append(lf.items, node)
	return nil
}

// skipItemBlankRunThenPrefix consumes the EOL ending the current line, any
// further blank lines, and the item's own quote/indentation prefix,
// reporting whether a blank line was seen (the item must then be promoted
// to loose).
func (p *Parser) skipItemBlankRunThenPrefix(itemIndent int) bool {
	p.next() // EOL ending the current line
	blank := p.skipBlankLines()
	p.consumeQuoteMarkers(p.state.QuoteDepth)
	p.consumeColumns(itemIndent)
	p.state.linePrefixCols = itemIndent
	return blank
}

// --- ResourceDefinition ---

func (p *Parser) resourceDefinition(parent *ast.Node) error {
	p.skipUpToNSpaces(3)
	p.next() // '['
	src := p.buf().Source()
	var idBuf []byte
	for p.peek(0).Kind != token.RBracket {
		idBuf = append(idBuf, p.next().Value(src)...)
	}
	p.next() // ']'
	p.next() // ':'
	p.skipInlineSpaces()
	url := p.scanURL()
	p.skipInlineSpaces()
	title, hasTitle, err := p.maybeTitle()
	if err != nil {
		title, hasTitle = "", false
	}
	p.skipInlineSpaces()

	id := string(idBuf)
	res := &ast.Resource{Location: url, Title: title, HasTitle: hasTitle}
	node := ast.NewNode(ast.ResourceDefinition)
	node.ID = id
	node.Resource = res
	p.state.Refs[id] = res
	parent.Append(node)
	return nil
}
