package parser

import "github.com/ragodev/mdpapers/internal/token"

// blockKind is the result of BlockLookahead: which sub-block a line of
// content begins, as judged purely from indentation and the first
// non-whitespace token.
type blockKind int

const (
	blockParagraph blockKind = iota
	blockList
	blockCode
)

// lineShape summarizes a peeked line without consuming it: its
// indentation in columns (tabs expanded), how many '>' quote markers
// introduced it, whether it is blank, and the buffer offset its first
// non-indentation token sits at.
type lineShape struct {
	indent     int
	quoteDepth int
	blank      bool
	firstIdx   int // buffer offset (from the peek start) of the first significant token
}

// peekLineShape peeks starting at buffer offset `start` (which must be the
// position right after an EOL, or 0 at the very beginning of the document)
// and measures leading SPACE/TAB/GT structure without consuming anything.
func peekLineShape(buf lookaheadPeeker, start int) lineShape {
	indent := 0
	quoteDepth := 0
	prevEndCol := -1
	i := start
	for {
		tok := buf.Peek(i)
		switch tok.Kind {
		case token.Space:
			indent++
			prevEndCol = tok.EndColumn
			i++
		case token.Tab:
			indent += token.TabWidth(prevEndCol)
			prevEndCol = tok.EndColumn
			i++
		case token.Gt:
			quoteDepth++
			prevEndCol = tok.EndColumn
			i++
			// An optional single space right after '>' is part of the
			// quote marker, not content indentation.
			if sp := buf.Peek(i); sp.Kind == token.Space {
				i++
				prevEndCol = sp.EndColumn
			}
		default:
			return lineShape{
				indent:     indent,
				quoteDepth: quoteDepth,
				blank:      tok.Kind == token.EOL || tok.Kind == token.EOF,
				firstIdx:   i,
			}
		}
	}
}

// lookaheadPeeker is satisfied by *lookahead.Buffer; narrowed to ease
// testing the predicates against a fake token sequence.
type lookaheadPeeker interface {
	Peek(n int) token.Token
}

// Convention: ItemContinues, LineLookahead, CodeLineLookahead,
// QuotedElementLookahead and ItemLookahead are all called while the buffer's
// next unconsumed token (offset 0) is the EOL ending the current line; they
// peek from offset 1 onward to examine the line that follows, without
// consuming it. BlockLookahead and RulerLookahead instead examine the
// current line starting at offset 0 (no pending EOL).

// ItemContinues reports whether, after an EOL (and skipping any run of
// blank lines), the following content either sits deeper than the item's
// marker column at the same blockquote depth, or - after a blank line -
// starts a new marker at the same column as the current item.
func (p *Parser) ItemContinues(itemIndent, quoteDepth int) bool {
	offset := 1
	shape := peekLineShape(p.buf(), offset)
	sawBlank := false
	for shape.blank {
		if p.buf().Peek(shape.firstIdx).Kind == token.EOF {
			return false
		}
		sawBlank = true
		offset = shape.firstIdx + 1
		shape = peekLineShape(p.buf(), offset)
	}
	if shape.quoteDepth != quoteDepth {
		return false
	}
	if shape.indent > itemIndent {
		return true
	}
	return sawBlank && shape.indent == itemIndent && isItemMarkerStart(p.buf(), shape.firstIdx)
}

// BlockLookahead determines what sub-block begins at the next non-
// whitespace token (skipping SPACE/TAB/GT) and reports whether it matches
// expected.
func (p *Parser) BlockLookahead(expected string, itemIndent int) bool {
	shape := peekLineShape(p.buf(), 0)
	var kind blockKind
	switch {
	case isItemMarkerStart(p.buf(), shape.firstIdx):
		kind = blockList
	case shape.indent >= itemIndent+8:
		kind = blockCode
	default:
		kind = blockParagraph
	}
	switch expected {
	case "List":
		return kind == blockList
	case "Code":
		return kind == blockCode
	case "Paragraph":
		return kind == blockParagraph
	default:
		return false
	}
}

// LineLookahead reports whether the next line, at the current blockquote
// depth, continues the paragraph being parsed: not blank, and not the
// start of a new item in an open list context.
func (p *Parser) LineLookahead() bool {
	shape := peekLineShape(p.buf(), 1)
	if shape.blank {
		return false
	}
	if shape.quoteDepth != p.state.QuoteDepth {
		return false
	}
	if lf := p.state.currentList(); lf != nil && isItemMarkerStart(p.buf(), shape.firstIdx) {
		return false
	}
	return true
}

// CodeLineLookahead reports whether the next line is still inside the
// current code block: indented >= 4 columns beyond whatever blockquote
// markers are open at the matching depth. Interior blank lines stay in
// the block as long as a further indented line follows; trailing blanks
// end it.
func (p *Parser) CodeLineLookahead() bool {
	offset := 1
	shape := peekLineShape(p.buf(), offset)
	for shape.blank {
		if p.buf().Peek(shape.firstIdx).Kind == token.EOF {
			return false
		}
		offset = shape.firstIdx + 1
		shape = peekLineShape(p.buf(), offset)
	}
	if shape.quoteDepth != p.state.QuoteDepth {
		return false
	}
	return shape.indent >= 4
}

// QuotedElementLookahead reports whether the next line is still inside the
// currently open quote: its blockquote depth is at least as deep as the
// current depth.
func (p *Parser) QuotedElementLookahead() bool {
	shape := peekLineShape(p.buf(), 1)
	return shape.quoteDepth >= p.state.QuoteDepth
}

// ItemLookahead reports whether, after an EOL and any run of blank lines,
// the next non-whitespace token is another item marker at the current
// list's indentation column (and is not actually introducing a ruler).
// Tolerating intervening blank lines is what lets a loose list ("- a\n\n-
// b") see its second item as a continuation of the same list rather than
// the end of it.
func (p *Parser) ItemLookahead() bool {
	lf := p.state.currentList()
	if lf == nil {
		return false
	}
	offset := 1
	shape := peekLineShape(p.buf(), offset)
	for shape.blank {
		if p.buf().Peek(shape.firstIdx).Kind == token.EOF {
			return false
		}
		offset = shape.firstIdx + 1
		shape = peekLineShape(p.buf(), offset)
	}
	if shape.quoteDepth != p.state.QuoteDepth {
		return false
	}
	if shape.indent != lf.indentation {
		return false
	}
	if p.RulerLookaheadAt(shape.firstIdx) {
		return false
	}
	return isItemMarkerStart(p.buf(), shape.firstIdx)
}

// RulerLookahead reports whether the rest of the current line (from the
// buffer's current position) is a horizontal rule: three or more of the
// same marker character (*, -, _), each separated by at most two spaces,
// terminated by EOL/EOF.
func (p *Parser) RulerLookahead() bool {
	return p.RulerLookaheadAt(0)
}

// RulerLookaheadAt is RulerLookahead starting from an arbitrary buffer
// offset, used by ItemLookahead to disambiguate a bare "---" from a new
// list item.
func (p *Parser) RulerLookaheadAt(offset int) bool {
	buf := p.buf()
	i := offset
	var marker token.Kind
	haveMarker := false
	count := 0
	spacesSinceMarker := 0
	for {
		tok := buf.Peek(i)
		switch tok.Kind {
		case token.Star, token.Minus, token.Underscore:
			if !haveMarker {
				marker = tok.Kind
				haveMarker = true
			} else if tok.Kind != marker {
				return false
			}
			count++
			spacesSinceMarker = 0
			i++
		case token.Space:
			spacesSinceMarker++
			if spacesSinceMarker > 2 {
				return false
			}
			i++
		case token.Tab:
			return false
		case token.EOL, token.EOF:
			return haveMarker && count >= 3
		default:
			return false
		}
	}
}

// QuoteInsideTitleLookahead reports whether, starting from offset (just
// past an opening quote character), a matching closing quote appears
// before a ')' / EOL / EOF - used to disambiguate a quote character
// appearing inside a link title from the title's closing delimiter.
func (p *Parser) QuoteInsideTitleLookahead(offset int, quote token.Kind) bool {
	buf := p.buf()
	i := offset
	for {
		tok := buf.Peek(i)
		switch tok.Kind {
		case quote:
			return true
		case token.RParen, token.EOL, token.EOF:
			return false
		default:
			i++
		}
	}
}

// isItemMarkerStart reports whether the token at buffer offset idx begins
// a bullet or ordered-list marker ('+', '-', '*', or a digit run) followed
// by SPACE or TAB.
func isItemMarkerStart(buf lookaheadPeeker, idx int) bool {
	tok := buf.Peek(idx)
	switch tok.Kind {
	case token.Plus, token.Minus, token.Star:
		next := buf.Peek(idx + 1)
		return next.Kind == token.Space || next.Kind == token.Tab
	case token.Digits:
		dot := buf.Peek(idx + 1)
		if dot.Kind != token.Dot {
			return false
		}
		next := buf.Peek(idx + 2)
		return next.Kind == token.Space || next.Kind == token.Tab
	default:
		return false
	}
}
