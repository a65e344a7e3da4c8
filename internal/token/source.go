package token

import (
	"unicode/utf8"

	"github.com/yuin/goldmark/text"
)

// TabSize is the tab stop width used throughout tokenizing and code-text
// expansion.
const TabSize = 4

// Source is a stateful token stream over a byte buffer. It never rewinds:
// callers that need to look ahead buffer the tokens themselves (see
// internal/lookahead).
type Source struct {
	buf  []byte
	pos  int
	line int
	col  int // zero-based, raw (unexpanded) column of the next byte to read
}

// NewSource creates a token source over buf.
func NewSource(buf []byte) *Source {
	return &Source{buf: buf, line: 1, col: 0}
}

// Source returns the underlying byte buffer, for re-slicing token spans.
func (s *Source) Source() []byte {
	return s.buf
}

// Next returns the next token in the stream. Once EOF has been returned, it
// continues to return EOF.
func (s *Source) Next() Token {
	start := s.pos
	line, col := s.line, s.col

	if s.pos >= len(s.buf) {
		return s.emit(EOF, start, start, line, col, col)
	}

	rest := s.buf[s.pos:]

	if n := scanEOL(rest); n > 0 {
		s.advanceBytes(n)
		s.line++
		s.col = 0
		return s.emit(EOL, start, start+n, line, col, col+n-1)
	}
	if n := scanLiteral(rest, "<!--"); n > 0 {
		s.advanceBytes(n)
		return s.emit(CommentOpen, start, start+n, line, col, col+n-1)
	}
	if n := scanLiteral(rest, "-->"); n > 0 {
		s.advanceBytes(n)
		return s.emit(CommentClose, start, start+n, line, col, col+n-1)
	}
	if n := scanNumericRef(rest); n > 0 {
		s.advanceBytes(n)
		return s.emit(NumericCharRef, start, start+n, line, col, col+n-1)
	}
	if n := scanEntityRef(rest); n > 0 {
		s.advanceBytes(n)
		return s.emit(CharEntityRef, start, start+n, line, col, col+n-1)
	}
	if n := scanEscaped(rest); n > 0 {
		s.advanceBytes(n)
		return s.emit(EscapedChar, start, start+n, line, col, col+n-1)
	}
	if isASCIIDigit(rest[0]) {
		n := scanDigits(rest)
		s.advanceBytes(n)
		return s.emit(Digits, start, start+n, line, col, col+n-1)
	}
	if rest[0] == ' ' {
		s.advanceBytes(1)
		return s.emit(Space, start, start+1, line, col, col)
	}
	if rest[0] == '\t' {
		s.advanceBytes(1)
		return s.emit(Tab, start, start+1, line, col, col)
	}
	if kind, ok := punctuation[rest[0]]; ok {
		s.advanceBytes(1)
		return s.emit(kind, start, start+1, line, col, col)
	}

	n, runes := scanCharSequence(rest)
	s.advanceRunes(n, runes)
	return s.emit(CharSequence, start, start+n, line, col, col+runes-1)
}

func (s *Source) emit(kind Kind, spanStart, spanEnd, line, beginCol, endCol int) Token {
	return Token{
		Kind:        kind,
		Literal:     string(s.buf[spanStart:spanEnd]),
		Line:        line,
		BeginColumn: beginCol,
		EndColumn:   endCol,
		Span:        text.NewSegment(spanStart, spanEnd),
	}
}

func (s *Source) advanceBytes(n int) {
	s.pos += n
	s.col += n
}

func (s *Source) advanceRunes(nBytes, nRunes int) {
	s.pos += nBytes
	s.col += nRunes
}

// TabWidth returns the number of columns a tab occupies when it is the next
// token on the line, given the end column of the previous token on that
// line (or -1 if the tab starts the line). Columns are zero-based; a tab
// always advances to the next multiple-of-TabSize column.
func TabWidth(prevEndColumn int) int {
	if prevEndColumn < -1 {
		prevEndColumn = -1
	}
	col := prevEndColumn + 1
	return TabSize - col%TabSize
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isASCIIDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func scanLiteral(b []byte, lit string) int {
	if len(b) < len(lit) {
		return 0
	}
	for i := 0; i < len(lit); i++ {
		if b[i] != lit[i] {
			return 0
		}
	}
	return len(lit)
}

func scanEOL(b []byte) int {
	switch {
	case len(b) >= 2 && b[0] == '\r' && b[1] == '\n':
		return 2
	case b[0] == '\n' || b[0] == '\r':
		return 1
	default:
		return 0
	}
}

// scanEntityRef matches &name; where name is a run of ASCII letters/digits
// starting with a letter.
func scanEntityRef(b []byte) int {
	if len(b) < 3 || b[0] != '&' {
		return 0
	}
	i := 1
	if !isASCIILetter(b[i]) {
		return 0
	}
	i++
	for i < len(b) && (isASCIILetter(b[i]) || isASCIIDigit(b[i])) {
		i++
	}
	if i >= len(b) || b[i] != ';' {
		return 0
	}
	return i + 1
}

// scanNumericRef matches &#dddd; (1-4 decimal digits) or &#x[0-9a-fA-F]{1,4};
func scanNumericRef(b []byte) int {
	if len(b) < 4 || b[0] != '&' || b[1] != '#' {
		return 0
	}
	i := 2
	hex := false
	if i < len(b) && (b[i] == 'x' || b[i] == 'X') {
		hex = true
		i++
	}
	digitsStart := i
	for i < len(b) && i-digitsStart < 4 {
		if hex && isHexDigit(b[i]) {
			i++
		} else if !hex && isASCIIDigit(b[i]) {
			i++
		} else {
			break
		}
	}
	if i == digitsStart || i >= len(b) || b[i] != ';' {
		return 0
	}
	return i + 1
}

func scanEscaped(b []byte) int {
	if len(b) < 2 || b[0] != '\\' {
		return 0
	}
	if !escapable[b[1]] {
		return 0
	}
	return 2
}

func scanDigits(b []byte) int {
	i := 0
	for i < len(b) && isASCIIDigit(b[i]) {
		i++
	}
	return i
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// isSpecial reports whether the byte at b[0] would start a token kind other
// than CHAR_SEQUENCE, so a run of CHAR_SEQUENCE content must stop there.
func isSpecial(b []byte) bool {
	c := b[0]
	if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
		return true
	}
	if isASCIIDigit(c) {
		return true
	}
	if _, ok := punctuation[c]; ok {
		return true
	}
	return false
}

// scanCharSequence scans a maximal run of runes outside all punctuation and
// digits (and whitespace, which is handled by its own token kinds). Returns
// the number of bytes and the number of runes consumed. Next only calls this
// once every special-token check (including the single-byte punctuation
// map, which covers '&' and '\') has failed, so it always consumes at least
// one rune.
func scanCharSequence(b []byte) (nBytes, nRunes int) {
	for nBytes < len(b) {
		if isSpecial(b[nBytes:]) {
			break
		}
		_, size := utf8.DecodeRune(b[nBytes:])
		if size == 0 {
			size = 1
		}
		nBytes += size
		nRunes++
	}
	return nBytes, nRunes
}
