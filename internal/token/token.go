package token

import "github.com/yuin/goldmark/text"

// Token is a single classified lexeme: its kind, the literal source
// substring it spans, and its (line, beginColumn, endColumn). Columns are
// zero-based and count expanded tab stops are left to the caller (see
// TabWidth) since the tokenizer itself reports raw source columns.
type Token struct {
	Kind        Kind
	Literal     string
	Line        int
	BeginColumn int
	EndColumn   int

	// Span is the token's byte range within the source, reusing goldmark's
	// text.Segment so downstream code (and the code-text tab expander) can
	// slice the original buffer without re-deriving offsets from Line/Column.
	Span text.Segment
}

// Value re-extracts the token's literal text from source using its Span.
func (t Token) Value(source []byte) string {
	return string(t.Span.Value(source))
}

// IsWhitespace reports whether the token is one of SPACE, TAB or EOL.
func (t Token) IsWhitespace() bool {
	return t.Kind == Space || t.Kind == Tab || t.Kind == EOL
}
