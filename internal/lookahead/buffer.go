// Package lookahead provides an unbounded peek buffer over a token.Source.
// The grammar driver's disambiguation predicates consult it to scan
// arbitrarily far ahead (typically to end-of-line) without ever rewinding
// the underlying tokenizer.
package lookahead

import "github.com/ragodev/mdpapers/internal/token"

// Buffer buffers tokens pulled from an underlying token.Source so that
// Peek(n) can look arbitrarily far ahead of the last consumed token.
type Buffer struct {
	src   *token.Source
	queue []token.Token
}

// New wraps src in a Buffer.
func New(src *token.Source) *Buffer {
	return &Buffer{src: src}
}

// Source returns the raw byte buffer backing the underlying token source,
// for failsafe raw-substring re-emission (see internal/html).
func (b *Buffer) Source() []byte {
	return b.src.Source()
}

// fill ensures at least n+1 tokens are buffered (so Peek(n) is valid).
func (b *Buffer) fill(n int) {
	for len(b.queue) <= n {
		b.queue = append(b.queue, b.src.Next())
	}
}

// Peek returns the token n positions ahead of the next token to be
// consumed (Peek(0) is the same token Next() would return).
func (b *Buffer) Peek(n int) token.Token {
	b.fill(n)
	return b.queue[n]
}

// Next consumes and returns the next token.
func (b *Buffer) Next() token.Token {
	b.fill(0)
	tok := b.queue[0]
	b.queue = b.queue[1:]
	return tok
}
