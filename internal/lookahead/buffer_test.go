package lookahead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragodev/mdpapers/internal/token"
)

func TestPeekDoesNotConsume(t *testing.T) {
	buf := New(token.NewSource([]byte("ab")))

	first := buf.Peek(0)
	require.Equal(t, token.CharSequence, first.Kind)
	assert.Equal(t, "ab", first.Literal)

	// Peeking further ahead must not disturb what Peek(0) already reported.
	eof := buf.Peek(1)
	assert.Equal(t, token.EOF, eof.Kind)
	assert.Equal(t, first, buf.Peek(0))
}

func TestNextConsumesInOrder(t *testing.T) {
	buf := New(token.NewSource([]byte("a*b")))

	assert.Equal(t, token.CharSequence, buf.Next().Kind)
	assert.Equal(t, token.Star, buf.Next().Kind)
	assert.Equal(t, token.CharSequence, buf.Next().Kind)
	assert.Equal(t, token.EOF, buf.Next().Kind)
}

func TestPeekAheadOfNextConsumed(t *testing.T) {
	buf := New(token.NewSource([]byte("a*b")))

	// Peek arbitrarily far ahead before consuming anything.
	assert.Equal(t, token.CharSequence, buf.Peek(2).Kind)

	assert.Equal(t, token.CharSequence, buf.Next().Kind)
	assert.Equal(t, token.Star, buf.Next().Kind)
	assert.Equal(t, token.CharSequence, buf.Next().Kind)
}

func TestSourceExposesUnderlyingBuffer(t *testing.T) {
	buf := New(token.NewSource([]byte("hello")))
	assert.Equal(t, []byte("hello"), buf.Source())
}
