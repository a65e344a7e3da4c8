// Package markdown is the entry façade over the core: Transform reads a
// complete Markdown document from a source and writes the HTML it renders
// to a sink, composing internal/token (by way of internal/parser) with
// internal/html. It is the one exported package outside internal/ and
// cmd/.
package markdown

import (
	"io"
	"strings"

	"github.com/ragodev/mdpapers/internal/html"
	"github.com/ragodev/mdpapers/internal/parser"
)

// ParseError is re-exported so callers can type-assert on the error
// Transform returns without importing internal/parser directly.
type ParseError = parser.ParseError

// Transform reads the entire Markdown document from source, parses it with
// the hand-written recursive-descent grammar, and writes the rendered HTML
// to sink. It is total on any byte sequence the tokenizer accepts: it
// either writes HTML and returns nil, or returns a *ParseError describing
// the first production that failed to match. I/O failures on source or
// sink propagate as-is.
func Transform(source io.Reader, sink io.Writer) error {
	buf, err := io.ReadAll(source)
	if err != nil {
		return err
	}

	doc, _, err := parser.New(buf).Parse()
	if err != nil {
		return err
	}

	out := html.Render(doc)
	_, err = io.WriteString(sink, out)
	return err
}

// TransformString is a convenience wrapper over Transform for callers that
// already hold the source as a string (tests, REPL-style callers) and want
// the rendered HTML back as a string rather than wiring an io.Writer.
func TransformString(source string) (string, error) {
	var sb strings.Builder
	if err := Transform(strings.NewReader(source), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
