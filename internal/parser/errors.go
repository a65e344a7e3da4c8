package parser

import "fmt"

// ParseError is raised when no grammar production matches at the current
// position and no recovery is specified. It carries the source position so
// callers can report a useful diagnostic.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markdown: parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

func newParseError(line, column int, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
