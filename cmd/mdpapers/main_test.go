package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesRenderedHTML(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.md")
	outPath := filepath.Join(dir, "out.html")

	require.NoError(t, os.WriteFile(inPath, []byte("# Hello\n"), 0o644))

	logger := newLogger("error")
	require.NoError(t, run(logger, inPath, outPath))

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1>\n", string(got))
}

func TestRunReportsParseErrorWithPosition(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.md")
	outPath := filepath.Join(dir, "out.html")

	// An unterminated code span never finds its closing backtick, which
	// the grammar surfaces as a ParseError rather than looping forever.
	require.NoError(t, os.WriteFile(inPath, []byte("`unterminated"), 0o644))

	logger := newLogger("error")
	err := run(logger, inPath, outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), inPath)
}
