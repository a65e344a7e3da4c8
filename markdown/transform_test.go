package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragodev/mdpapers/markdown"
)

// TestLiteralScenarios exercises the whitespace-normalized input/output
// pairs from the grammar's testable-properties scenarios: headers (ATX and
// setext), blockquotes, tight and loose lists, reference-style links,
// indented code, and nested emphasis.
func TestLiteralScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "atx header",
			in:   "# Hello",
			want: "<h1>Hello</h1>\n",
		},
		{
			name: "setext header level 1",
			in:   "Hello\n=====",
			want: "<h1>Hello</h1>\n",
		},
		{
			name: "blockquote joins lines",
			in:   "> a\n> b",
			want: "<blockquote>\n<p>a\nb</p>\n</blockquote>\n",
		},
		{
			name: "tight list",
			in:   "- a\n- b",
			want: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n",
		},
		{
			name: "loose list",
			in:   "- a\n\n- b",
			want: "<ul>\n<li><p>a</p>\n</li>\n<li><p>b</p>\n</li>\n</ul>\n",
		},
		{
			name: "reference link with title",
			in:   "[foo][1]\n\n[1]: http://x \"t\"",
			want: "<p><a href=\"http://x\" title=\"t\">foo</a></p>\n",
		},
		{
			name: "indented code block",
			in:   "    code\n    more",
			want: "<pre><code>code\nmore</code></pre>\n",
		},
		{
			name: "bold and italic",
			in:   "***bold italic***",
			want: "<p><strong><em>bold italic</em></strong></p>\n",
		},
		{
			name: "hard line break joins lines",
			in:   "a  \nb",
			want: "<p>a<br/>b</p>\n",
		},
		{
			name: "nested blockquote",
			in:   "> a\n> > b",
			want: "<blockquote>\n<p>a</p>\n<blockquote>\n<p>b</p>\n</blockquote>\n</blockquote>\n",
		},
		{
			name: "list inside blockquote",
			in:   "> - a\n> - b",
			want: "<blockquote>\n<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n</blockquote>\n",
		},
		{
			name: "nested list",
			in:   "- a\n  - b",
			want: "<ul>\n<li>a<ul>\n<li>b</li>\n</ul>\n</li>\n</ul>\n",
		},
		{
			name: "html passthrough line keeps no paragraph wrapper",
			in:   "<div>hi</div>",
			want: "<div>hi</div>",
		},
		{
			name: "inline image with title",
			in:   `![alt](http://img "t")`,
			want: "<p><img src=\"http://img\" alt=\"alt\" title=\"t\"/></p>\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := markdown.TransformString(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEscaping(t *testing.T) {
	got, err := markdown.TransformString(`A & B < C > D "E"`)
	require.NoError(t, err)
	assert.Contains(t, got, "A &amp; B &lt; C &gt; D &quot;E&quot;")
}

func TestEntityPassesThroughUnescaped(t *testing.T) {
	got, err := markdown.TransformString("&amp; &#169; &#x1F;")
	require.NoError(t, err)
	assert.Contains(t, got, "&amp; &#169; &#x1F;")
}

func TestUnresolvedReferenceFallsBackToBracketSyntax(t *testing.T) {
	got, err := markdown.TransformString("[foo][missing]")
	require.NoError(t, err)
	assert.Contains(t, got, "[foo][missing]")
}

func TestHorizontalRuleInParagraphHasNoWrapper(t *testing.T) {
	got, err := markdown.TransformString("<hr>")
	require.NoError(t, err)
	assert.Equal(t, "<hr/>\n", got)
}
