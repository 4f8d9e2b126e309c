package main

import (
	"strings"
	"testing"
)

func TestRenderMarkdownBasics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "emphasis",
			input: "this is **important** and *subtle*",
			want:  []string{"<strong>important</strong>", "<em>subtle</em>"},
		},
		{
			name:  "code block",
			input: "```go\nfmt.Println(\"hi\")\n```",
			want:  []string{"<pre>", "<code", "fmt.Println"},
		},
		{
			name:  "link keeps href",
			input: "[docs](https://example.com/docs)",
			want:  []string{`href="https://example.com/docs"`, ">docs</a>"},
		},
		{
			name:  "list",
			input: "- one\n- two",
			want:  []string{"<ul>", "<li>one</li>", "<li>two</li>"},
		},
		{
			name: "gfm table",
			input: "| a | b |\n|---|---|\n| 1 | 2 |",
			want: []string{"<table>", "<td>1</td>"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := renderMarkdown(tc.input)
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("renderMarkdown(%q) = %q, missing %q", tc.input, got, w)
				}
			}
		})
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	got := renderMarkdown("hello <script>alert(1)</script> world")
	if strings.Contains(got, "<script") || strings.Contains(got, "alert(1)") {
		t.Errorf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("surrounding text lost: %q", got)
	}
}

func TestRenderMarkdownStripsEventHandlers(t *testing.T) {
	got := renderMarkdown(`<img src="x" onerror="alert(1)">`)
	if strings.Contains(got, "onerror") {
		t.Errorf("event handler survived sanitization: %q", got)
	}
}
