package main

import (
	"bytes"
	"html"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
	htmlPolicy       = bluemonday.UGCPolicy()
)

// renderMarkdown converts model output to sanitized HTML. The client
// inserts this into the page verbatim, so everything goes through the
// bluemonday policy. On a conversion failure the raw text is escaped
// and returned as-is.
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(content), &buf); err != nil {
		log.Printf("[markdown] conversion failed: %v", err)
		return html.EscapeString(content)
	}
	return string(htmlPolicy.SanitizeBytes(buf.Bytes()))
}
