package server

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
)

// RenderMarkdown converts full markdown to HTML (safe to inject as
// template.HTML). Used for the speaker notes page only; the deck
// fragments go through the subset renderers in internal/render.
func RenderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	_ = goldmark.Convert([]byte(md), &buf)
	return template.HTML(buf.String())
}
