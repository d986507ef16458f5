package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// inlineMarkdown renders emphasis, code spans, links and strikethrough.
// Raw HTML is not passed through.
var inlineMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

// renderInline converts one line of recipe text to HTML. Text that goldmark
// would turn into anything but a single paragraph is escaped verbatim.
func renderInline(text string) template.HTML {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := inlineMarkdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}

	out := strings.TrimSpace(buf.String())
	inner, ok := strings.CutPrefix(out, "<p>")
	if ok {
		inner, ok = strings.CutSuffix(inner, "</p>")
	}
	if !ok || strings.Contains(inner, "<p>") {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(inner)
}
