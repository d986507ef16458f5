// Package normalize implements the Normalizer interface.
// It turns an HTML fragment back into recipe notation: <hr> becomes the
// "---" block delimiter and unordered list items become "- " bullets.
package normalize

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// MarkdownNormalizer converts HTML to recipe Markdown using html-to-markdown.
type MarkdownNormalizer struct {
	conv *converter.Converter
}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithHorizontalRule("---"),
					commonmark.WithBulletListMarker("-"),
				),
			),
		),
	}
}

// Normalize converts a cleaned HTML fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	markdown, err := n.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
