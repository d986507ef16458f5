// Package extract implements the Extractor interface.
// It isolates the recipe content of an HTML page (for example a rendered
// recipes.md on a code host) by:
//  1. Removing noise elements (scripts, navigation, forms, media)
//  2. Keeping the best content container (.markdown-body, article, main, body)
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelectors are removed before the container is chosen.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header", "aside",
	"img", "picture", "figure", "svg", "video", "audio", "iframe",
	"form", "button", "input", "select", "textarea",
	".theme-switcher", ".anchor", ".octicon",
}

// containerSelectors are tried in priority order.
var containerSelectors = []string{".markdown-body", "article", "main", "body"}

// HTMLExtractor strips noise from HTML and returns the recipe fragment.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses html and returns the inner HTML of the best container.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, sel := range containerSelectors {
		found := doc.Find(sel)
		if found.Length() == 0 {
			continue
		}
		inner, err := found.First().Html()
		if err != nil {
			return "", fmt.Errorf("serializing %s: %w", sel, err)
		}
		return inner, nil
	}

	return "", fmt.Errorf("no content container found in HTML")
}
