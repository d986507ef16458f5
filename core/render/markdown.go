// Package render — Markdown renderer.
// Writes recipes back in the canonical recipe notation. Output parses back
// to the same records.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/recipecards/core"
)

// MarkdownRenderer serializes recipes as recipe notation.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render joins one block per recipe with "---" lines. Instructions are
// renumbered from 1 and empty sections are omitted.
func (r *MarkdownRenderer) Render(recipes []core.Recipe, _ core.Document) ([]byte, error) {
	blocks := make([]string, 0, len(recipes))
	for _, rec := range recipes {
		blocks = append(blocks, formatRecipe(rec))
	}
	return []byte(strings.Join(blocks, "\n---\n\n")), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func formatRecipe(rec core.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", rec.Title)
	if rec.Date != "" {
		fmt.Fprintf(&b, "Дата: %s\n", rec.Date)
	}
	if len(rec.Ingredients) > 0 {
		b.WriteString("\n## Ингредиенты:\n")
		for _, ing := range rec.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
	}
	if len(rec.Instructions) > 0 {
		b.WriteString("\n## Способ приготовления:\n")
		for i, step := range rec.Instructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	return b.String()
}
