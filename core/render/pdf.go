// Package render — PDF renderer.
// Renders a cookbook with gofpdf, one recipe per page, headings in the
// theme accent colour. The core PDF fonts only cover cp1252: without a
// UTF-8 TrueType font in FontPath the section headings fall back to English
// and recipe text outside cp1252 is rejected.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/theme"
	"github.com/jung-kurt/gofpdf"
)

const utf8Family = "recipe"

// sectionLabels are the per-recipe section headings.
type sectionLabels struct {
	ingredients  string
	instructions string
}

var (
	utf8Labels = sectionLabels{ingredients: "Ингредиенты:", instructions: "Способ приготовления:"}
	coreLabels = sectionLabels{ingredients: "Ingredients:", instructions: "Instructions:"}
)

// PDFRenderer renders recipes as a PDF document.
type PDFRenderer struct {
	Theme    theme.Theme
	FontPath string // optional .ttf with Cyrillic glyphs
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer(t theme.Theme, fontPath string) *PDFRenderer {
	return &PDFRenderer{Theme: t, FontPath: fontPath}
}

// Render converts recipes into PDF bytes.
func (r *PDFRenderer) Render(recipes []core.Recipe, doc core.Document) ([]byte, error) {
	if len(recipes) == 0 {
		return nil, fmt.Errorf("%w in %s", core.ErrNoRecipes, doc.Source)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Рецепты", true)

	family, tr, labels := "Helvetica", pdf.UnicodeTranslatorFromDescriptor(""), coreLabels
	if r.FontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", r.FontPath)
		pdf.AddUTF8Font(utf8Family, "B", r.FontPath)
		family, tr, labels = utf8Family, func(s string) string { return s }, utf8Labels
	} else if err := checkEncodable(recipes, tr); err != nil {
		return nil, err
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("loading font %s: %w", r.FontPath, err)
	}

	ar, ag, ab := r.Theme.RGB()
	for _, rec := range recipes {
		pdf.AddPage()

		pdf.SetFont(family, "B", 18)
		pdf.SetTextColor(ar, ag, ab)
		pdf.MultiCell(0, 9, tr(rec.Title), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		if rec.Date != "" {
			pdf.SetFont(family, "", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.MultiCell(0, 5, tr(rec.Date), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(4)

		renderSection(pdf, family, tr, labels.ingredients, rec.Ingredients, func(int) string { return "• " })
		renderSection(pdf, family, tr, labels.instructions, rec.Instructions, func(i int) string {
			return strconv.Itoa(i+1) + ". "
		})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// checkEncodable fails on the first recipe text the cp1252 translator would
// replace with '.'.
func checkEncodable(recipes []core.Recipe, tr func(string) string) error {
	for _, rec := range recipes {
		texts := append([]string{rec.Title, rec.Date}, rec.Ingredients...)
		texts = append(texts, rec.Instructions...)
		for _, text := range texts {
			for _, ch := range text {
				if ch != '.' && tr(string(ch)) == "." {
					return fmt.Errorf("recipe %q: %q has no cp1252 glyph; pass a UTF-8 TrueType font with --font", rec.Title, ch)
				}
			}
		}
	}
	return nil
}

func renderSection(pdf *gofpdf.Fpdf, family string, tr func(string) string, heading string, items []string, marker func(int) string) {
	pdf.SetFont(family, "B", 13)
	pdf.MultiCell(0, 7, tr(heading), "", "L", false)
	pdf.Ln(1)

	pdf.SetFont(family, "", 10)
	for i, item := range items {
		pdf.MultiCell(0, 5, tr(marker(i)+cleanInlineMarkdown(item)), "", "L", false)
	}
	pdf.Ln(4)
}

var (
	italicRegex     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	linkTextRegex   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "~~", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkTextRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
