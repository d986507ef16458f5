// Package parse implements the Parser interface for the recipe notation.
//
// A document is a sequence of blocks separated by "---". Inside a block each
// trimmed line is matched against a fixed set of prefixes:
//
//	# <title>
//	Дата: <date>
//	## Ингредиенты:
//	- <ingredient>
//	## Способ приготовления:
//	1. <instruction>
//
// Unrecognized lines are dropped and blocks without a title are skipped, so
// parsing never fails.
package parse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/recipecards/core"
)

const (
	blockDelimiter     = "---"
	titlePrefix        = "# "
	datePrefix         = "Дата:"
	ingredientsHeading = "## Ингредиенты:"
	instructionsHead   = "## Способ приготовления:"
	bulletPrefix       = "- "

	// dateOffset counts characters, not bytes: the label plus one separator.
	dateOffset = 6
)

var (
	numberedLine   = regexp.MustCompile(`^\d+\.`)
	numberedPrefix = regexp.MustCompile(`^\d+\.[\s\p{Z}\x{FEFF}]*`)
)

// section tracks which list the following lines belong to.
type section int

const (
	sectionNone section = iota
	sectionIngredients
	sectionInstructions
)

// RecipeParser parses recipe notation. It holds no state between calls.
type RecipeParser struct{}

// New creates a RecipeParser.
func New() *RecipeParser {
	return &RecipeParser{}
}

// Parse converts the full text of a document into recipes in block order.
// The result is never nil.
func (p *RecipeParser) Parse(text string) []core.Recipe {
	recipes := []core.Recipe{}

	for _, block := range strings.Split(text, blockDelimiter) {
		block = trim(block)
		if block == "" {
			continue
		}
		if recipe, ok := parseBlock(block); ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes
}

// parseBlock scans one block. ok is false when the block has no title.
func parseBlock(block string) (core.Recipe, bool) {
	recipe := core.Recipe{
		Ingredients:  []string{},
		Instructions: []string{},
	}
	current := sectionNone

	for _, line := range strings.Split(block, "\n") {
		line = trim(line)

		switch {
		case strings.HasPrefix(line, titlePrefix):
			recipe.Title = line[len(titlePrefix):]
		case strings.HasPrefix(line, datePrefix):
			recipe.Date = skipChars(line, dateOffset)
		case strings.HasPrefix(line, ingredientsHeading):
			current = sectionIngredients
		case strings.HasPrefix(line, instructionsHead):
			current = sectionInstructions
		case strings.HasPrefix(line, bulletPrefix) && current == sectionIngredients:
			recipe.Ingredients = append(recipe.Ingredients, line[len(bulletPrefix):])
		case numberedLine.MatchString(line) && current == sectionInstructions:
			recipe.Instructions = append(recipe.Instructions, numberedPrefix.ReplaceAllString(line, ""))
		}
	}

	return recipe, recipe.Title != ""
}

// trim strips Unicode white space and stray byte order marks from both ends.
// U+0085 is kept: it is not white space in the notation.
func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return r == '\ufeff' || (unicode.IsSpace(r) && r != '\u0085')
}

// skipChars returns s without its first n characters (runes).
func skipChars(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
