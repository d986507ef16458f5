// Package core defines the pipeline interfaces and data types for recipecards.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"errors"
)

// ErrNoRecipes is returned when a document parses to zero recipes.
var ErrNoRecipes = errors.New("no recipes found")

// Recipe is a single parsed recipe block.
type Recipe struct {
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// FetchResult holds the raw body and response metadata of a loaded source.
type FetchResult struct {
	Source      string
	StatusCode  int
	ContentType string
	Body        string
}

// Document holds metadata about the source the recipes were parsed from.
type Document struct {
	Source      string `json:"source"`
	ContentType string `json:"content_type,omitempty"`
	FetchedAt   string `json:"fetched_at"` // RFC3339
	Count       int    `json:"count"`
}

// Fetcher retrieves the raw text of a recipe source (URL or local path).
type Fetcher interface {
	Fetch(ctx context.Context, source string) (*FetchResult, error)
}

// Parser turns recipe notation into records. Implementations never fail.
type Parser interface {
	Parse(text string) []Recipe
}

// Extractor pulls the main content from raw HTML, stripping noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts cleaned HTML into recipe Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Renderer converts parsed recipes into a final output format.
type Renderer interface {
	Render(recipes []Recipe, doc Document) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".pdf").
	Extension() string
}
