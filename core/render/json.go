// Package render — JSON renderer.
// Emits the parsed recipes together with the document metadata.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/recipecards/core"
)

// RecipesJSON is the complete JSON output for one document.
type RecipesJSON struct {
	core.Document
	Recipes []core.Recipe `json:"recipes"`
}

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the recipes. A nil slice is encoded as [].
func (r *JSONRenderer) Render(recipes []core.Recipe, doc core.Document) ([]byte, error) {
	if recipes == nil {
		recipes = []core.Recipe{}
	}
	doc.Count = len(recipes)

	data, err := json.MarshalIndent(RecipesJSON{Document: doc, Recipes: recipes}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
