// Package theme holds the colour themes offered by the card page switcher.
package theme

import (
	"strconv"
	"strings"
)

// Theme is one entry of the switcher. Class is applied to the <html> element;
// the default theme has an empty class.
type Theme struct {
	Name   string
	Class  string
	Accent string // CSS hex colour, e.g. "#4caf50"
	Light  string // background tint for cards
}

// catalog is kept in switcher order.
var catalog = []Theme{
	{Name: "Зеленая", Class: "", Accent: "#4caf50", Light: "#f1f8e9"},
	{Name: "Синяя", Class: "theme-blue", Accent: "#2196f3", Light: "#e3f2fd"},
	{Name: "Фиолетовая", Class: "theme-purple", Accent: "#9c27b0", Light: "#f3e5f5"},
	{Name: "Оранжевая", Class: "theme-orange", Accent: "#ff9800", Light: "#fff3e0"},
}

// All returns the themes in switcher order.
func All() []Theme {
	out := make([]Theme, len(catalog))
	copy(out, catalog)
	return out
}

// Default returns the green theme.
func Default() Theme {
	return catalog[0]
}

// Lookup finds a theme by display name, class or short key ("blue" for
// "theme-blue", "green" for the default). Matching is case-insensitive.
// An empty key resolves to the default theme.
func Lookup(key string) (Theme, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == "green" {
		return Default(), true
	}
	for _, t := range catalog {
		if key == strings.ToLower(t.Name) || (t.Class != "" && (key == t.Class || "theme-"+key == t.Class)) {
			return t, true
		}
	}
	return Theme{}, false
}

// RGB converts the accent colour into 0-255 components.
// Malformed colours yield black.
func (t Theme) RGB() (r, g, b int) {
	hex := strings.TrimPrefix(t.Accent, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v>>16) & 0xff, int(v>>8) & 0xff, int(v) & 0xff
}
