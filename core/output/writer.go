// Package output handles file naming and writing for rendered recipes.
// Local sources keep their base name (recipes.md → recipes.html); URLs are
// flattened into host_path names (example_com_recipes.html).
package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Stdout is the directory value that sends output to standard output.
const Stdout = "-"

// Writer writes rendered output to disk or a stream.
type Writer struct {
	OutputDir string
	stream    io.Writer
}

// New creates a Writer targeting the given output directory.
// An empty dir means the current working directory; "-" means stdout.
func New(outputDir string) (*Writer, error) {
	if outputDir == Stdout {
		return &Writer{OutputDir: Stdout, stream: os.Stdout}, nil
	}
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// NewStream creates a Writer that copies output to w.
func NewStream(w io.Writer) *Writer {
	return &Writer{OutputDir: Stdout, stream: w}
}

// Write stores data under a name derived from source and returns the path
// written, or "-" for stream writers.
func (w *Writer) Write(source string, data []byte, ext string) (string, error) {
	if w.stream != nil {
		if _, err := w.stream.Write(data); err != nil {
			return "", fmt.Errorf("writing output: %w", err)
		}
		return Stdout, nil
	}

	path := filepath.Join(w.OutputDir, Filename(source)+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename derives an extension-less output name from a source.
// Example: https://example.com/docs/recipes.md → example_com_docs_recipes
func Filename(source string) string {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		parsed, err := url.Parse(source)
		if err != nil {
			return sanitize(source)
		}
		parts := []string{sanitize(parsed.Host)}
		p := strings.Trim(parsed.Path, "/")
		p = strings.TrimSuffix(p, filepath.Ext(p))
		if p != "" {
			for _, seg := range strings.Split(p, "/") {
				parts = append(parts, sanitize(seg))
			}
		}
		return strings.Join(parts, "_")
	}

	base := filepath.Base(strings.TrimPrefix(source, "file://"))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "recipes"
	}
	return sanitize(name)
}

// sanitize replaces characters outside letters, digits, '-' and '_' with
// underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
