package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"recipes.md":                            "recipes",
		"./data/my recipes.md":                  "my_recipes",
		"file:///srv/site/recipes.markdown":     "recipes",
		"https://example.com/recipes.md":        "example_com_recipes",
		"https://example.com/docs/cook/list.md": "example_com_docs_cook_list",
		"https://example.com":                   "example_com",
		"":                                      "recipes",
	}
	for source, want := range cases {
		assert.Equal(t, want, Filename(source), source)
	}
}

func TestWriter_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("recipes.md", []byte("<html>"), ".html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "recipes.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data))
}

func TestWriter_Stream(t *testing.T) {
	var buf bytes.Buffer
	path, err := NewStream(&buf).Write("recipes.md", []byte("{}"), ".json")

	require.NoError(t, err)
	assert.Equal(t, Stdout, path)
	assert.Equal(t, "{}", buf.String())
}
