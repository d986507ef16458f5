package fetch

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_HTTP(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte("# Soup\n"))
	}))
	defer srv.Close()

	f := New(WithUserAgent("test-agent"))
	res, err := f.Fetch(context.Background(), srv.URL+"/recipes.md")

	require.NoError(t, err)
	assert.Equal(t, "# Soup\n", res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/markdown", res.ContentType)
	assert.Equal(t, "test-agent", gotUA)
}

func TestFetch_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL+"/recipes.md")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Tea\n"), 0o644))

	for _, source := range []string{path, "file://" + filepath.ToSlash(path)} {
		res, err := New().Fetch(context.Background(), source)
		require.NoError(t, err, source)
		assert.Equal(t, "# Tea\n", res.Body)
		assert.Equal(t, "text/markdown", res.ContentType)
		assert.Equal(t, source, res.Source)
	}
}

func TestFetch_MissingFile(t *testing.T) {
	_, err := New().Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.md"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "", LocalPath("https://example.com/recipes.md"))
	assert.Equal(t, "recipes.md", LocalPath("recipes.md"))
	assert.Equal(t, filepath.FromSlash("/tmp/recipes.md"), LocalPath("file:///tmp/recipes.md"))
}

func TestContentTypeForPath(t *testing.T) {
	assert.Equal(t, "text/html", contentTypeForPath("page.HTML"))
	assert.Equal(t, "text/markdown", contentTypeForPath("r.markdown"))
	assert.Equal(t, "text/plain", contentTypeForPath("r.txt"))
}
