package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/fetch"
	"github.com/gaurav-prasanna/recipecards/core/metrics"
	"github.com/gaurav-prasanna/recipecards/core/parse"
	"github.com/gaurav-prasanna/recipecards/core/pipeline"
	"github.com/gaurav-prasanna/recipecards/core/theme"
)

const recipesMD = "# Soup\nДата: 2024-01-01\n## Ингредиенты:\n- Water\n- Salt\n## Способ приготовления:\n1. Boil water\n2. Add salt\n---\n# Tea\n"

func newTestServer(t *testing.T, content string) (*httptest.Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.md")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prom.NewRegistry()
	rec := metrics.NewRecorder(reg)
	p := pipeline.New(fetch.New(), parse.New(), pipeline.Options{Metrics: rec, Logger: logger})
	blue, _ := theme.Lookup("blue")

	srv := New(p, Config{
		Source:   path,
		Theme:    blue,
		Metrics:  rec,
		Gatherer: reg,
		Logger:   logger,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, path
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPage(t *testing.T) {
	ts, _ := newTestServer(t, recipesMD)

	resp, body := get(t, ts.URL+"/")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find(".recipe-card").Length())
	class, _ := doc.Find("html").Attr("class")
	assert.Equal(t, "theme-blue", class)
}

func TestPage_ReloadsSource(t *testing.T) {
	ts, path := newTestServer(t, recipesMD)
	require.NoError(t, os.WriteFile(path, []byte("# Only\n"), 0o644))

	_, body := get(t, ts.URL+"/recipes")

	var out struct {
		Count   int           `json:"count"`
		Recipes []core.Recipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "Only", out.Recipes[0].Title)
}

func TestPage_NoRecipes(t *testing.T) {
	ts, path := newTestServer(t, "nothing here")

	resp, body := get(t, ts.URL+"/")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Рецепты не найдены в файле "+path)
}

func TestPage_MissingSource(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, body := get(t, ts.URL+"/")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Не удалось загрузить рецепты")
}

func TestRecipes_EmptyIsOK(t *testing.T) {
	ts, _ := newTestServer(t, "nothing here")

	resp, body := get(t, ts.URL+"/recipes")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"recipes": []`)
}

func TestRecipeByIndex(t *testing.T) {
	ts, _ := newTestServer(t, recipesMD)

	resp, body := get(t, ts.URL+"/recipes/0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec core.Recipe
	require.NoError(t, json.Unmarshal([]byte(body), &rec))
	assert.Equal(t, "Soup", rec.Title)
	assert.Equal(t, []string{"Boil water", "Add salt"}, rec.Instructions)

	resp, _ = get(t, ts.URL+"/recipes/5")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/recipes/abc")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMarkdownView(t *testing.T) {
	ts, _ := newTestServer(t, "#   Soup  \n1. ignored\n")

	resp, body := get(t, ts.URL+"/recipes.md")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "#   Soup\n", body)
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t, recipesMD)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	get(t, ts.URL+"/")
	_, body = get(t, ts.URL+"/metrics")
	assert.Contains(t, body, "recipecards_recipes_parsed_total 2")
	assert.Contains(t, body, `recipecards_fetch_total{result="ok"} 1`)
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t, recipesMD)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/recipes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://cards.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagated(t *testing.T) {
	ts, _ := newTestServer(t, recipesMD)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(&fetch.StatusError{StatusCode: 500}))
	assert.Equal(t, http.StatusNotFound, statusFor(core.ErrNoRecipes))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
