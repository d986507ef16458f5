package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/extract"
	"github.com/gaurav-prasanna/recipecards/core/fetch"
	"github.com/gaurav-prasanna/recipecards/core/normalize"
	"github.com/gaurav-prasanna/recipecards/core/parse"
)

type stubFetcher struct {
	result *core.FetchResult
	err    error
}

func (s stubFetcher) Fetch(_ context.Context, source string) (*core.FetchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	r.Source = source
	return &r, nil
}

func testOptions() Options {
	return Options{
		Extractor:  extract.New(),
		Normalizer: normalize.New(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:        func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestLoad_Markdown(t *testing.T) {
	f := stubFetcher{result: &core.FetchResult{
		ContentType: "text/markdown",
		Body:        "# Soup\n## Ингредиенты:\n- Water\n---\n# Tea\n",
	}}

	res, err := New(f, parse.New(), testOptions()).Load(context.Background(), "recipes.md")

	require.NoError(t, err)
	require.Len(t, res.Recipes, 2)
	assert.Equal(t, []string{"Water"}, res.Recipes[0].Ingredients)
	assert.Equal(t, core.Document{
		Source:      "recipes.md",
		ContentType: "text/markdown",
		FetchedAt:   "2024-05-01T12:00:00Z",
		Count:       2,
	}, res.Document)
}

func TestLoad_HTMLSource(t *testing.T) {
	f := stubFetcher{result: &core.FetchResult{
		ContentType: "text/html",
		Body: `<html><body><nav>menu</nav><article>
<h1>Soup</h1><p>Дата: 2024-01-01</p>
<h2>Ингредиенты:</h2><ul><li>Water</li><li>Salt</li></ul>
<h2>Способ приготовления:</h2><ol><li>Boil water</li><li>Add salt</li></ol>
<hr><h1>Tea</h1>
</article></body></html>`,
	}}

	res, err := New(f, parse.New(), testOptions()).Load(context.Background(), "https://example.com/recipes")

	require.NoError(t, err)
	require.Len(t, res.Recipes, 2)
	assert.Equal(t, core.Recipe{
		Title:        "Soup",
		Date:         "2024-01-01",
		Ingredients:  []string{"Water", "Salt"},
		Instructions: []string{"Boil water", "Add salt"},
	}, res.Recipes[0])
	assert.Equal(t, "Tea", res.Recipes[1].Title)
}

func TestLoad_NoRecipes(t *testing.T) {
	f := stubFetcher{result: &core.FetchResult{Body: "just some notes"}}

	res, err := New(f, parse.New(), testOptions()).Load(context.Background(), "recipes.md")

	require.ErrorIs(t, err, core.ErrNoRecipes)
	require.NotNil(t, res)
	assert.Empty(t, res.Recipes)
	assert.Equal(t, 0, res.Document.Count)
}

func TestLoad_FetchError(t *testing.T) {
	f := stubFetcher{err: &fetch.StatusError{URL: "http://x/recipes.md", StatusCode: 404}}

	res, err := New(f, parse.New(), testOptions()).Load(context.Background(), "http://x/recipes.md")

	assert.Nil(t, res)
	var statusErr *fetch.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 404, statusErr.StatusCode)
}

func TestLoad_HTMLWithoutImporters(t *testing.T) {
	f := stubFetcher{result: &core.FetchResult{Body: "<h1>Soup</h1>"}}
	opts := testOptions()
	opts.FromHTML = true
	opts.Extractor = nil

	_, err := New(f, parse.New(), opts).Load(context.Background(), "page.txt")
	assert.Error(t, err)
}

func TestUserMessage(t *testing.T) {
	noRecipes := UserMessage(errors.New("wrapped: "+core.ErrNoRecipes.Error()), "recipes.md")
	assert.Contains(t, noRecipes, "Не удалось загрузить рецепты")

	assert.Equal(t, "Рецепты не найдены в файле recipes.md",
		UserMessage(core.ErrNoRecipes, "recipes.md"))

	msg := UserMessage(errors.New("fetch: connection refused"), "recipes.md")
	assert.Equal(t, "Не удалось загрузить рецепты: fetch: connection refused. Убедитесь, что файл recipes.md существует и запущен через локальный сервер.", msg)

	statusErr := fmt.Errorf("fetch: %w", &fetch.StatusError{URL: "http://x/recipes.md", StatusCode: 404})
	assert.Equal(t, "Не удалось загрузить рецепты: Ошибка загрузки: 404. Убедитесь, что файл http://x/recipes.md существует и запущен через локальный сервер.",
		UserMessage(statusErr, "http://x/recipes.md"))
}
