// Package pipeline loads a recipe source end to end:
// fetch → (extract → normalize, for HTML sources) → parse.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/fetch"
	"github.com/gaurav-prasanna/recipecards/core/logging"
	"github.com/gaurav-prasanna/recipecards/core/metrics"
	"github.com/gaurav-prasanna/recipecards/core/render"
)

// Options tunes a Pipeline. Zero values are usable.
type Options struct {
	// FromHTML forces the HTML import path regardless of content type.
	FromHTML   bool
	Extractor  core.Extractor
	Normalizer core.Normalizer
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
	// Now is used for Document.FetchedAt; defaults to time.Now.
	Now func() time.Time
}

// Result is a loaded document.
type Result struct {
	Recipes  []core.Recipe
	Document core.Document
}

// Pipeline wires the stages together.
type Pipeline struct {
	fetcher core.Fetcher
	parser  core.Parser
	opts    Options
}

// New creates a Pipeline.
func New(fetcher core.Fetcher, parser core.Parser, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{fetcher: fetcher, parser: parser, opts: opts}
}

// Load fetches and parses source. When the document has no recipes the
// result is still returned, together with an error wrapping core.ErrNoRecipes.
func (p *Pipeline) Load(ctx context.Context, source string) (*Result, error) {
	log := p.opts.Logger.With(logging.Source(source))

	fetched, err := p.fetcher.Fetch(ctx, source)
	p.opts.Metrics.ObserveFetch(err)
	if err != nil {
		log.Error("fetch failed", logging.Error(err))
		return nil, fmt.Errorf("fetch: %w", err)
	}

	text := fetched.Body
	if p.opts.FromHTML || fetched.ContentType == "text/html" {
		text, err = p.importHTML(text)
		if err != nil {
			log.Error("html import failed", logging.Error(err))
			return nil, err
		}
		log.Debug("imported html source")
	}

	recipes := p.parser.Parse(text)
	p.opts.Metrics.ObserveParse(len(recipes))
	log.Debug("parsed document", logging.Count(len(recipes)))

	res := &Result{
		Recipes: recipes,
		Document: core.Document{
			Source:      source,
			ContentType: fetched.ContentType,
			FetchedAt:   p.opts.Now().UTC().Format(time.RFC3339),
			Count:       len(recipes),
		},
	}
	if len(recipes) == 0 {
		log.Warn("no recipes found")
		return res, fmt.Errorf("%w in %s", core.ErrNoRecipes, source)
	}
	return res, nil
}

func (p *Pipeline) importHTML(html string) (string, error) {
	if p.opts.Extractor == nil || p.opts.Normalizer == nil {
		return "", fmt.Errorf("html import: extractor and normalizer are required")
	}
	content, err := p.opts.Extractor.Extract(html)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	markdown, err := p.opts.Normalizer.Normalize(content)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}
	return markdown, nil
}

// UserMessage turns a Load error into the message shown on the card page.
func UserMessage(err error, source string) string {
	if errors.Is(err, core.ErrNoRecipes) {
		return render.NoRecipesMessage(source)
	}
	var reason any = err
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		reason = fmt.Sprintf("Ошибка загрузки: %d", statusErr.StatusCode)
	}
	return fmt.Sprintf("Не удалось загрузить рецепты: %v. Убедитесь, что файл %s существует и запущен через локальный сервер.", reason, source)
}
