// Package render — HTML renderer.
// Produces a standalone page with one card per recipe and a fixed theme
// switcher in the top-right corner.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gaurav-prasanna/recipecards/core"
	"github.com/gaurav-prasanna/recipecards/core/theme"
)

// NoRecipesMessage is shown when a document contains no recipes.
func NoRecipesMessage(source string) string {
	return fmt.Sprintf("Рецепты не найдены в файле %s", source)
}

// HTMLRenderer renders recipes as themed cards.
type HTMLRenderer struct {
	Theme theme.Theme
	Title string
}

// NewHTMLRenderer creates an HTMLRenderer starting in the given theme.
func NewHTMLRenderer(t theme.Theme) *HTMLRenderer {
	return &HTMLRenderer{Theme: t, Title: "Рецепты"}
}

type cardView struct {
	Title        template.HTML
	Date         template.HTML
	Ingredients  []template.HTML
	Instructions []template.HTML
}

type pageView struct {
	Title  string
	Theme  theme.Theme
	Themes []theme.Theme
	Cards  []cardView
	Error  string
	Source string
}

// Render builds the card page. Zero recipes renders the not-found message.
func (r *HTMLRenderer) Render(recipes []core.Recipe, doc core.Document) ([]byte, error) {
	if len(recipes) == 0 {
		return r.RenderError(NoRecipesMessage(doc.Source))
	}

	cards := make([]cardView, 0, len(recipes))
	for _, rec := range recipes {
		cards = append(cards, newCardView(rec))
	}
	return r.execute(pageView{Cards: cards, Source: doc.Source})
}

// RenderError builds the page with only the error box visible.
func (r *HTMLRenderer) RenderError(message string) ([]byte, error) {
	return r.execute(pageView{Error: message})
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

func (r *HTMLRenderer) execute(view pageView) ([]byte, error) {
	view.Title = r.Title
	view.Theme = r.Theme
	view.Themes = theme.All()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

func newCardView(rec core.Recipe) cardView {
	v := cardView{
		Title: renderInline(rec.Title),
		Date:  renderInline(rec.Date),
	}
	for _, ing := range rec.Ingredients {
		v.Ingredients = append(v.Ingredients, renderInline(ing))
	}
	for _, step := range rec.Instructions {
		v.Instructions = append(v.Instructions, renderInline(step))
	}
	return v
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ru"{{with .Theme.Class}} class="{{.}}"{{end}}>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { --accent: {{(index .Themes 0).Accent}}; --light: {{(index .Themes 0).Light}}; }
{{range .Themes}}{{if .Class}}html.{{.Class}} { --accent: {{.Accent}}; --light: {{.Light}}; }
{{end}}{{end -}}
body { font-family: system-ui, sans-serif; margin: 0; padding: 40px 20px; background: var(--light); color: #333; }
h1.page-title { text-align: center; color: var(--accent); }
#recipes-container { display: grid; grid-template-columns: repeat(auto-fill, minmax(320px, 1fr)); gap: 24px; max-width: 1200px; margin: 0 auto; }
.recipe-card { background: #fff; border-radius: 12px; box-shadow: 0 4px 12px rgba(0,0,0,0.1); border-top: 6px solid var(--accent); }
.recipe-content { padding: 20px 24px; }
.recipe-title { margin: 0 0 4px; color: var(--accent); }
.recipe-date { margin: 0 0 16px; color: #888; font-size: 14px; }
.recipe-ingredients h3, .recipe-instructions h3 { font-size: 16px; margin: 12px 0 6px; }
#error { max-width: 600px; margin: 40px auto; padding: 16px 20px; border-radius: 8px; background: #ffebee; color: #c62828; }
.theme-switcher { position: fixed; top: 20px; right: 20px; display: flex; gap: 10px; z-index: 1000; }
.theme-switcher button { padding: 8px 12px; border: none; border-radius: 4px; background: white; cursor: pointer; box-shadow: 0 2px 5px rgba(0,0,0,0.2); font-size: 12px; }
</style>
</head>
<body>
<h1 class="page-title">{{.Title}}</h1>
{{- if .Error}}
<div id="error">{{.Error}}</div>
{{- else}}
<div id="recipes-container">
{{- range .Cards}}
<div class="recipe-card">
  <div class="recipe-content">
    <h2 class="recipe-title">{{.Title}}</h2>
    <p class="recipe-date">{{.Date}}</p>
    <div class="recipe-ingredients">
      <h3>Ингредиенты:</h3>
      <ul>{{range .Ingredients}}<li>{{.}}</li>{{end}}</ul>
    </div>
    <div class="recipe-instructions">
      <h3>Способ приготовления:</h3>
      <ol>{{range .Instructions}}<li>{{.}}</li>{{end}}</ol>
    </div>
  </div>
</div>
{{- end}}
</div>
<div class="theme-switcher">
{{- range .Themes}}
  <button type="button" data-theme="{{.Class}}">{{.Name}}</button>
{{- end}}
</div>
<script>
document.querySelectorAll('.theme-switcher button').forEach(function (b) {
  b.addEventListener('click', function () { document.documentElement.className = b.dataset.theme; });
});
</script>
{{- end}}
</body>
</html>
`))
