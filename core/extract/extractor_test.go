package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PrefersMarkdownBody(t *testing.T) {
	page := `<html><body>
<nav><a href="/">Home</a></nav>
<main><div class="markdown-body"><h1>Soup</h1><script>alert(1)</script></div><p>sidebar</p></main>
<footer>footer</footer>
</body></html>`

	got, err := New().Extract(page)

	require.NoError(t, err)
	assert.Contains(t, got, "<h1>Soup</h1>")
	assert.NotContains(t, got, "alert")
	assert.NotContains(t, got, "sidebar")
	assert.NotContains(t, got, "Home")
}

func TestExtract_FallsBackToBody(t *testing.T) {
	got, err := New().Extract(`<p>Дата: 2024</p><button>Синяя</button>`)

	require.NoError(t, err)
	assert.Contains(t, got, "Дата: 2024")
	assert.NotContains(t, got, "Синяя")
}
