package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

type stubParser struct{ lang m.Language }

func (s stubParser) Parse(_ context.Context, path m.Path, _ []byte) (m.Unit, error) {
	return m.Unit{Path: path, Language: s.lang}, nil
}

func TestParserRegistry(t *testing.T) {
	r := NewParserRegistry()
	r.Register("first", []string{".ts"}, stubParser{lang: "first"})
	r.Register("second", []string{".ts", ".tsx"}, stubParser{lang: "second"})

	p, err := r.ForPath("src/main.ts")
	require.NoError(t, err)

	unit, err := p.Parse(context.Background(), "src/main.ts", nil)
	require.NoError(t, err)
	assert.Equal(t, m.Language("first"), unit.Language, "first registration of an extension wins")

	p, err = r.ForPath("src/view.tsx")
	require.NoError(t, err)

	unit, err = p.Parse(context.Background(), "src/view.tsx", nil)
	require.NoError(t, err)
	assert.Equal(t, m.Language("second"), unit.Language)

	_, err = r.ForPath("README.md")
	assert.ErrorContains(t, err, `".md"`)

	assert.Equal(t, []string{".ts", ".tsx"}, r.Extensions())
}

func TestDefaultParsers(t *testing.T) {
	r := DefaultParsers()

	assert.Equal(t, []string{".cts", ".html", ".mts", ".ts"}, r.Extensions())

	p, err := r.ForPath("src/app/app.component.html")
	require.NoError(t, err)
	assert.IsType(t, &TemplateAdapter{}, p)

	p, err = r.ForPath("src/app/app.component.ts")
	require.NoError(t, err)
	assert.IsType(t, &TypeScriptAdapter{}, p)
}

func TestParserRegistry_Parse(t *testing.T) {
	r := DefaultParsers()

	unit, err := r.Parse(context.Background(), "src/app/app.component.html", []byte("<p>{{ title }}</p>\n"))
	require.NoError(t, err)
	assert.Equal(t, m.LanguageTemplate, unit.Language)

	unit, err = r.Parse(context.Background(), "src/main.ts", []byte("export const A = 1;\n"))
	require.NoError(t, err)
	assert.Equal(t, m.LanguageTypeScript, unit.Language)

	_, err = r.Parse(context.Background(), "styles.css", nil)
	assert.Error(t, err)
}
