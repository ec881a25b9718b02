package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

const templateSource = `<!-- ngstyle:ignore prefer-control-flow-blocks -->
<div *ngIf="loaded" class="box">
  <input value="{{key}}px" [title]="name">
</div>
@for (x of list; track x) {
  <span>{{ x.value }}</span>
} @empty {
  <p>none</p>
}
@if (a && b < c) {
  <p>{{ a < b }}</p>
}
`

func parseTemplate(t *testing.T, src string) m.Unit {
	t.Helper()

	unit, err := NewTemplateAdapter().Parse(context.Background(), "src/app/app.component.html", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, unit.Root)

	return unit
}

func kinds(nodes []*m.Node) []m.NodeKind {
	out := make([]m.NodeKind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind)
	}

	return out
}

func TestTemplateAdapter_Parse(t *testing.T) {
	unit := parseTemplate(t, templateSource)

	assert.Equal(t, m.LanguageTemplate, unit.Language)
	assert.Equal(t, m.NodeDocument, unit.Root.Kind)
	assert.Equal(t,
		[]m.NodeKind{m.NodeElement, m.NodeBlock, m.NodeBlock, m.NodeBlock},
		kinds(unit.Root.Children))

	t.Run("elements and attributes", func(t *testing.T) {
		div := unit.Root.Children[0]
		assert.Equal(t, "div", div.Name)

		attrs := div.ChildrenOf(m.NodeAttribute)
		require.Len(t, attrs, 2)
		assert.Equal(t, "*ngIf", attrs[0].Name)
		assert.Equal(t, "loaded", attrs[0].Value)
		assert.Equal(t, m.Position{Line: 2, Column: 6}, attrs[0].Pos)

		input := find(div, m.NodeElement, "input")
		require.NotNil(t, input)

		value := find(input, m.NodeAttribute, "value")
		require.NotNil(t, value)
		assert.Equal(t, "{{key}}px", value.Value)

		title := find(input, m.NodeAttribute, "[title]")
		require.NotNil(t, title)
		assert.Equal(t, "name", title.Value)
	})

	t.Run("blocks", func(t *testing.T) {
		loop := unit.Root.Children[1]
		assert.Equal(t, "for", loop.Name)
		assert.Equal(t, "x of list; track x", loop.Value)
		assert.Equal(t, m.Position{Line: 5, Column: 1}, loop.Pos)

		span := find(loop, m.NodeElement, "span")
		require.NotNil(t, span)

		texts := span.ChildrenOf(m.NodeText)
		require.Len(t, texts, 1)
		assert.Equal(t, "{{ x.value }}", texts[0].Value)

		empty := unit.Root.Children[2]
		assert.Equal(t, "empty", empty.Name)
		assert.Equal(t, 7, empty.Pos.Line)
		assert.NotNil(t, find(empty, m.NodeElement, "p"))

		cond := unit.Root.Children[3]
		assert.Equal(t, "if", cond.Name)
		assert.Equal(t, "a && b < c", cond.Value, "expressions are read from the original text")

		p := find(cond, m.NodeElement, "p")
		require.NotNil(t, p)
		require.Len(t, p.ChildrenOf(m.NodeText), 1)
		assert.Equal(t, "{{ a < b }}", p.ChildrenOf(m.NodeText)[0].Value)
	})

	t.Run("comments", func(t *testing.T) {
		require.Len(t, unit.Comments, 1)
		assert.Equal(t, "<!-- ngstyle:ignore prefer-control-flow-blocks -->", unit.Comments[0].Text)
		assert.True(t, unit.Comments[0].OwnLine)
	})
}

func TestTemplateAdapter_Blocks(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []m.NodeKind
		check func(t *testing.T, root *m.Node)
	}{
		{
			name: "nested blocks",
			src:  "@if (user) {\n  @for (r of user.roles; track r) {\n    <b>{{ r }}</b>\n  }\n} @else if (guest) {\n  <i>guest</i>\n} @else {\n  <i>none</i>\n}\n",
			want: []m.NodeKind{m.NodeBlock, m.NodeBlock, m.NodeBlock},
			check: func(t *testing.T, root *m.Node) {
				inner := root.Children[0].ChildrenOf(m.NodeBlock)
				require.Len(t, inner, 1)
				assert.Equal(t, "r of user.roles; track r", inner[0].Value)
				assert.Equal(t, "else if", root.Children[1].Name)
				assert.Equal(t, "guest", root.Children[1].Value)
				assert.Equal(t, "else", root.Children[2].Name)
			},
		},
		{
			name: "stray closing brace",
			src:  "<div>}</div>\n",
			want: []m.NodeKind{m.NodeElement},
			check: func(t *testing.T, root *m.Node) {
				assert.Equal(t, []m.NodeKind{m.NodeError}, kinds(root.Children[0].Children))
			},
		},
		{
			name: "unclosed block",
			src:  "@for (x of list; track x.id) {\n  <span>{{ x.name }}</span>\n",
			want: []m.NodeKind{m.NodeBlock, m.NodeError},
			check: func(t *testing.T, root *m.Node) {
				assert.Contains(t, root.Children[1].Value, "never closed")
				assert.Equal(t, 1, root.Children[1].Pos.Line)
			},
		},
		{
			name: "block without brace",
			src:  "<p>contact @if now</p>\n",
			want: []m.NodeKind{m.NodeElement},
			check: func(t *testing.T, root *m.Node) {
				assert.Equal(t, []m.NodeKind{m.NodeText, m.NodeError}, kinds(root.Children[0].Children))
			},
		},
		{
			name: "e-mail address",
			src:  "<p>mail me at dev@example.com</p>\n",
			want: []m.NodeKind{m.NodeElement},
			check: func(t *testing.T, root *m.Node) {
				texts := root.Children[0].ChildrenOf(m.NodeText)
				require.Len(t, texts, 1)
				assert.Equal(t, "mail me at dev@example.com", texts[0].Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := parseTemplate(t, tt.src)
			assert.Equal(t, tt.want, kinds(unit.Root.Children))

			if tt.check != nil && len(unit.Root.Children) == len(tt.want) {
				tt.check(t, unit.Root)
			}
		})
	}
}

func TestSanitizeTemplate(t *testing.T) {
	src := []byte(`<p title="a < b && c">{{ a < b && c > d }} x &amp; y & z</p> @if (a < b) {`)
	got := sanitizeTemplate(src)

	assert.Len(t, got, len(src))
	assert.Equal(t, `<p title="a < b && c">{{ a _ b __ c _ d }} x &amp; y _ z</p> @if (a _ b) {`, string(got))
}

func TestParseBlockOpen(t *testing.T) {
	block, next, err := parseBlockOpen(`@for (item of items(); track item.id) { rest`, 0)
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, "for", block.Name)
	assert.Equal(t, "item of items(); track item.id", block.Value)
	assert.Equal(t, " rest", `@for (item of items(); track item.id) { rest`[next:])

	block, _, err = parseBlockOpen(`@let total = 3;`, 0)
	require.NoError(t, err)
	assert.Nil(t, block)

	_, _, err = parseBlockOpen(`@if (open {`, 0)
	assert.ErrorContains(t, err, "unbalanced")
}
