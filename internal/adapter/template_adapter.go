package adapter

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// TemplateAdapter parses Angular templates. Markup comes from the
// tree-sitter HTML grammar; control-flow blocks (@if, @for, ...) live in
// text nodes and are rebuilt on top of it.
type TemplateAdapter struct{}

// NewTemplateAdapter creates a TemplateAdapter.
func NewTemplateAdapter() *TemplateAdapter {
	return &TemplateAdapter{}
}

// Parse implements ParserAdapter.
func (a *TemplateAdapter) Parse(ctx context.Context, path m.Path, content []byte) (m.Unit, error) {
	doc, comments, err := a.parse(ctx, content, origin{})
	if err != nil {
		return m.Unit{}, err
	}

	return m.Unit{
		Path:     path,
		Language: m.LanguageTemplate,
		Hash:     contentHash(content),
		Root:     doc,
		Comments: comments,
	}, nil
}

func (a *TemplateAdapter) parse(ctx context.Context, content []byte, at origin) (*m.Node, []m.Comment, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, sanitizeTemplate(content))
	if err != nil {
		return nil, nil, fmt.Errorf("parse template: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	l := &templateLowerer{src: content, at: at}

	doc := &m.Node{
		Kind: m.NodeDocument,
		Pos:  at.position(root.StartPoint()),
	}
	doc.Children = l.container(root)

	return doc, l.comments, nil
}

var entityPattern = regexp.MustCompile(`^&(#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// sanitizeTemplate hides characters the HTML grammar rejects in text but
// Angular allows in expressions ("a < b", "a && b"). Each replacement keeps
// the byte length, so offsets into the original content stay valid.
func sanitizeTemplate(src []byte) []byte {
	out := bytes.Clone(src)

	var (
		inTag bool
		quote byte
	)

	for i := 0; i < len(out); i++ {
		c := out[i]

		if inTag {
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '>':
				inTag = false
			}

			continue
		}

		switch {
		case bytes.HasPrefix(out[i:], []byte("<!--")):
			end := bytes.Index(out[i+4:], []byte("-->"))
			if end < 0 {
				return out
			}

			i += 4 + end + 2
		case bytes.HasPrefix(out[i:], []byte("{{")):
			end := bytes.Index(out[i+2:], []byte("}}"))
			if end < 0 {
				return out
			}

			for j := i + 2; j < i+2+end; j++ {
				if out[j] == '<' || out[j] == '>' || out[j] == '&' {
					out[j] = '_'
				}
			}

			i += 2 + end + 1
		case c == '<' && i+1 < len(out) && (isASCIILetter(out[i+1]) || out[i+1] == '/' || out[i+1] == '!'):
			inTag = true
		case c == '<' || c == '>':
			out[i] = '_'
		case c == '&' && !entityPattern.Match(out[i:min(len(out), i+40)]):
			out[i] = '_'
		}
	}

	return out
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

type templateLowerer struct {
	src      []byte
	at       origin
	comments []m.Comment
}

func (l *templateLowerer) content(n *sitter.Node) string {
	if n == nil {
		return ""
	}

	return n.Content(l.src)
}

// container lowers the children of a document or element and nests them
// under the control-flow blocks opened and closed by its text.
func (l *templateLowerer) container(n *sitter.Node) []*m.Node {
	b := &blockBuilder{}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)

		switch c.Type() {
		case "element", "script_element", "style_element":
			b.add(l.element(c))
		case "text":
			l.text(c, b)
		case "comment":
			l.comments = append(l.comments, m.Comment{
				Text:    l.content(c),
				Pos:     l.at.position(c.StartPoint()),
				OwnLine: ownLine(l.src, c.StartByte()),
			})
		case "ERROR", "erroneous_end_tag":
			b.add(errorNode(c, l.src, l.at))
		}
	}

	return b.finish()
}

func (l *templateLowerer) element(n *sitter.Node) *m.Node {
	el := &m.Node{
		Kind: m.NodeElement,
		Pos:  l.at.position(n.StartPoint()),
		Text: l.content(n),
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		tag := n.NamedChild(i)
		if tag.Type() != "start_tag" && tag.Type() != "self_closing_tag" {
			continue
		}

		for j := 0; j < int(tag.NamedChildCount()); j++ {
			c := tag.NamedChild(j)

			switch c.Type() {
			case "tag_name":
				el.Name = l.content(c)
			case "attribute":
				el.Children = append(el.Children, l.attribute(c))
			}
		}

		break
	}

	el.Children = append(el.Children, l.container(n)...)

	return el
}

func (l *templateLowerer) attribute(n *sitter.Node) *m.Node {
	attr := &m.Node{
		Kind: m.NodeAttribute,
		Pos:  l.at.position(n.StartPoint()),
		Text: l.content(n),
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)

		switch c.Type() {
		case "attribute_name":
			attr.Name = l.content(c)
		case "attribute_value":
			attr.Value = l.content(c)
		case "quoted_attribute_value":
			if c.NamedChildCount() > 0 {
				attr.Value = l.content(c.NamedChild(0))
			}
		}
	}

	return attr
}

// text splits a text node into literal text, block openings ("@for (...) {")
// and block closings ("}").
func (l *templateLowerer) text(n *sitter.Node, b *blockBuilder) {
	raw := l.content(n)
	start := n.StartPoint()
	segStart := 0

	pos := func(i int) m.Position {
		return l.at.position(offset(start, raw[:i]))
	}

	flush := func(end int) {
		seg := raw[segStart:end]
		if strings.TrimSpace(seg) == "" {
			return
		}

		b.add(&m.Node{Kind: m.NodeText, Value: seg, Text: seg, Pos: pos(segStart)})
	}

	for i := 0; i < len(raw); {
		switch {
		case strings.HasPrefix(raw[i:], "{{"):
			end := strings.Index(raw[i+2:], "}}")
			if end < 0 {
				i = len(raw)
				continue
			}

			i += 2 + end + 2

		case raw[i] == '@':
			block, next, err := parseBlockOpen(raw, i)

			switch {
			case err != nil:
				flush(i)
				b.add(&m.Node{Kind: m.NodeError, Value: err.Error(), Text: raw[i:], Pos: pos(i)})
				i = len(raw)
				segStart = i
			case block != nil:
				flush(i)
				block.Pos = pos(i)
				block.Text = raw[i:next]
				b.open(block)
				i = next
				segStart = i
			default:
				i++
			}

		case raw[i] == '}':
			flush(i)

			if !b.close() {
				b.add(&m.Node{Kind: m.NodeError, Value: "unexpected } outside a control-flow block", Text: "}", Pos: pos(i)})
			}

			i++
			segStart = i

		default:
			i++
		}
	}

	flush(len(raw))
}

var blockKeywords = map[string]struct{}{
	"if": {}, "else": {}, "else if": {}, "for": {}, "empty": {},
	"switch": {}, "case": {}, "default": {},
	"defer": {}, "placeholder": {}, "loading": {}, "error": {},
}

// parseBlockOpen reads "@keyword (params) {" starting at raw[at]. It returns
// a nil block for '@' that does not start a block, such as an e-mail
// address or @let.
func parseBlockOpen(raw string, at int) (*m.Node, int, error) {
	i := at + 1

	j := i
	for j < len(raw) && isASCIILetter(raw[j]) {
		j++
	}

	keyword := raw[i:j]
	if _, ok := blockKeywords[keyword]; !ok {
		return nil, 0, nil
	}

	k := skipSpace(raw, j)

	if keyword == "else" && strings.HasPrefix(raw[k:], "if") && (k+2 == len(raw) || !isASCIILetter(raw[k+2])) {
		keyword = "else if"
		k = skipSpace(raw, k+2)
	}

	var params string

	if k < len(raw) && raw[k] == '(' {
		closeAt := matchParen(raw, k)
		if closeAt < 0 {
			return nil, 0, fmt.Errorf("unbalanced parameters in @%s block", keyword)
		}

		params = strings.TrimSpace(raw[k+1 : closeAt])
		k = skipSpace(raw, closeAt+1)
	}

	if k >= len(raw) || raw[k] != '{' {
		return nil, 0, fmt.Errorf("@%s block is missing its opening brace", keyword)
	}

	return &m.Node{Kind: m.NodeBlock, Name: keyword, Value: params}, k + 1, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}

	return i
}

// matchParen returns the index of the parenthesis closing s[open].
func matchParen(s string, open int) int {
	depth := 0

	var quote byte

	for i := open; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// blockBuilder nests nodes under open control-flow blocks.
type blockBuilder struct {
	root  []*m.Node
	stack []*m.Node
}

func (b *blockBuilder) add(n *m.Node) {
	if len(b.stack) == 0 {
		b.root = append(b.root, n)
		return
	}

	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, n)
}

func (b *blockBuilder) open(n *m.Node) {
	b.add(n)
	b.stack = append(b.stack, n)
}

func (b *blockBuilder) close() bool {
	if len(b.stack) == 0 {
		return false
	}

	b.stack = b.stack[:len(b.stack)-1]

	return true
}

// finish reports blocks left open and returns the top-level nodes.
func (b *blockBuilder) finish() []*m.Node {
	for i := len(b.stack) - 1; i >= 0; i-- {
		block := b.stack[i]
		b.root = append(b.root, &m.Node{
			Kind:  m.NodeError,
			Value: fmt.Sprintf("@%s block is never closed", block.Name),
			Pos:   block.Pos,
			Text:  block.Text,
		})
	}

	b.stack = nil

	return b.root
}
