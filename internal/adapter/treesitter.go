package adapter

import (
	"crypto/sha256"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// origin shifts tree-sitter points into file coordinates. Inline templates
// are parsed on their own and start somewhere inside a TypeScript file.
type origin struct {
	row    uint32
	column uint32
}

// position converts a zero-based tree-sitter point to a one-based position.
func (o origin) position(p sitter.Point) m.Position {
	col := p.Column
	if p.Row == 0 {
		col += o.column
	}

	return m.Position{Line: int(p.Row+o.row) + 1, Column: int(col) + 1}
}

// offset returns the point reached after text starting at start.
func offset(start sitter.Point, text string) sitter.Point {
	nl := strings.LastIndexByte(text, '\n')
	if nl < 0 {
		return sitter.Point{Row: start.Row, Column: start.Column + uint32(len(text))}
	}

	return sitter.Point{Row: start.Row + uint32(strings.Count(text, "\n")), Column: uint32(len(text) - nl - 1)}
}

// ownLine reports whether only whitespace precedes byte offset at on its line.
func ownLine(src []byte, at uint32) bool {
	for i := int(at) - 1; i >= 0; i-- {
		switch src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}

	return true
}

func contentHash(src []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(src))
}

func errorNode(n *sitter.Node, src []byte, o origin) *m.Node {
	reason := "unexpected " + snippet(n.Content(src))
	if n.IsMissing() {
		reason = "missing " + n.Type()
	}

	return &m.Node{
		Kind:  m.NodeError,
		Value: reason,
		Pos:   o.position(n.StartPoint()),
		Text:  n.Content(src),
	}
}

// snippet shortens text to its first line, at most 40 bytes.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}

	if len(text) > 40 {
		text = text[:40] + "..."
	}

	return fmt.Sprintf("%q", text)
}
