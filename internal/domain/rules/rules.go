// Package rules implements the Angular template and TypeScript conventions
// checked by ngstyle. Each file holds one rule.
package rules

import (
	"strings"
	"unicode"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// All returns every built-in rule in registration order.
func All() []domain.Rule {
	return []domain.Rule{
		AttributeInterpolation(),
		ControlFlowBlocks(),
		ForTrackIdentity(),
		NoEnum(),
		ExplicitStringConversion(),
		NoParameterConcat(),
		StreamNameMirror(),
		MemberOrdering(),
		ConstantCase(),
		MaxParams(),
	}
}

// Register adds every built-in rule to registry.
func Register(registry *domain.Registry) error {
	for _, rule := range All() {
		if err := registry.Register(rule); err != nil {
			return err
		}
	}

	return nil
}

func unwrapParens(n *m.Node) *m.Node {
	for n != nil && n.Kind == m.NodeParen && len(n.Children) == 1 {
		n = n.Children[0]
	}

	return n
}

// flattenConcat returns the operands of a chain of '+' expressions.
func flattenConcat(n *m.Node) []*m.Node {
	n = unwrapParens(n)
	if n == nil || n.Kind != m.NodeBinary || n.Name != "+" || len(n.Children) != 2 {
		return []*m.Node{n}
	}

	return append(flattenConcat(n.Children[0]), flattenConcat(n.Children[1])...)
}

func isEmptyString(n *m.Node) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}

	switch n.Kind {
	case m.NodeString:
		return n.Value == ""
	case m.NodeTemplateString:
		return n.Value == "" && len(n.Children) == 0
	}

	return false
}

func isStringLiteral(n *m.Node) bool {
	n = unwrapParens(n)

	return n != nil && (n.Kind == m.NodeString || n.Kind == m.NodeTemplateString)
}

// isConstantLiteral reports whether n is a primitive literal, optionally
// negated, parenthesised or marked 'as const'.
func isConstantLiteral(n *m.Node) bool {
	n = unwrapParens(n)
	if n == nil {
		return false
	}

	switch n.Kind {
	case m.NodeString, m.NodeNumber, m.NodeLiteral:
		return true
	case m.NodeTemplateString:
		return len(n.Children) == 0
	case m.NodeUnary:
		return (n.Name == "-" || n.Name == "+") && len(n.Children) == 1 && unwrapParens(n.Children[0]).Kind == m.NodeNumber
	case m.NodeAsConst:
		return len(n.Children) == 1 && isConstantLiteral(n.Children[0])
	}

	return false
}

func isPublic(n *m.Node) bool {
	return n.Mods.Access == m.AccessNone || n.Mods.Access == m.AccessPublic
}

// isUpperSnake reports whether name is written LIKE_THIS.
func isUpperSnake(name string) bool {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return false
	}

	prevUnderscore := false

	for _, r := range name {
		switch {
		case r == '_':
			if prevUnderscore {
				return false
			}

			prevUnderscore = true
		case unicode.IsUpper(r) || unicode.IsDigit(r):
			prevUnderscore = false
		default:
			return false
		}
	}

	return !prevUnderscore
}

// toUpperSnake converts camelCase, PascalCase or kebab-case to UPPER_SNAKE.
func toUpperSnake(name string) string {
	runes := []rune(strings.TrimLeft(name, "_#$"))

	var b strings.Builder

	for i, r := range runes {
		if r == '-' || r == '_' || r == ' ' {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteRune('_')
			}

			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				if !strings.HasSuffix(b.String(), "_") {
					b.WriteRune('_')
				}
			}
		}

		b.WriteRune(unicode.ToUpper(r))
	}

	return strings.TrimSuffix(b.String(), "_")
}
