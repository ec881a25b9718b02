package domain

import (
	"fmt"
	"strings"
	"unicode"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokDot
	tokString
	tokNumber
	tokPunct
)

type exprToken struct {
	kind tokenKind
	text string
}

// lexExpr splits an Angular template expression into coarse tokens. It only
// distinguishes what the scanner needs: identifiers, property access dots,
// literals and everything else.
func lexExpr(expr string) []exprToken {
	var tokens []exprToken

	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
		case isIdentStart(r):
			j := i + 1
			for j < len(runes) && isIdentPart(runes[j]) {
				j++
			}

			tokens = append(tokens, exprToken{kind: tokIdent, text: string(runes[i:j])})
			i = j
		case unicode.IsDigit(r):
			j := i + 1
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.' || runes[j] == '_') {
				j++
			}

			tokens = append(tokens, exprToken{kind: tokNumber, text: string(runes[i:j])})
			i = j
		case r == '\'' || r == '"' || r == '`':
			j := i + 1
			for j < len(runes) && runes[j] != r {
				if runes[j] == '\\' {
					j++
				}
				j++
			}

			if j >= len(runes) {
				j = len(runes) - 1
			}

			tokens = append(tokens, exprToken{kind: tokString, text: string(runes[i : j+1])})
			i = j + 1
		case r == '?' && i+1 < len(runes) && runes[i+1] == '.':
			tokens = append(tokens, exprToken{kind: tokDot, text: "?."})
			i += 2
		case r == '.':
			tokens = append(tokens, exprToken{kind: tokDot, text: "."})
			i++
		default:
			tokens = append(tokens, exprToken{kind: tokPunct, text: string(r)})
			i++
		}
	}

	return tokens
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// fieldsOf returns the property names read directly from root in expr.
func fieldsOf(expr, root string) []string {
	tokens := lexExpr(expr)

	var fields []string

	for i, tok := range tokens {
		if tok.kind != tokIdent || tok.text != root {
			continue
		}

		if i > 0 && tokens[i-1].kind == tokDot {
			continue
		}

		if i+2 < len(tokens) && tokens[i+1].kind == tokDot && tokens[i+2].kind == tokIdent {
			fields = append(fields, tokens[i+2].text)
		}
	}

	return fields
}

// RootIdent returns the leading identifier of expr, or "".
func RootIdent(expr string) string {
	tokens := lexExpr(expr)
	if len(tokens) == 0 || tokens[0].kind != tokIdent {
		return ""
	}

	return tokens[0].text
}

// splitTopLevel splits s on sep outside brackets and string literals.
func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)

	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if quote != 0 {
			if r == '\\' {
				i++
			} else if r == quote {
				quote = 0
			}

			continue
		}

		switch r {
		case '\'', '"', '`':
			quote = r
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, string(runes[start:i]))
				start = i + 1
			}
		}
	}

	return append(parts, string(runes[start:]))
}

// parseLoopHeader parses the parameters of an @for block, for example
// "item of items; track item.id; let i = $index".
func parseLoopHeader(params string) (m.LoopHeader, error) {
	clauses := splitTopLevel(params, ';')

	head := strings.TrimSpace(clauses[0])
	tokens := lexExpr(head)

	if len(tokens) < 3 || tokens[0].kind != tokIdent || tokens[1].kind != tokIdent || tokens[1].text != "of" {
		return m.LoopHeader{}, fmt.Errorf("expected \"<item> of <collection>\", got %q", head)
	}

	item := tokens[0].text

	ofAt := strings.Index(head, " of ")
	if ofAt < 0 {
		return m.LoopHeader{}, fmt.Errorf("expected \"<item> of <collection>\", got %q", head)
	}

	header := m.LoopHeader{
		Item:       item,
		Collection: strings.TrimSpace(head[ofAt+len(" of "):]),
	}

	for _, clause := range clauses[1:] {
		clause = strings.TrimSpace(clause)

		switch {
		case clause == "":
			continue
		case clause == "track" || strings.HasPrefix(clause, "track ") || strings.HasPrefix(clause, "track\t"):
			track := strings.TrimSpace(strings.TrimPrefix(clause, "track"))
			if track == "" {
				return m.LoopHeader{}, fmt.Errorf("empty track expression")
			}

			header.Track = track
		case strings.HasPrefix(clause, "let "):
			continue
		default:
			return m.LoopHeader{}, fmt.Errorf("unrecognized @for parameter %q", clause)
		}
	}

	return header, nil
}

// segment is a piece of an attribute value or text: literal text or an
// interpolated expression.
type segment struct {
	expr bool
	text string
}

// splitInterpolations splits s around {{ }} markers.
func splitInterpolations(s string) ([]segment, error) {
	var segs []segment

	for {
		open := strings.Index(s, "{{")
		if open < 0 {
			if s != "" {
				segs = append(segs, segment{text: s})
			}

			return segs, nil
		}

		closeAt := strings.Index(s[open+2:], "}}")
		if closeAt < 0 {
			return segs, fmt.Errorf("unterminated interpolation in %q", s)
		}

		if open > 0 {
			segs = append(segs, segment{text: s[:open]})
		}

		segs = append(segs, segment{expr: true, text: strings.TrimSpace(s[open+2 : open+2+closeAt])})
		s = s[open+2+closeAt+2:]
	}
}

// HasInterpolation reports whether s contains a {{ }} expression.
func HasInterpolation(s string) bool {
	segs, err := splitInterpolations(s)
	if err != nil {
		return strings.Contains(s, "{{")
	}

	for _, seg := range segs {
		if seg.expr {
			return true
		}
	}

	return false
}

// BindingExpression rewrites an interpolated attribute value as a single
// property-binding expression: "{{key}}px" becomes "key + 'px'".
func BindingExpression(value string) string {
	segs, err := splitInterpolations(value)
	if err != nil {
		return value
	}

	parts := make([]string, 0, len(segs))

	for _, seg := range segs {
		if seg.expr {
			parts = append(parts, seg.text)
			continue
		}

		parts = append(parts, "'"+strings.ReplaceAll(seg.text, "'", "\\'")+"'")
	}

	if len(parts) == 1 && len(segs) == 1 && segs[0].expr {
		return parts[0]
	}

	return strings.Join(parts, " + ")
}

var legacyDirectives = map[string]string{
	"*ngif":            "@if",
	"*ngfor":           "@for",
	"*ngswitchcase":    "@case",
	"*ngswitchdefault": "@default",
	"[ngswitch]":       "@switch",
	"[ngif]":           "@if",
	"[ngforof]":        "@for",
}

// LegacyDirective reports whether an attribute name is a structural
// directive with a block replacement, and returns that block.
func LegacyDirective(name string) (string, bool) {
	block, ok := legacyDirectives[strings.ToLower(name)]

	return block, ok
}

// IsBoundAttribute reports whether an attribute name is an Angular binding
// (property, event, two-way, structural or template reference) rather than
// a plain HTML attribute.
func IsBoundAttribute(name string) bool {
	if name == "" {
		return false
	}

	switch name[0] {
	case '[', '(', '*', '#', '@':
		return true
	}

	lower := strings.ToLower(name)

	return strings.HasPrefix(lower, "bind-") || strings.HasPrefix(lower, "on-") ||
		strings.HasPrefix(lower, "bindon-") || strings.HasPrefix(lower, "let-") ||
		strings.HasPrefix(lower, "ref-")
}
