package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

const (
	ignoreDirective     = "ngstyle:ignore"
	ignoreFileDirective = "ngstyle:ignore-file"
)

type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(ruleID string) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	_, ok := r.names[strings.ToLower(ruleID)]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

// stripCommentMarkers removes //, /* */ and <!-- --> delimiters.
func stripCommentMarkers(text string) string {
	s := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(s, "//"):
		s = strings.TrimPrefix(s, "//")
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSuffix(strings.TrimPrefix(s, "/*"), "*/")
	case strings.HasPrefix(s, "<!--"):
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<!--"), "-->")
	}

	return strings.TrimSpace(s)
}

// parseIgnoreDirective parses "ngstyle:ignore [id, id...]" and
// "ngstyle:ignore-file [id, id...]".
func parseIgnoreDirective(commentText string) (rule ignoreRule, fileWide bool, ok bool) {
	s := stripCommentMarkers(commentText)

	var rest string

	switch {
	case strings.HasPrefix(s, ignoreFileDirective):
		fileWide = true
		rest = strings.TrimPrefix(s, ignoreFileDirective)
	case strings.HasPrefix(s, ignoreDirective):
		rest = strings.TrimPrefix(s, ignoreDirective)
	default:
		return ignoreRule{}, false, false
	}

	if r, _ := utf8.DecodeRuneInString(rest); rest != "" && !unicode.IsSpace(r) {
		return ignoreRule{}, false, false
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return ignoreRule{all: true}, fileWide, true
	}

	parts := strings.Split(rest, ",")
	rule = ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, fileWide, true
}

type ignoreIndex struct {
	file ignoreRule
	line map[int]ignoreRule
}

// buildIgnoreIndex reads suppression directives from a unit's comments. A
// directive alone on its line covers the next line; a trailing directive
// covers its own line.
func buildIgnoreIndex(comments []m.Comment) ignoreIndex {
	idx := ignoreIndex{line: make(map[int]ignoreRule)}

	for _, c := range comments {
		rule, fileWide, ok := parseIgnoreDirective(c.Text)
		if !ok {
			continue
		}

		if fileWide {
			mergeIgnoreRule(&idx.file, rule)
			continue
		}

		if c.Pos.Line <= 0 {
			continue
		}

		target := c.Pos.Line
		if c.OwnLine {
			target = c.Pos.Line + 1 + strings.Count(c.Text, "\n")
		}

		current := idx.line[target]
		mergeIgnoreRule(&current, rule)
		idx.line[target] = current
	}

	return idx
}

func (idx ignoreIndex) suppresses(v m.Violation) bool {
	if idx.file.ignores(v.RuleID) {
		return true
	}

	rule, ok := idx.line[v.Location.Line]

	return ok && rule.ignores(v.RuleID)
}

// filterSuppressed drops violations covered by a directive.
func filterSuppressed(violations []m.Violation, comments []m.Comment) []m.Violation {
	if len(comments) == 0 || len(violations) == 0 {
		return violations
	}

	idx := buildIgnoreIndex(comments)
	out := violations[:0]

	for _, v := range violations {
		if !idx.suppresses(v) {
			out = append(out, v)
		}
	}

	return out
}
