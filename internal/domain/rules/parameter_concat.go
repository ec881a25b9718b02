package rules

import (
	"fmt"
	"strings"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDNoParameterConcat flags string building on top of a parameter.
const IDNoParameterConcat = "no-parameter-concat"

// NoParameterConcat forbids appending text to a function's own parameter.
// Strings must be accumulated into a freshly declared local.
func NoParameterConcat() domain.Rule {
	return domain.Rule{
		ID:          IDNoParameterConcat,
		Description: "Build strings in a new local variable instead of reassigning a parameter",
		Rationale:   domain.RationaleReadability,
		AppliesTo:   m.KindStringConcat,
		Check:       checkNoParameterConcat,
	}
}

func checkNoParameterConcat(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil || n.Kind != m.NodeAssignment {
		return nil, nil
	}

	param := f.Scope.Param(strings.TrimSpace(n.Value))
	if param == nil {
		return nil, nil
	}

	concat := n.Name == "+=" || (n.Name == "=" && isConcatOf(n.Init, param.Name))
	if !concat || !buildsString(param, n.Init) {
		return nil, nil
	}

	return domain.NewViolation(IDNoParameterConcat, f,
		fmt.Sprintf("parameter %s is rebuilt in place; accumulate into a new local so the input stays unchanged", param.Name),
		fmt.Sprintf("const result = %s + ...;", param.Name),
	), nil
}

// isConcatOf reports whether expr is a concatenation or template literal
// that reads name.
func isConcatOf(expr *m.Node, name string) bool {
	expr = unwrapParens(expr)
	if expr == nil {
		return false
	}

	var operands []*m.Node

	switch {
	case expr.Kind == m.NodeBinary && expr.Name == "+":
		operands = flattenConcat(expr)
	case expr.Kind == m.NodeTemplateString:
		operands = expr.Children
	default:
		return false
	}

	for _, op := range operands {
		op = unwrapParens(op)
		if op != nil && op.Kind == m.NodeIdentifier && op.Name == name {
			return true
		}
	}

	return false
}

// buildsString reports whether the assignment produces text: either the
// parameter is typed as a string or the right side carries a string literal.
func buildsString(param, rhs *m.Node) bool {
	if strings.Contains(param.Type, "string") {
		return true
	}

	found := false

	rhs.Walk(func(x *m.Node) bool {
		if x.Kind == m.NodeString || x.Kind == m.NodeTemplateString {
			found = true
		}

		return !found
	})

	return found
}
