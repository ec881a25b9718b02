package rules

import (
	"fmt"
	"strings"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDMaxParams flags signatures with too many positional parameters.
const IDMaxParams = "max-params"

// MaxPositionalParams is the largest accepted number of positional
// parameters.
const MaxPositionalParams = 3

// MaxParams limits functions and methods to three positional parameters;
// further values belong in a trailing options object. A 'this' parameter and
// constructor parameter properties used for injection are not counted.
func MaxParams() domain.Rule {
	return domain.Rule{
		ID:          IDMaxParams,
		Description: "Accept at most 3 positional parameters and group the rest in an options object",
		Rationale:   domain.RationaleReadability,
		AppliesTo:   m.KindParameterList,
		Check:       checkMaxParams,
	}
}

func checkMaxParams(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil {
		return nil, nil
	}

	params := positionalParams(n)
	if len(params) <= MaxPositionalParams {
		return nil, nil
	}

	name := n.Name
	if name == "" {
		name = "function"
	}

	kept := make([]string, 0, MaxPositionalParams)
	for _, p := range params[:MaxPositionalParams-1] {
		kept = append(kept, p.Name)
	}

	grouped := make([]string, 0, len(params)-len(kept))
	for _, p := range params[MaxPositionalParams-1:] {
		grouped = append(grouped, strings.TrimPrefix(p.Name, "..."))
	}

	return domain.NewViolation(IDMaxParams, f,
		fmt.Sprintf("%s takes %d positional parameters; more than %d are hard to read at call sites",
			name, len(params), MaxPositionalParams),
		fmt.Sprintf("%s(%s, { %s })", name, strings.Join(kept, ", "), strings.Join(grouped, ", ")),
	), nil
}

func positionalParams(fn *m.Node) []*m.Node {
	var params []*m.Node

	for _, p := range fn.ChildrenOf(m.NodeParameter) {
		if p.Name == "this" {
			continue
		}

		if fn.Mods.Constructor && (p.Mods.Access != m.AccessNone || p.Mods.Readonly || p.Mods.Decorated) {
			continue
		}

		params = append(params, p)
	}

	if len(params) > 0 && isOptionsObject(params[len(params)-1]) {
		params = params[:len(params)-1]
	}

	return params
}

func isOptionsObject(p *m.Node) bool {
	return strings.HasPrefix(p.Name, "{") || strings.HasPrefix(strings.TrimSpace(p.Type), "{")
}
