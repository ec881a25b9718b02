package rules

import (
	"strings"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDExplicitStringConversion flags implicit conversions to string.
const IDExplicitStringConversion = "explicit-string-conversion"

// ExplicitStringConversion requires String(x) over '' + x, `${x}` and
// x.toString(). Without type information every operand is treated alike;
// toString calls with a radix argument are accepted.
func ExplicitStringConversion() domain.Rule {
	return domain.Rule{
		ID:          IDExplicitStringConversion,
		Description: "Convert values to text with String(value)",
		Rationale:   domain.RationaleReadability,
		AppliesTo:   m.KindStringConcat,
		Check:       checkExplicitStringConversion,
	}
}

func checkExplicitStringConversion(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case m.NodeBinary:
		operands := flattenConcat(n)

		var rest []*m.Node

		empty := false

		for _, op := range operands {
			if isEmptyString(op) {
				empty = true
				continue
			}

			rest = append(rest, op)
		}

		if !empty || len(rest) != 1 || rest[0] == nil || isStringLiteral(rest[0]) {
			return nil, nil
		}

		return domain.NewViolation(IDExplicitStringConversion, f,
			"concatenating with an empty string hides a conversion; call String() explicitly",
			"String("+rest[0].Text+")",
		), nil

	case m.NodeTemplateString:
		if n.Value != "" || len(n.Children) != 1 {
			return nil, nil
		}

		return domain.NewViolation(IDExplicitStringConversion, f,
			"a template literal holding a single substitution is an implicit conversion; call String() explicitly",
			"String("+n.Children[0].Text+")",
		), nil

	case m.NodeCall:
		receiver, ok := strings.CutSuffix(n.Name, ".toString")
		if !ok || strings.TrimSpace(n.Value) != "" {
			return nil, nil
		}

		receiver = strings.TrimSuffix(receiver, "?")

		return domain.NewViolation(IDExplicitStringConversion, f,
			"toString() fails on null and undefined; call String() explicitly",
			"String("+receiver+")",
		), nil
	}

	return nil, nil
}
