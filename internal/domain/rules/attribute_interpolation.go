package rules

import (
	"fmt"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDAttributeInterpolation flags {{ }} inside plain attribute values.
const IDAttributeInterpolation = "no-attribute-interpolation"

// AttributeInterpolation requires one-way property binding instead of
// interpolating into an attribute value.
func AttributeInterpolation() domain.Rule {
	return domain.Rule{
		ID:          IDAttributeInterpolation,
		Description: "Bind element properties with [prop]=\"expr\" instead of interpolating into attribute values",
		Rationale:   domain.RationaleTypeSafety,
		AppliesTo:   m.KindTemplateAttribute,
		Check:       checkAttributeInterpolation,
	}
}

func checkAttributeInterpolation(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil || n.Kind != m.NodeAttribute {
		return nil, nil
	}

	if domain.IsBoundAttribute(n.Name) || !domain.HasInterpolation(n.Value) {
		return nil, nil
	}

	return domain.NewViolation(IDAttributeInterpolation, f,
		fmt.Sprintf("attribute %q interpolates into a string; use property binding so the value keeps its type", n.Name),
		fmt.Sprintf("[%s]=\"%s\"", n.Name, domain.BindingExpression(n.Value)),
	), nil
}
