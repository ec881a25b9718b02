package rules

import (
	"fmt"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDConstantCase flags literal constants not written in UPPER_SNAKE_CASE.
const IDConstantCase = "constant-case"

// ConstantCase requires top-level consts and readonly fields holding a
// primitive literal to be named in upper case with underscores. Constants
// computed at runtime, such as streams or injected services, are exempt.
func ConstantCase() domain.Rule {
	return domain.Rule{
		ID:          IDConstantCase,
		Description: "Name literal constants in UPPER_SNAKE_CASE",
		Rationale:   domain.RationaleReadability,
		AppliesTo:   m.KindConstantDeclaration,
		Check:       checkConstantCase,
	}
}

func checkConstantCase(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil || n.Name == "" || !isConstantLiteral(n.Init) {
		return nil, nil
	}

	if isUpperSnake(n.Name) {
		return nil, nil
	}

	want := toUpperSnake(n.Name)

	return domain.NewViolation(IDConstantCase, f,
		fmt.Sprintf("constant %s should be upper case with underscores so it reads as a fixed value", n.Name),
		want,
	), nil
}
