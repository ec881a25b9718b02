package rules

import (
	"fmt"
	"strings"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDNoEnum flags runtime enum declarations.
const IDNoEnum = "no-enum"

// NoEnum requires an 'as const' object with a derived union type instead of
// an enum. Const enums are erased at compile time and are accepted.
func NoEnum() domain.Rule {
	return domain.Rule{
		ID:          IDNoEnum,
		Description: "Declare named constants as an 'as const' object plus a derived union type, not an enum",
		Rationale:   domain.RationaleTypeSafety,
		AppliesTo:   m.KindEnumDeclaration,
		Check:       checkNoEnum,
	}
}

func checkNoEnum(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil || n.Kind != m.NodeEnum || n.Mods.Const {
		return nil, nil
	}

	return domain.NewViolation(IDNoEnum, f,
		fmt.Sprintf("enum %s compiles to a mutable runtime object; use an immutable 'as const' mapping with a literal-union type", n.Name),
		enumReplacement(n),
	), nil
}

func enumReplacement(n *m.Node) string {
	members := n.ChildrenOf(m.NodeEnumMember)

	entries := make([]string, 0, len(members))

	for _, member := range members {
		value := member.Value
		if value == "" {
			value = "'" + strings.Trim(member.Name, `'"`) + "'"
		}

		entries = append(entries, fmt.Sprintf("%s: %s", member.Name, value))
	}

	return fmt.Sprintf("const %[1]s = { %[2]s } as const; type %[1]s = (typeof %[1]s)[keyof typeof %[1]s];",
		n.Name, strings.Join(entries, ", "))
}
