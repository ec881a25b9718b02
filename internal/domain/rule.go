package domain

import (
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Rationale is the reason a convention exists.
type Rationale string

const (
	RationaleReadability Rationale = "readability"
	RationaleTypeSafety  Rationale = "type-safety"
	RationalePerformance Rationale = "performance"
	RationaleConsistency Rationale = "consistency"
)

// CheckFunc inspects one fragment. It returns nil when the fragment conforms.
// It must not retain or modify the fragment.
type CheckFunc func(f m.Fragment) (*m.Violation, error)

// Rule is a named style convention. Rules are immutable once registered.
type Rule struct {
	ID          string
	Description string
	Rationale   Rationale
	AppliesTo   m.FragmentKind
	Check       CheckFunc
}

// NewViolation builds a violation of rule at the fragment's location.
func NewViolation(ruleID string, f m.Fragment, message, suggestion string) *m.Violation {
	return &m.Violation{
		RuleID:     ruleID,
		Location:   f.Location,
		Message:    message,
		Suggestion: suggestion,
	}
}
