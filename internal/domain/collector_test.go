package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

func TestCollector_Collect(t *testing.T) {
	f := m.Fragment{
		Kind:     m.KindEnumDeclaration,
		Location: m.Location{File: "a.ts", Line: 4, Column: 1},
	}

	boom := errors.New("boom")

	rules := []Rule{
		{ID: "flags", AppliesTo: m.KindEnumDeclaration, Check: func(f m.Fragment) (*m.Violation, error) {
			return &m.Violation{Message: "flagged", Suggestion: "fix it"}, nil
		}},
		{ID: "relocates", AppliesTo: m.KindEnumDeclaration, Check: func(f m.Fragment) (*m.Violation, error) {
			return &m.Violation{RuleID: "wrong", Location: m.Location{File: "a.ts", Line: 5, Column: 2}, Message: "moved"}, nil
		}},
		{ID: "fails", AppliesTo: m.KindEnumDeclaration, Check: func(m.Fragment) (*m.Violation, error) {
			return nil, boom
		}},
		{ID: "panics", AppliesTo: m.KindEnumDeclaration, Check: func(m.Fragment) (*m.Violation, error) {
			panic("nil node")
		}},
		{ID: "passes", AppliesTo: m.KindEnumDeclaration, Check: passing},
		{ID: "other-kind", AppliesTo: m.KindClassMember, Check: func(m.Fragment) (*m.Violation, error) {
			return &m.Violation{Message: "never"}, nil
		}},
	}

	violations, errs := NewCollector(0).Collect(f, rules)

	assert.Equal(t, []m.Violation{
		{RuleID: "flags", Location: f.Location, Message: "flagged", Suggestion: "fix it"},
		{RuleID: "relocates", Location: m.Location{File: "a.ts", Line: 5, Column: 2}, Message: "moved"},
	}, violations)

	require.Len(t, errs, 2)

	var evalErr *RuleEvaluationError
	require.ErrorAs(t, errs[0], &evalErr)
	assert.Equal(t, "fails", evalErr.RuleID)
	assert.Equal(t, f.Location, evalErr.Location)
	assert.ErrorIs(t, errs[0], boom)

	require.ErrorAs(t, errs[1], &evalErr)
	assert.Equal(t, "panics", evalErr.RuleID)
	assert.ErrorContains(t, errs[1], "check panicked: nil node")
}

func TestCollector_Budget(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	slow := Rule{ID: "slow", AppliesTo: m.KindStringConcat, Check: func(m.Fragment) (*m.Violation, error) {
		<-release
		return nil, nil
	}}
	quick := Rule{ID: "quick", AppliesTo: m.KindStringConcat, Check: func(m.Fragment) (*m.Violation, error) {
		return &m.Violation{Message: "quick"}, nil
	}}

	violations, errs := NewCollector(20*time.Millisecond).Collect(m.Fragment{Kind: m.KindStringConcat}, []Rule{slow, quick})

	require.Len(t, violations, 1)
	assert.Equal(t, "quick", violations[0].RuleID)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrBudgetExceeded)
}
