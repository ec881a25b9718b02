package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

func violationAt(rule string, file m.Path, line, col int) m.Violation {
	return m.Violation{RuleID: rule, Location: m.Location{File: file, Line: line, Column: col}, Message: rule}
}

func TestFinalize_OrdersAndDeduplicates(t *testing.T) {
	in := []m.Violation{
		violationAt("no-enum", "b.ts", 1, 1),
		violationAt("max-params", "a.ts", 10, 3),
		violationAt("constant-case", "a.ts", 2, 1),
		violationAt("max-params", "a.ts", 2, 1),
		violationAt("constant-case", "a.ts", 2, 1),
		violationAt("member-ordering", "a.ts", 10, 1),
	}

	want := []m.Violation{
		violationAt("constant-case", "a.ts", 2, 1),
		violationAt("max-params", "a.ts", 2, 1),
		violationAt("member-ordering", "a.ts", 10, 1),
		violationAt("max-params", "a.ts", 10, 3),
		violationAt("no-enum", "b.ts", 1, 1),
	}

	report := Finalize(in, nil)

	if diff := cmp.Diff(want, report.Violations); diff != "" {
		t.Errorf("Finalize() mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, report.Diagnostics)
	assert.Equal(t, "no-enum", in[0].RuleID, "input is not reordered")
}

func TestFinalize_IndependentOfOrder(t *testing.T) {
	var in []m.Violation

	for i := range 40 {
		in = append(in, violationAt([]string{"a", "b", "c"}[i%3], m.Path([]string{"x.ts", "y.html"}[i%2]), i%7+1, i%5+1))
	}

	want := Finalize(in, nil)
	rnd := rand.New(rand.NewSource(7))

	for range 10 {
		shuffled := append([]m.Violation(nil), in...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if diff := cmp.Diff(want, Finalize(shuffled, nil)); diff != "" {
			t.Fatalf("Finalize() depends on input order (-want +got):\n%s", diff)
		}
	}
}

func TestFinalize_Empty(t *testing.T) {
	report := Finalize(nil, nil)

	assert.NotNil(t, report.Violations)
	assert.True(t, report.Empty())
	assert.Nil(t, report.Diagnostics)
}

func TestFinalize_Diagnostics(t *testing.T) {
	loc := m.Location{File: "a.ts", Line: 3, Column: 1}

	errs := []error{
		&RuleEvaluationError{RuleID: "no-enum", Location: loc, Err: errors.New("boom")},
		&FragmentExtractionError{Location: loc, Kind: m.KindTemplateControlFlow, Reason: "bad header"},
		&ParseError{Path: "broken.ts", Err: errors.New("unreadable")},
		&RuleEvaluationError{RuleID: "no-enum", Location: loc, Err: errors.New("boom")},
		errors.New("stray"),
	}

	report := Finalize(nil, errs)

	assert.Equal(t, []m.Diagnostic{
		{Phase: m.PhaseExtraction, Message: "stray"},
		{Phase: m.PhaseEvaluation, RuleID: "no-enum", Location: loc, Message: "boom"},
		{Phase: m.PhaseExtraction, Location: loc, Message: "bad header"},
		{Phase: m.PhaseParse, Location: m.Location{File: "broken.ts"}, Message: "unreadable"},
	}, report.Diagnostics)
}
