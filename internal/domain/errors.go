package domain

import (
	"errors"
	"fmt"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

var (
	// ErrRegistryFrozen is returned when registering after the first scan.
	ErrRegistryFrozen = errors.New("rule registry is frozen")
	// ErrUnknownRule is returned for enabled ids that match no rule.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrSequenceConsumed is yielded when a fragment sequence is ranged twice.
	ErrSequenceConsumed = errors.New("fragment sequence already consumed")
	// ErrBudgetExceeded marks a rule check that ran past its budget.
	ErrBudgetExceeded = errors.New("rule check exceeded its budget")
	// ErrViolationsFound is returned by the workflow when the report is not empty.
	ErrViolationsFound = errors.New("style violations found")
)

// DuplicateRuleError is returned when a rule id is registered twice.
type DuplicateRuleError struct {
	ID string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q already registered", e.ID)
}

// FragmentExtractionError reports input the scanner could not turn into a
// fragment. Scanning continues past it.
type FragmentExtractionError struct {
	Location m.Location
	Kind     m.FragmentKind
	Reason   string
}

func (e *FragmentExtractionError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Location.File, e.Location.Line, e.Location.Column, e.Reason)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Location.File, e.Location.Line, e.Location.Column, e.Kind, e.Reason)
}

// RuleEvaluationError wraps a failure inside one rule's check. Other rules
// still run on the same fragment.
type RuleEvaluationError struct {
	RuleID   string
	Location m.Location
	Err      error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: rule %s: %v", e.Location.File, e.Location.Line, e.Location.Column, e.RuleID, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error {
	return e.Err
}

// diagnosticFor converts a recovered error into a report diagnostic.
func diagnosticFor(err error) m.Diagnostic {
	var extractErr *FragmentExtractionError
	if errors.As(err, &extractErr) {
		return m.Diagnostic{
			Phase:    m.PhaseExtraction,
			Location: extractErr.Location,
			Message:  extractErr.Reason,
		}
	}

	var evalErr *RuleEvaluationError
	if errors.As(err, &evalErr) {
		return m.Diagnostic{
			Phase:    m.PhaseEvaluation,
			RuleID:   evalErr.RuleID,
			Location: evalErr.Location,
			Message:  evalErr.Err.Error(),
		}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return m.Diagnostic{
			Phase:    m.PhaseParse,
			Location: m.Location{File: parseErr.Path},
			Message:  parseErr.Err.Error(),
		}
	}

	return m.Diagnostic{Phase: m.PhaseExtraction, Message: err.Error()}
}

// ParseError is a file the parser adapter rejected. The file is skipped.
type ParseError struct {
	Path m.Path
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
