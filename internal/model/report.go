package model

import "time"

// Severity is an uninterpreted label assigned to a rule by configuration.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	// SeverityOff disables a rule.
	SeverityOff Severity = "off"
)

// Violation is a fragment failing a rule.
type Violation struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Location   Location `json:"location" yaml:"location"`
	Message    string   `json:"message" yaml:"message"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Severity   Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// Phase tells where a recovered internal error happened.
type Phase string

const (
	PhaseParse      Phase = "parse"
	PhaseExtraction Phase = "extraction"
	PhaseEvaluation Phase = "evaluation"
)

// Diagnostic is a recovered internal error, reported apart from violations.
type Diagnostic struct {
	Phase    Phase    `json:"phase" yaml:"phase"`
	RuleID   string   `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Location Location `json:"location" yaml:"location"`
	Message  string   `json:"message" yaml:"message"`
}

// Report is the ordered result of a scan.
type Report struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt   time.Time    `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	Files       int          `json:"files" yaml:"files"`
	Violations  []Violation  `json:"violations" yaml:"violations"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Empty reports whether no violations were found.
func (r Report) Empty() bool {
	return len(r.Violations) == 0
}

// RuleInfo describes a registered rule for listing.
type RuleInfo struct {
	ID          string       `json:"id" yaml:"id"`
	Description string       `json:"description" yaml:"description"`
	Rationale   string       `json:"rationale" yaml:"rationale"`
	Kind        FragmentKind `json:"kind" yaml:"kind"`
	Severity    Severity     `json:"severity" yaml:"severity"`
	Enabled     bool         `json:"enabled" yaml:"enabled"`
}
