package controller

import (
	"encoding/json"
	"io"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// JSONUI writes reports and rule listings as indented JSON.
type JSONUI struct {
	output io.Writer
}

// NewJSONUI creates a JSONUI writing to output.
func NewJSONUI(output io.Writer) *JSONUI {
	return &JSONUI{output: output}
}

// DisplayReport implements UI.
func (j *JSONUI) DisplayReport(report m.Report) error {
	if report.Violations == nil {
		report.Violations = []m.Violation{}
	}

	return j.encode(report)
}

// DisplayRules implements UI.
func (j *JSONUI) DisplayRules(rules []m.RuleInfo) error {
	if rules == nil {
		rules = []m.RuleInfo{}
	}

	return j.encode(rules)
}

func (j *JSONUI) encode(v any) error {
	enc := json.NewEncoder(j.output)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
