// Package controller presents check results: plain tables, JSON and an
// interactive report browser.
package controller

import (
	"fmt"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Output formats understood by NewUI.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// UI displays reports and rule listings.
// Implementations can use different output methods (tables, JSON, TUI).
type UI interface {
	DisplayReport(report m.Report) error
	DisplayRules(rules []m.RuleInfo) error
}

func formatLocation(l m.Location) string {
	if l.Line == 0 {
		return string(l.File)
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

func severityOf(v m.Violation) m.Severity {
	if v.Severity == "" {
		return m.SeverityError
	}

	return v.Severity
}
