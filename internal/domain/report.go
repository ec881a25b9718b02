package domain

import (
	"sort"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Finalize orders violations by file, line, column and rule id, drops
// duplicate (rule id, location) pairs and attaches the recovered errors as
// diagnostics. The result does not depend on input order.
func Finalize(violations []m.Violation, errs []error) m.Report {
	sorted := make([]m.Violation, len(violations))
	copy(sorted, violations)
	sortViolations(sorted)

	out := make([]m.Violation, 0, len(sorted))

	for i, v := range sorted {
		if i > 0 && sorted[i-1].RuleID == v.RuleID && sorted[i-1].Location == v.Location {
			continue
		}

		out = append(out, v)
	}

	diags := make([]m.Diagnostic, 0, len(errs))
	for _, err := range errs {
		diags = append(diags, diagnosticFor(err))
	}

	report := m.Report{Violations: out}
	report.Diagnostics = sortDiagnostics(diags)

	return report
}

// sortViolations orders violations in place by location, rule id and
// message.
func sortViolations(violations []m.Violation) {
	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Location != b.Location {
			return a.Location.Less(b.Location)
		}

		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}

		return a.Message < b.Message
	})
}

// sortDiagnostics orders diagnostics by location, phase, rule id and
// message and drops exact duplicates. It returns nil for no diagnostics.
func sortDiagnostics(diags []m.Diagnostic) []m.Diagnostic {
	if len(diags) == 0 {
		return nil
	}

	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Location != b.Location {
			return a.Location.Less(b.Location)
		}

		if a.Phase != b.Phase {
			return a.Phase < b.Phase
		}

		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}

		return a.Message < b.Message
	})

	uniq := make([]m.Diagnostic, 0, len(diags))

	for i, d := range diags {
		if i > 0 && diags[i-1] == d {
			continue
		}

		uniq = append(uniq, d)
	}

	return uniq
}
