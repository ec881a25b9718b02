package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// SimpleUI implements UI with plain tables on the command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayReport prints violations as a table followed by diagnostics.
func (s *SimpleUI) DisplayReport(report m.Report) error {
	if report.Empty() {
		s.printf("No style violations in %d %s.\n", report.Files, plural(report.Files, "file", "files"))
		s.printDiagnostics(report.Diagnostics)

		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Location", "Rule", "Severity", "Message", "Suggestion"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	files := make(map[m.Path]struct{})

	for _, v := range report.Violations {
		files[v.Location.File] = struct{}{}
		table.Append([]string{
			formatLocation(v.Location),
			v.RuleID,
			string(severityOf(v)),
			v.Message,
			v.Suggestion,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Files %d/%d", len(files), report.Files),
		"", "",
		fmt.Sprintf("Violations %d", len(report.Violations)),
		"",
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
	s.printDiagnostics(report.Diagnostics)

	return nil
}

// DisplayRules prints the registered rules.
func (s *SimpleUI) DisplayRules(rules []m.RuleInfo) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Applies To", "Rationale", "Severity", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	enabled := 0

	for _, rule := range rules {
		severity := string(rule.Severity)
		if !rule.Enabled {
			severity = string(m.SeverityOff)
		} else {
			enabled++
		}

		table.Append([]string{rule.ID, string(rule.Kind), rule.Rationale, severity, rule.Description})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(rules)), "", "", fmt.Sprintf("Enabled %d", enabled), ""})
	table.Render()
	s.printf("%s", tableBuffer.String())

	return nil
}

func (s *SimpleUI) printDiagnostics(diags []m.Diagnostic) {
	if len(diags) == 0 {
		return
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n%d %s:\n", len(diags), plural(len(diags), "diagnostic", "diagnostics"))

	for _, d := range diags {
		rule := ""
		if d.RuleID != "" {
			rule = " [" + d.RuleID + "]"
		}

		fmt.Fprintf(&b, "  %s %s%s: %s\n", d.Phase, formatLocation(d.Location), rule, d.Message)
	}

	_, _ = fmt.Fprint(s.cmd.ErrOrStderr(), b.String())
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
