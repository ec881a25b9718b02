package controller

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// TUI implements UI with an interactive Bubble Tea report browser.
type TUI struct {
	cmd    *cobra.Command
	simple *SimpleUI
	opts   []tea.ProgramOption
}

// NewTUI creates a new TUI reading keys from the command's input.
func NewTUI(cmd *cobra.Command, opts ...tea.ProgramOption) *TUI {
	return &TUI{cmd: cmd, simple: NewSimpleUI(cmd), opts: opts}
}

// DisplayReport opens the browser until the user quits. Empty reports are
// printed plainly.
func (t *TUI) DisplayReport(report m.Report) error {
	if report.Empty() {
		return t.simple.DisplayReport(report)
	}

	opts := append([]tea.ProgramOption{
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithAltScreen(),
	}, t.opts...)

	if _, err := tea.NewProgram(newReportModel(report), opts...).Run(); err != nil {
		return fmt.Errorf("report browser: %w", err)
	}

	return nil
}

// DisplayRules prints the rule table.
func (t *TUI) DisplayRules(rules []m.RuleInfo) error {
	return t.simple.DisplayRules(rules)
}
