package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

const (
	severityWidth = 8
	ruleWidth     = 28
)

var severityColors = map[m.Severity]lipgloss.Color{
	m.SeverityError:   lipgloss.Color("9"),
	m.SeverityWarning: lipgloss.Color("11"),
	m.SeverityInfo:    lipgloss.Color("12"),
}

// violationDelegate renders one violation per line.
type violationDelegate struct {
	offset int
}

func (d violationDelegate) Height() int  { return 1 }
func (d violationDelegate) Spacing() int { return 0 }
func (d violationDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d violationDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	vi, ok := item.(violationItem)
	if !ok {
		return
	}

	v := vi.violation
	severity := severityOf(v)
	location := formatLocation(v.Location)
	width := lm.Width() - severityWidth - ruleWidth - 4

	sevStyle := lipgloss.NewStyle().Width(severityWidth).Foreground(severityColors[severity]).Bold(true)
	ruleStyle := lipgloss.NewStyle().Width(ruleWidth).Foreground(lipgloss.Color("13"))
	locStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	if index == lm.Index() {
		sevStyle = sevStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
		ruleStyle = ruleStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
		locStyle = locStyle.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
		location = scrollText(location, width, d.offset)
	} else {
		location = truncateToWidth(location, width)
	}

	_, _ = fmt.Fprintf(w, "%s  %s  %s",
		sevStyle.Render(string(severity)),
		ruleStyle.Render(truncateToWidth(v.RuleID, ruleWidth)),
		locStyle.Render(location),
	)
}

// scrollText shows a width-wide window of text that moves with offset,
// after a short pause, so long paths can be read in full.
func scrollText(text string, width, offset int) string {
	const pause = 5

	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width || offset < pause {
		return truncateToWidth(text, width)
	}

	loop := []rune(text + "   ")
	start := (offset - pause) % len(loop)

	window := make([]rune, 0, width)
	for i := range width {
		window = append(window, loop[(start+i)%len(loop)])
	}

	return string(window)
}

// truncateToWidth cuts text to width cells, ending it with an ellipsis.
func truncateToWidth(text string, width int) string {
	const ellipsis = "…"

	switch {
	case width <= 0:
		return ""
	case lipgloss.Width(text) <= width:
		return text
	case width == 1:
		return ellipsis
	}

	limit := width - lipgloss.Width(ellipsis)
	used := 0

	out := make([]rune, 0, limit)

	for _, r := range text {
		w := lipgloss.Width(string(r))
		if used+w > limit {
			break
		}

		out = append(out, r)
		used += w
	}

	return string(out) + ellipsis
}

// reportModel browses the violations of one report.
type reportModel struct {
	width        int
	height       int
	report       m.Report
	violations   list.Model
	delegate     violationDelegate
	animOffset   int
	lastSelected int
}

func newReportModel(report m.Report) reportModel {
	delegate := violationDelegate{}

	items := make([]list.Item, 0, len(report.Violations))
	for _, v := range report.Violations {
		items = append(items, violationItem{violation: v})
	}

	violations := list.New(items, delegate, 80, 20)
	violations.SetShowPagination(false)
	violations.SetShowFilter(true)
	violations.SetShowHelp(false)
	violations.SetShowTitle(false)
	violations.SetShowStatusBar(false)
	violations.FilterInput.Placeholder = "Filter by path, rule or message…"

	return reportModel{
		width:        80,
		height:       24,
		report:       report,
		violations:   violations,
		delegate:     delegate,
		lastSelected: 0,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm reportModel) Init() tea.Cmd {
	return tick(time.Second / 2)
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height

		return rm, nil

	case tickMsg:
		if rm.violations.FilterState() == list.Filtering {
			return rm, tick(time.Second / 2)
		}

		rm.animOffset++
		rm.delegate.offset = rm.animOffset
		rm.violations.SetDelegate(rm.delegate)

		return rm, tick(150 * time.Millisecond)

	case tea.KeyMsg:
		filtering := rm.violations.FilterState() == list.Filtering

		switch msg.String() {
		case "ctrl+c":
			return rm, tea.Quit
		case "q":
			if !filtering {
				return rm, tea.Quit
			}
		}

		var cmd tea.Cmd

		rm.violations, cmd = rm.violations.Update(msg)

		if rm.violations.Index() != rm.lastSelected {
			rm.lastSelected = rm.violations.Index()
			rm.animOffset = 0
			rm.delegate.offset = 0
			rm.violations.SetDelegate(rm.delegate)
		}

		return rm, cmd
	}

	return rm, nil
}

func (rm reportModel) selected() (m.Violation, bool) {
	item, ok := rm.violations.SelectedItem().(violationItem)
	if !ok {
		return m.Violation{}, false
	}

	return item.violation, true
}

func (rm reportModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("ngstyle report")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Violations: %s   Files: %s   Diagnostics: %s",
		accentStyle.Render(fmt.Sprintf("%d", len(rm.report.Violations))),
		accentStyle.Render(fmt.Sprintf("%d", rm.report.Files)),
		accentStyle.Render(fmt.Sprintf("%d", len(rm.report.Diagnostics))),
	))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width).
		Render("↑/k up • ↓/j down • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		rm.renderTable(),
		rm.renderDetail(),
		footer,
	)
}

// renderTable draws the violation list. The list takes what is left of the
// screen after title (2), summary (2), detail (5), footer (1) and borders (4).
func (rm reportModel) renderTable() string {
	listHeight := max(rm.height-14, 5)
	listWidth := max(rm.width-6, 20)

	rm.violations.SetHeight(listHeight)
	rm.violations.SetWidth(listWidth)

	headers := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth).
		Render(fmt.Sprintf("%-*s  %-*s  %s", severityWidth, "Severity", ruleWidth, "Rule", "Location"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, headers, rm.violations.View()))
}

// renderDetail shows the message and suggestion of the selected violation.
func (rm reportModel) renderDetail() string {
	v, ok := rm.selected()
	if !ok {
		return ""
	}

	width := max(rm.width-6, 20)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	textStyle := lipgloss.NewStyle().Width(width - 12)

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Message"), textStyle.Render(v.Message)),
	}

	if v.Suggestion != "" {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render("Suggestion"),
			textStyle.Foreground(lipgloss.Color("10")).Render(v.Suggestion)))
	}

	return lipgloss.NewStyle().
		Margin(0, 1).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
