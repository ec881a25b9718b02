package controller

import (
	"time"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

type tickMsg time.Time

// violationItem is a list entry of the report browser.
type violationItem struct {
	violation m.Violation
}

func (v violationItem) FilterValue() string {
	return string(v.violation.Location.File) + " " + v.violation.RuleID + " " + v.violation.Message
}
