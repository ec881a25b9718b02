package domain

import (
	"fmt"
	"time"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Collector runs rules over a fragment and gathers their violations.
type Collector interface {
	// Collect evaluates every rule in rules that applies to f.Kind. A rule
	// that fails or panics is reported as a *RuleEvaluationError; the
	// remaining rules still run.
	Collect(f m.Fragment, rules []Rule) ([]m.Violation, []error)
}

type collector struct {
	budget time.Duration
}

// NewCollector creates a Collector. A positive budget bounds the time one
// check may take; zero disables the bound.
func NewCollector(budget time.Duration) Collector {
	return &collector{budget: budget}
}

func (c *collector) Collect(f m.Fragment, rules []Rule) ([]m.Violation, []error) {
	var (
		violations []m.Violation
		errs       []error
	)

	for _, rule := range rules {
		if rule.AppliesTo != f.Kind {
			continue
		}

		v, err := c.run(rule, f)
		if err != nil {
			errs = append(errs, &RuleEvaluationError{RuleID: rule.ID, Location: f.Location, Err: err})
			continue
		}

		if v == nil {
			continue
		}

		out := *v
		out.RuleID = rule.ID

		if out.Location == (m.Location{}) {
			out.Location = f.Location
		}

		violations = append(violations, out)
	}

	return violations, errs
}

func (c *collector) run(rule Rule, f m.Fragment) (*m.Violation, error) {
	if c.budget <= 0 {
		return safeCheck(rule, f)
	}

	type result struct {
		v   *m.Violation
		err error
	}

	done := make(chan result, 1)

	go func() {
		v, err := safeCheck(rule, f)
		done <- result{v: v, err: err}
	}()

	timer := time.NewTimer(c.budget)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		return nil, fmt.Errorf("%w (%s)", ErrBudgetExceeded, c.budget)
	}
}

func safeCheck(rule Rule, f m.Fragment) (v *m.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()

	return rule.Check(f)
}
