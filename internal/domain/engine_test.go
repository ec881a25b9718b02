package domain_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/mouse-blink/ngstyle/internal/adapter"
	"github.com/mouse-blink/ngstyle/internal/domain"
	"github.com/mouse-blink/ngstyle/internal/domain/rules"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

const componentTS = `import { Component } from '@angular/core';

const defaultLoaded = false;
// ngstyle:ignore constant-case
const pageSize = 10;
export enum Status { Active }

@Component({
  selector: 'app-root',
  template: ` + "`<input value=\"{{key}}px\">`" + `,
})
export class AppComponent {
  compare(a: number, b: number, reversed: boolean, absolute: boolean): number {
    return 0;
  }
}
`

const listHTML = `<ul>
  @for (item of items; track item) {
    <li>{{ item.id }}: {{ item.value }}</li>
  }
</ul>
<p *ngIf="visible">shown</p>
`

type finding struct {
	Rule       string
	File       m.Path
	Line       int
	Suggestion string
}

func findings(report m.Report) []finding {
	out := make([]finding, 0, len(report.Violations))
	for _, v := range report.Violations {
		out = append(out, finding{Rule: v.RuleID, File: v.Location.File, Line: v.Location.Line, Suggestion: v.Suggestion})
	}

	return out
}

func parseUnits(t *testing.T) []m.Unit {
	t.Helper()

	parsers := adapter.DefaultParsers()

	sources := []struct {
		path    m.Path
		content string
	}{
		{"src/app/app.component.ts", componentTS},
		{"src/app/list.component.html", listHTML},
	}

	units := make([]m.Unit, 0, len(sources))

	for _, src := range sources {
		unit, err := parsers.Parse(context.Background(), src.path, []byte(src.content))
		require.NoError(t, err)

		units = append(units, unit)
	}

	return units
}

func newRegistry(t *testing.T, enabled ...string) *domain.Registry {
	t.Helper()

	registry := domain.NewRegistry(enabled...)
	require.NoError(t, rules.Register(registry))

	return registry
}

func TestEngine_Check(t *testing.T) {
	defer goleak.VerifyNone(t)

	units := parseUnits(t)
	engine := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{
		Threads: 2,
		Logger:  zaptest.NewLogger(t),
	})

	report, err := engine.Check(context.Background(), units...)
	require.NoError(t, err)

	want := []finding{
		{Rule: rules.IDConstantCase, File: "src/app/app.component.ts", Line: 3, Suggestion: "DEFAULT_LOADED"},
		{
			Rule: rules.IDNoEnum, File: "src/app/app.component.ts", Line: 6,
			Suggestion: "const Status = { Active: 'Active' } as const; type Status = (typeof Status)[keyof typeof Status];",
		},
		{Rule: rules.IDAttributeInterpolation, File: "src/app/app.component.ts", Line: 10, Suggestion: `[value]="key + 'px'"`},
		{Rule: rules.IDMaxParams, File: "src/app/app.component.ts", Line: 13, Suggestion: "compare(a, b, { reversed, absolute })"},
		{Rule: rules.IDForTrackIdentity, File: "src/app/list.component.html", Line: 2, Suggestion: "track item.id"},
		{Rule: rules.IDControlFlowBlocks, File: "src/app/list.component.html", Line: 6, Suggestion: "@if (visible) { ... }"},
	}

	if diff := cmp.Diff(want, findings(report)); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, report.Files)
	assert.Empty(t, report.Diagnostics)
}

func TestEngine_Deterministic(t *testing.T) {
	defer goleak.VerifyNone(t)

	units := parseUnits(t)
	reversed := []m.Unit{units[1], units[0]}

	first, err := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{Threads: 1}).
		Check(context.Background(), units...)
	require.NoError(t, err)

	for _, threads := range []int{1, 2, 8} {
		got, err := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{Threads: threads}).
			Check(context.Background(), reversed...)
		require.NoError(t, err)

		if diff := cmp.Diff(first, got); diff != "" {
			t.Errorf("Check() with %d threads differs (-first +got):\n%s", threads, diff)
		}
	}
}

func TestEngine_EnabledSubset(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := newRegistry(t, rules.IDNoEnum, rules.IDMaxParams)
	engine := domain.NewEngine(registry, domain.NewScanner(), domain.EngineOptions{})

	report, err := engine.Check(context.Background(), parseUnits(t)...)
	require.NoError(t, err)

	var ids []string
	for _, v := range report.Violations {
		ids = append(ids, v.RuleID)
	}

	assert.Equal(t, []string{rules.IDNoEnum, rules.IDMaxParams}, ids)
	assert.True(t, registry.Frozen())
}

func TestEngine_UnknownEnabledRule(t *testing.T) {
	engine := domain.NewEngine(newRegistry(t, "no-such-rule"), domain.NewScanner(), domain.EngineOptions{})

	_, err := engine.Check(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknownRule)
}

func TestEngine_RuleFailureIsDiagnostic(t *testing.T) {
	defer goleak.VerifyNone(t)

	registry := domain.NewRegistry()
	registry.MustRegister(
		rules.NoEnum(),
		domain.Rule{ID: "broken", AppliesTo: m.KindEnumDeclaration, Check: func(m.Fragment) (*m.Violation, error) {
			panic("broken rule")
		}},
	)

	report, err := domain.NewEngine(registry, domain.NewScanner(), domain.EngineOptions{}).
		Check(context.Background(), parseUnits(t)...)
	require.NoError(t, err)

	require.Len(t, report.Violations, 1)
	assert.Equal(t, rules.IDNoEnum, report.Violations[0].RuleID)

	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, m.PhaseEvaluation, report.Diagnostics[0].Phase)
	assert.Equal(t, "broken", report.Diagnostics[0].RuleID)
	assert.Equal(t, "check panicked: broken rule", report.Diagnostics[0].Message)
}

func TestEngine_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{}).
		Check(ctx, parseUnits(t)...)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_EmptyUnit(t *testing.T) {
	engine := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{})

	for _, unit := range []m.Unit{
		{Path: "empty.ts", Language: m.LanguageTypeScript},
		{Path: "empty.html", Language: m.LanguageTemplate, Root: &m.Node{Kind: m.NodeDocument}},
	} {
		report, err := engine.Check(context.Background(), unit)
		require.NoError(t, err)

		assert.True(t, report.Empty(), unit.Path)
		assert.Empty(t, report.Diagnostics, unit.Path)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	units := parseUnits(t)
	engine := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{Threads: 4})

	first, err := engine.Check(context.Background(), units...)
	require.NoError(t, err)

	second, err := engine.Check(context.Background(), units...)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Check() differs (-first +second):\n%s", diff)
	}
}

func TestEngine_NoUnits(t *testing.T) {
	report, err := domain.NewEngine(newRegistry(t), domain.NewScanner(), domain.EngineOptions{}).
		Check(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Empty())
	assert.Zero(t, report.Files)
}

func parseSource(t *testing.T, path m.Path, content string) m.Unit {
	t.Helper()

	unit, err := adapter.DefaultParsers().Parse(context.Background(), path, []byte(content))
	require.NoError(t, err)

	return unit
}

func TestEngine_NestedFunctionParameters(t *testing.T) {
	const source = `export function join(s: string, xs: string[]): string {
  xs.forEach((x) => {
    s += x;
  });
  xs.forEach((s: number) => {
    s += 1;
  });
  return s;
}
`

	unit := parseSource(t, "src/join.ts", source)
	engine := domain.NewEngine(newRegistry(t, rules.IDNoParameterConcat), domain.NewScanner(), domain.EngineOptions{})

	report, err := engine.Check(context.Background(), unit)
	require.NoError(t, err)

	want := []finding{{Rule: rules.IDNoParameterConcat, File: "src/join.ts", Line: 3, Suggestion: "const result = s + ...;"}}
	if diff := cmp.Diff(want, findings(report)); diff != "" {
		t.Errorf("Check() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_MultiLineIgnore(t *testing.T) {
	const source = `/* ngstyle:ignore
   max-params */
export function f(a: number, b: number, c: number, d: number): void {}

export function g(a: number, b: number, c: number, d: number): void {}
`

	unit := parseSource(t, "src/params.ts", source)
	engine := domain.NewEngine(newRegistry(t, rules.IDMaxParams), domain.NewScanner(), domain.EngineOptions{})

	report, err := engine.Check(context.Background(), unit)
	require.NoError(t, err)

	got := findings(report)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Line)
}
