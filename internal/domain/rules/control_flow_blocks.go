package rules

import (
	"fmt"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDControlFlowBlocks flags structural directives replaced by block syntax.
const IDControlFlowBlocks = "prefer-control-flow-blocks"

// ControlFlowBlocks requires @if/@for/@switch blocks over *ngIf, *ngFor and
// ngSwitch directives.
func ControlFlowBlocks() domain.Rule {
	return domain.Rule{
		ID:          IDControlFlowBlocks,
		Description: "Use @if, @for and @switch blocks instead of structural directives",
		Rationale:   domain.RationaleReadability,
		AppliesTo:   m.KindTemplateControlFlow,
		Check:       checkControlFlowBlocks,
	}
}

func checkControlFlowBlocks(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil || n.Kind != m.NodeAttribute {
		return nil, nil
	}

	block, ok := domain.LegacyDirective(n.Name)
	if !ok {
		return nil, nil
	}

	suggestion := fmt.Sprintf("%s (%s) { ... }", block, n.Value)
	if n.Value == "" {
		suggestion = block + " { ... }"
	}

	return domain.NewViolation(IDControlFlowBlocks, f,
		fmt.Sprintf("%s is legacy control flow; use the %s block, which reads better and needs no directive import", n.Name, block),
		suggestion,
	), nil
}
