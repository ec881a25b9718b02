package domain

import (
	"iter"
	"strings"
	"sync/atomic"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Scanner turns a parsed unit into the fragments rules inspect.
type Scanner interface {
	// Scan returns a lazy, one-shot sequence of fragments in source order.
	// Malformed input is yielded as a *FragmentExtractionError paired with a
	// zero fragment; the sequence continues after it.
	Scan(unit m.Unit) iter.Seq2[m.Fragment, error]
}

type scanner struct{}

// NewScanner creates a Scanner.
func NewScanner() Scanner {
	return &scanner{}
}

func (s *scanner) Scan(unit m.Unit) iter.Seq2[m.Fragment, error] {
	var consumed atomic.Bool

	return func(yield func(m.Fragment, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(m.Fragment{}, ErrSequenceConsumed)
			return
		}

		w := &fragmentWalker{unit: unit, yield: yield}
		w.walk(unit.Root, nil, m.Scope{})
	}
}

type fragmentWalker struct {
	unit    m.Unit
	yield   func(m.Fragment, error) bool
	stopped bool
}

func (w *fragmentWalker) emit(kind m.FragmentKind, n *m.Node, scope m.Scope, loop *m.LoopHeader) {
	if w.stopped {
		return
	}

	f := m.Fragment{
		Kind:     kind,
		Source:   n.Text,
		Location: m.At(w.unit.Path, n.Pos),
		Node:     n,
		Scope:    scope,
		Loop:     loop,
	}

	if !w.yield(f, nil) {
		w.stopped = true
	}
}

func (w *fragmentWalker) fail(kind m.FragmentKind, n *m.Node, reason string) {
	if w.stopped {
		return
	}

	err := &FragmentExtractionError{
		Location: m.At(w.unit.Path, n.Pos),
		Kind:     kind,
		Reason:   reason,
	}

	if !w.yield(m.Fragment{}, err) {
		w.stopped = true
	}
}

func (w *fragmentWalker) walk(n, parent *m.Node, scope m.Scope) {
	if n == nil || w.stopped {
		return
	}

	switch n.Kind {
	case m.NodeError:
		reason := "unparseable input"
		if n.Value != "" {
			reason = n.Value
		}

		w.fail("", n, reason)

		return

	case m.NodeAttribute:
		w.emit(m.KindTemplateAttribute, n, scope, nil)

		if _, ok := LegacyDirective(n.Name); ok {
			w.emit(m.KindTemplateControlFlow, n, scope, nil)
		}

		return

	case m.NodeBlock:
		w.scanBlock(n, scope)

	case m.NodeEnum:
		w.emit(m.KindEnumDeclaration, n, scope, nil)

		return

	case m.NodeClass:
		w.scanClass(n, scope)

		return

	case m.NodeMethod, m.NodeFunction:
		w.scanFunction(n, scope)

		return

	case m.NodeVariable:
		if parent != nil && parent.Kind == m.NodeProgram && n.Mods.Const {
			w.emit(m.KindConstantDeclaration, n, scope, nil)
		}

	case m.NodeBinary:
		if n.Name == "+" && (parent == nil || parent.Kind != m.NodeBinary || parent.Name != "+") {
			w.emit(m.KindStringConcat, n, scope, nil)
		}

	case m.NodeTemplateString:
		w.emit(m.KindStringConcat, n, scope, nil)

	case m.NodeCall:
		if strings.HasSuffix(n.Name, ".toString") {
			w.emit(m.KindStringConcat, n, scope, nil)
		}

	case m.NodeAssignment:
		if n.Name == "+=" || (n.Name == "=" && isConcatenation(n.Init)) {
			w.emit(m.KindStringConcat, n, scope, nil)
		}
	}

	for _, c := range n.Children {
		w.walk(c, n, scope)
	}
}

func (w *fragmentWalker) scanBlock(n *m.Node, scope m.Scope) {
	if n.Name != "for" {
		w.emit(m.KindTemplateControlFlow, n, scope, nil)
		return
	}

	header, err := parseLoopHeader(n.Value)
	if err != nil {
		w.fail(m.KindTemplateControlFlow, n, err.Error())
		return
	}

	header.ItemFields = itemFields(n, header.Item)
	w.emit(m.KindTemplateControlFlow, n, scope, &header)
}

func (w *fragmentWalker) scanClass(n *m.Node, scope m.Scope) {
	var members []*m.Node

	for _, c := range n.Children {
		if c.Kind == m.NodeProperty || c.Kind == m.NodeMethod {
			members = append(members, c)
		}
	}

	memberIndex := 0

	for _, c := range n.Children {
		if c.Kind != m.NodeProperty && c.Kind != m.NodeMethod {
			w.walk(c, n, scope)
			continue
		}

		memberScope := m.Scope{Class: n.Name, Members: members, Index: memberIndex}
		memberIndex++

		w.emit(m.KindClassMember, c, memberScope, nil)

		if c.Kind == m.NodeProperty {
			if c.Mods.Readonly {
				w.emit(m.KindConstantDeclaration, c, memberScope, nil)
			}

			for _, gc := range c.Children {
				w.walk(gc, c, m.Scope{Class: n.Name})
			}

			continue
		}

		w.scanFunction(c, m.Scope{Class: n.Name})
	}
}

func (w *fragmentWalker) scanFunction(n *m.Node, scope m.Scope) {
	// Own parameters come first so they shadow the enclosing ones.
	own := n.ChildrenOf(m.NodeParameter)
	params := make([]*m.Node, 0, len(own)+len(scope.Params))
	params = append(params, own...)
	params = append(params, scope.Params...)

	fnScope := m.Scope{Function: n.Name, Params: params, Class: scope.Class}

	w.emit(m.KindParameterList, n, fnScope, nil)

	for _, c := range n.Children {
		w.walk(c, n, fnScope)
	}
}

func isConcatenation(n *m.Node) bool {
	if n == nil {
		return false
	}

	return (n.Kind == m.NodeBinary && n.Name == "+") || n.Kind == m.NodeTemplateString
}

// itemFields collects the properties read from item inside a block body.
func itemFields(block *m.Node, item string) []string {
	seen := make(map[string]struct{})

	var fields []string

	for _, expr := range bodyExpressions(block) {
		for _, f := range fieldsOf(expr, item) {
			if _, ok := seen[f]; ok {
				continue
			}

			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}

	return fields
}

// bodyExpressions returns the template expressions found below n.
func bodyExpressions(n *m.Node) []string {
	var exprs []string

	for _, c := range n.Children {
		c.Walk(func(x *m.Node) bool {
			switch x.Kind {
			case m.NodeText:
				exprs = append(exprs, interpolated(x.Value)...)
			case m.NodeAttribute:
				if IsBoundAttribute(x.Name) {
					exprs = append(exprs, x.Value)
				} else {
					exprs = append(exprs, interpolated(x.Value)...)
				}
			case m.NodeBlock:
				exprs = append(exprs, x.Value)
			}

			return true
		})
	}

	return exprs
}

func interpolated(s string) []string {
	segs, _ := splitInterpolations(s)

	var out []string

	for _, seg := range segs {
		if seg.expr {
			out = append(out, seg.text)
		}
	}

	return out
}
