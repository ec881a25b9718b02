package rules

import (
	m "github.com/mouse-blink/ngstyle/internal/model"
)

func fragment(kind m.FragmentKind, n *m.Node) m.Fragment {
	return m.Fragment{
		Kind:     kind,
		Source:   n.Text,
		Location: m.Location{File: "src/app/app.component.ts", Line: 3, Column: 5},
		Node:     n,
	}
}

func ident(name string) *m.Node {
	return &m.Node{Kind: m.NodeIdentifier, Name: name, Text: name}
}

func str(value string) *m.Node {
	return &m.Node{Kind: m.NodeString, Value: value, Text: "'" + value + "'"}
}

func num(text string) *m.Node {
	return &m.Node{Kind: m.NodeNumber, Value: text, Text: text}
}

func plus(left, right *m.Node) *m.Node {
	return &m.Node{Kind: m.NodeBinary, Name: "+", Text: left.Text + " + " + right.Text, Children: []*m.Node{left, right}}
}

func call(callee, args string) *m.Node {
	return &m.Node{Kind: m.NodeCall, Name: callee, Value: args, Text: callee + "(" + args + ")"}
}

func param(name, typ string, mods m.Modifiers) *m.Node {
	return &m.Node{Kind: m.NodeParameter, Name: name, Type: typ, Mods: mods, Text: name}
}

func function(name string, params ...*m.Node) *m.Node {
	return &m.Node{Kind: m.NodeFunction, Name: name, Children: params}
}

func property(name string, mods m.Modifiers, typ string, init *m.Node) *m.Node {
	n := &m.Node{Kind: m.NodeProperty, Name: name, Mods: mods, Type: typ, Text: name}
	if init != nil {
		n.Init = init
		n.Children = []*m.Node{init}
	}

	return n
}

func variable(name string, init *m.Node) *m.Node {
	return &m.Node{Kind: m.NodeVariable, Name: name, Mods: m.Modifiers{Const: true}, Init: init, Children: []*m.Node{init}}
}

// memberFragments builds the class-member fragments the scanner would emit
// for members.
func memberFragments(members ...*m.Node) []m.Fragment {
	out := make([]m.Fragment, 0, len(members))

	for i, member := range members {
		f := fragment(m.KindClassMember, member)
		f.Location.Line = i + 1
		f.Scope = m.Scope{Class: "Store", Members: members, Index: i}
		out = append(out, f)
	}

	return out
}
