package model

// NodeKind classifies a node of the neutral syntax tree.
type NodeKind string

// Template node kinds.
const (
	NodeDocument  NodeKind = "document"
	NodeElement   NodeKind = "element"
	NodeAttribute NodeKind = "attribute"
	NodeText      NodeKind = "text"
	// NodeBlock is a control-flow block (@if, @for, @switch, ...). Name holds
	// the keyword, Value the parenthesised parameters.
	NodeBlock NodeKind = "block"
)

// Script node kinds.
const (
	NodeProgram    NodeKind = "program"
	NodeClass      NodeKind = "class"
	NodeProperty   NodeKind = "property"
	NodeMethod     NodeKind = "method"
	NodeFunction   NodeKind = "function"
	NodeParameter  NodeKind = "parameter"
	NodeVariable   NodeKind = "variable"
	NodeEnum       NodeKind = "enum"
	NodeEnumMember NodeKind = "enum_member"
	NodeDecorator  NodeKind = "decorator"

	NodeBinary         NodeKind = "binary"
	NodeAssignment     NodeKind = "assignment"
	NodeTemplateString NodeKind = "template_string"
	NodeCall           NodeKind = "call"
	NodeMember         NodeKind = "member"
	NodeNew            NodeKind = "new"
	NodeIdentifier     NodeKind = "identifier"
	NodeString         NodeKind = "string"
	NodeNumber         NodeKind = "number"
	NodeLiteral        NodeKind = "literal"
	NodeUnary          NodeKind = "unary"
	NodeAsConst        NodeKind = "as_const"
	NodeParen          NodeKind = "paren"
)

// Shared node kinds.
const (
	// NodeError marks input the parser could not make sense of.
	NodeError NodeKind = "error"
	// NodeOther is any construct the rules have no interest in; its children
	// are still lowered.
	NodeOther NodeKind = "other"
)

// Access is a TypeScript accessibility modifier.
type Access string

const (
	AccessNone      Access = ""
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
)

// Modifiers collects declaration flags.
type Modifiers struct {
	Access    Access
	Readonly  bool
	Static    bool
	Const     bool
	Rest      bool
	Optional  bool
	Decorated bool
	// Constructor marks the constructor method.
	Constructor bool
	// Accessor marks get/set methods.
	Accessor bool
}

// Node is one node of the neutral syntax tree produced by parser adapters.
//
// Field usage by kind:
//   - attribute: Name = attribute name, Value = unquoted value
//   - block: Name = keyword without '@', Value = parameters
//   - binary, unary: Name = operator
//   - assignment: Name = operator, Value = target text, Init = right side
//   - call: Name = callee text, Value = argument list text without parens
//   - member: Name = property
//   - template_string: Value = literal text, children = substitutions
//   - enum_member: Name = member name, Value = initializer text
//   - new: Name = constructor text
//   - property, variable, parameter: Type = annotation text without ':'
//
// Expression children keep source order; for property and variable the
// initializer, if any, is the last child and Init points at it.
type Node struct {
	Kind     NodeKind
	Name     string
	Value    string
	Type     string
	Mods     Modifiers
	Pos      Position
	Text     string
	Init     *Node
	Children []*Node
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}

	if !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// ChildrenOf returns the direct children of the given kind.
func (n *Node) ChildrenOf(kind NodeKind) []*Node {
	if n == nil {
		return nil
	}

	var out []*Node

	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}

	return out
}
