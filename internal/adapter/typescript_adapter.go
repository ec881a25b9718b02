package adapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// TypeScriptAdapter parses TypeScript with tree-sitter and lowers the tree
// into model nodes. Inline component templates are parsed with the template
// adapter and attached to their class.
type TypeScriptAdapter struct {
	templates *TemplateAdapter
}

// NewTypeScriptAdapter creates a TypeScriptAdapter.
func NewTypeScriptAdapter() *TypeScriptAdapter {
	return &TypeScriptAdapter{templates: NewTemplateAdapter()}
}

// Parse implements ParserAdapter.
func (a *TypeScriptAdapter) Parse(ctx context.Context, path m.Path, content []byte) (m.Unit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return m.Unit{}, fmt.Errorf("parse typescript: %w", err)
	}
	defer tree.Close()

	l := &tsLowerer{ctx: ctx, src: content, templates: a.templates}
	root := tree.RootNode()

	program := l.node(m.NodeProgram, root, "")
	program.Children = l.statements(root)

	if root.HasError() {
		program.Children = append(program.Children, l.missingTokens(root)...)
	}

	return m.Unit{
		Path:     path,
		Language: m.LanguageTypeScript,
		Hash:     contentHash(content),
		Root:     program,
		Comments: l.comments,
	}, nil
}

// exprTypes are the tree-sitter node types lowered by tsLowerer.expr.
var exprTypes = map[string]struct{}{
	"parenthesized_expression":        {},
	"binary_expression":               {},
	"assignment_expression":           {},
	"augmented_assignment_expression": {},
	"template_string":                 {},
	"call_expression":                 {},
	"member_expression":               {},
	"new_expression":                  {},
	"string":                          {},
	"number":                          {},
	"true":                            {},
	"false":                           {},
	"null":                            {},
	"undefined":                       {},
	"unary_expression":                {},
	"as_expression":                   {},
	"identifier":                      {},
	"this":                            {},
	"property_identifier":             {},
	"shorthand_property_identifier":   {},
	"private_property_identifier":     {},
}

// skippedTypes carry type information only.
var skippedTypes = map[string]struct{}{
	"type_annotation":        {},
	"type_arguments":         {},
	"type_parameters":        {},
	"interface_declaration":  {},
	"type_alias_declaration": {},
	"import_statement":       {},
	"ambient_declaration":    {},
}

type tsLowerer struct {
	ctx       context.Context
	src       []byte
	templates *TemplateAdapter
	comments  []m.Comment
}

func (l *tsLowerer) node(kind m.NodeKind, n *sitter.Node, name string) *m.Node {
	return &m.Node{
		Kind: kind,
		Name: name,
		Pos:  origin{}.position(n.StartPoint()),
		Text: n.Content(l.src),
	}
}

func (l *tsLowerer) content(n *sitter.Node) string {
	if n == nil {
		return ""
	}

	return n.Content(l.src)
}

func (l *tsLowerer) comment(n *sitter.Node) {
	l.comments = append(l.comments, m.Comment{
		Text:    n.Content(l.src),
		Pos:     origin{}.position(n.StartPoint()),
		OwnLine: ownLine(l.src, n.StartByte()),
	})
}

// statements lowers the named children of n.
func (l *tsLowerer) statements(n *sitter.Node) []*m.Node {
	var out []*m.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, l.lower(n.NamedChild(i))...)
	}

	return out
}

// lower converts a statement-level node. Declarations may expand to several
// nodes, so export and variable statements flatten into their parent.
func (l *tsLowerer) lower(n *sitter.Node) []*m.Node {
	if n == nil {
		return nil
	}

	if n.IsMissing() || n.Type() == "ERROR" {
		return []*m.Node{errorNode(n, l.src, origin{})}
	}

	if _, ok := exprTypes[n.Type()]; ok {
		return []*m.Node{l.expr(n)}
	}

	if _, ok := skippedTypes[n.Type()]; ok {
		return nil
	}

	switch n.Type() {
	case "comment":
		l.comment(n)
		return nil

	case "export_statement":
		return l.export(n)

	case "class_declaration", "abstract_class_declaration", "class":
		return []*m.Node{l.class(n, nil)}

	case "enum_declaration":
		return []*m.Node{l.enum(n)}

	case "lexical_declaration", "variable_declaration":
		return l.variables(n)

	case "function_declaration", "generator_function_declaration", "function_expression",
		"function", "generator_function", "arrow_function":
		return []*m.Node{l.function(n, "")}

	case "method_definition":
		return []*m.Node{l.method(n, false)}
	}

	other := l.node(m.NodeOther, n, "")
	other.Children = l.statements(n)

	return []*m.Node{other}
}

func (l *tsLowerer) export(n *sitter.Node) []*m.Node {
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		return l.statements(n)
	}

	var decorators []*sitter.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)

		switch c.Type() {
		case "decorator":
			decorators = append(decorators, c)
		case "comment":
			l.comment(c)
		}
	}

	switch decl.Type() {
	case "class_declaration", "abstract_class_declaration":
		return []*m.Node{l.class(decl, decorators)}
	}

	return l.lower(decl)
}

func (l *tsLowerer) class(n *sitter.Node, decorators []*sitter.Node) *m.Node {
	cls := l.node(m.NodeClass, n, l.content(n.ChildByFieldName("name")))

	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "decorator" {
			decorators = append(decorators, c)
		}
	}

	var templates []*m.Node

	for _, d := range decorators {
		cls.Mods.Decorated = true
		cls.Children = append(cls.Children, l.decorator(d))

		if doc := l.inlineTemplate(d); doc != nil {
			templates = append(templates, doc)
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		cls.Children = append(cls.Children, templates...)
		return cls
	}

	decorated := false

	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)

		switch c.Type() {
		case "decorator":
			decorated = true
			cls.Children = append(cls.Children, l.decorator(c))

			continue
		case "comment":
			l.comment(c)
			continue
		case "public_field_definition", "field_definition":
			prop := l.property(c)
			prop.Mods.Decorated = prop.Mods.Decorated || decorated
			cls.Children = append(cls.Children, prop)
		case "method_definition":
			cls.Children = append(cls.Children, l.method(c, decorated))
		case "method_signature", "abstract_method_signature", "index_signature":
		default:
			cls.Children = append(cls.Children, l.lower(c)...)
		}

		decorated = false
	}

	cls.Children = append(cls.Children, templates...)

	return cls
}

func (l *tsLowerer) decorator(d *sitter.Node) *m.Node {
	dec := l.node(m.NodeDecorator, d, "")

	if d.NamedChildCount() > 0 {
		inner := d.NamedChild(0)
		dec.Name = l.content(inner)

		if inner.Type() == "call_expression" {
			dec.Name = l.content(inner.ChildByFieldName("function"))
		}

		dec.Children = []*m.Node{l.expr(inner)}
	}

	return dec
}

// inlineTemplate parses the template property of @Component({...}).
func (l *tsLowerer) inlineTemplate(d *sitter.Node) *m.Node {
	if d.NamedChildCount() == 0 {
		return nil
	}

	call := d.NamedChild(0)
	if call.Type() != "call_expression" || l.content(call.ChildByFieldName("function")) != "Component" {
		return nil
	}

	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 || args.NamedChild(0).Type() != "object" {
		return nil
	}

	obj := args.NamedChild(0)

	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}

		key := strings.Trim(l.content(pair.ChildByFieldName("key")), `'"`)
		value := pair.ChildByFieldName("value")

		if key != "template" || value == nil || (value.Type() != "template_string" && value.Type() != "string") {
			continue
		}

		raw := l.content(value)
		if len(raw) < 2 {
			return nil
		}

		start := value.StartPoint()
		at := origin{row: start.Row, column: start.Column + 1}

		doc, comments, err := l.templates.parse(l.ctx, []byte(raw[1:len(raw)-1]), at)
		if err != nil {
			failed := errorNode(value, l.src, origin{})
			failed.Value = err.Error()

			return failed
		}

		l.comments = append(l.comments, comments...)

		return doc
	}

	return nil
}

func (l *tsLowerer) modifiers(n *sitter.Node) m.Modifiers {
	var mods m.Modifiers

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)

		switch c.Type() {
		case "accessibility_modifier":
			mods.Access = m.Access(l.content(c))
		case "static":
			mods.Static = true
		case "readonly":
			mods.Readonly = true
		case "decorator":
			mods.Decorated = true
		case "get", "set":
			mods.Accessor = true
		case "?":
			mods.Optional = true
		}
	}

	return mods
}

func typeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(n.Content(src)), ":"))
}

func (l *tsLowerer) property(n *sitter.Node) *m.Node {
	name := n.ChildByFieldName("name")

	prop := l.node(m.NodeProperty, n, l.content(name))
	prop.Mods = l.modifiers(n)
	prop.Type = typeText(n.ChildByFieldName("type"), l.src)

	if name != nil && name.Type() == "private_property_identifier" && prop.Mods.Access == m.AccessNone {
		prop.Mods.Access = m.AccessPrivate
	}

	if value := n.ChildByFieldName("value"); value != nil {
		prop.Init = l.expr(value)
		prop.Children = append(prop.Children, prop.Init)
	}

	return prop
}

func (l *tsLowerer) method(n *sitter.Node, decorated bool) *m.Node {
	name := l.content(n.ChildByFieldName("name"))

	fn := l.node(m.NodeMethod, n, name)
	fn.Mods = l.modifiers(n)
	fn.Mods.Constructor = name == "constructor"
	fn.Mods.Decorated = fn.Mods.Decorated || decorated

	if strings.HasPrefix(name, "#") && fn.Mods.Access == m.AccessNone {
		fn.Mods.Access = m.AccessPrivate
	}

	fn.Children = l.params(n.ChildByFieldName("parameters"))

	if body := n.ChildByFieldName("body"); body != nil {
		fn.Children = append(fn.Children, l.lower(body)...)
	}

	return fn
}

func (l *tsLowerer) function(n *sitter.Node, name string) *m.Node {
	if own := l.content(n.ChildByFieldName("name")); own != "" {
		name = own
	}

	fn := l.node(m.NodeFunction, n, name)

	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Children = l.params(params)
	} else if single := n.ChildByFieldName("parameter"); single != nil {
		fn.Children = []*m.Node{l.node(m.NodeParameter, single, l.content(single))}
	}

	if body := n.ChildByFieldName("body"); body != nil {
		fn.Children = append(fn.Children, l.lower(body)...)
	}

	return fn
}

func (l *tsLowerer) params(n *sitter.Node) []*m.Node {
	if n == nil {
		return nil
	}

	var out []*m.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)

		switch c.Type() {
		case "required_parameter", "optional_parameter":
			out = append(out, l.param(c))
		case "comment":
			l.comment(c)
		default:
			out = append(out, l.lower(c)...)
		}
	}

	return out
}

func (l *tsLowerer) param(n *sitter.Node) *m.Node {
	pattern := n.ChildByFieldName("pattern")
	if pattern == nil {
		pattern = n.ChildByFieldName("name")
	}

	p := l.node(m.NodeParameter, n, l.content(pattern))
	p.Mods = l.modifiers(n)
	p.Mods.Optional = p.Mods.Optional || n.Type() == "optional_parameter"
	p.Type = typeText(n.ChildByFieldName("type"), l.src)

	if pattern != nil && pattern.Type() == "rest_pattern" {
		p.Mods.Rest = true
		p.Name = strings.TrimPrefix(p.Name, "...")
	}

	if value := n.ChildByFieldName("value"); value != nil {
		p.Init = l.expr(value)
		p.Children = append(p.Children, p.Init)
	}

	return p
}

func (l *tsLowerer) variables(n *sitter.Node) []*m.Node {
	isConst := false

	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "const" {
			isConst = true
		}
	}

	var out []*m.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)

		switch decl.Type() {
		case "comment":
			l.comment(decl)
			continue
		case "variable_declarator":
		default:
			out = append(out, l.lower(decl)...)
			continue
		}

		name := l.content(decl.ChildByFieldName("name"))

		v := l.node(m.NodeVariable, decl, name)
		v.Mods.Const = isConst
		v.Type = typeText(decl.ChildByFieldName("type"), l.src)

		if value := decl.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function_expression", "function", "generator_function":
				v.Init = l.function(value, name)
			default:
				v.Init = l.expr(value)
			}

			v.Children = []*m.Node{v.Init}
		}

		out = append(out, v)
	}

	return out
}

func (l *tsLowerer) enum(n *sitter.Node) *m.Node {
	e := l.node(m.NodeEnum, n, l.content(n.ChildByFieldName("name")))

	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "const" {
			e.Mods.Const = true
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return e
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)

		switch c.Type() {
		case "enum_assignment":
			member := l.node(m.NodeEnumMember, c, l.content(c.ChildByFieldName("name")))
			member.Value = l.content(c.ChildByFieldName("value"))
			e.Children = append(e.Children, member)
		case "property_identifier", "string":
			e.Children = append(e.Children, l.node(m.NodeEnumMember, c, l.content(c)))
		case "comment":
			l.comment(c)
		}
	}

	return e
}

// expr lowers an expression node.
func (l *tsLowerer) expr(n *sitter.Node) *m.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return errorNode(n, l.src, origin{})
	}

	switch n.Type() {
	case "parenthesized_expression":
		paren := l.node(m.NodeParen, n, "")
		for i := 0; i < int(n.NamedChildCount()); i++ {
			paren.Children = append(paren.Children, l.expr(n.NamedChild(i)))
		}

		return paren

	case "binary_expression":
		bin := l.node(m.NodeBinary, n, l.operator(n))
		bin.Children = l.exprs(n.ChildByFieldName("left"), n.ChildByFieldName("right"))

		return bin

	case "assignment_expression", "augmented_assignment_expression":
		op := "="
		if n.Type() == "augmented_assignment_expression" {
			op = l.operator(n)
		}

		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")

		assign := l.node(m.NodeAssignment, n, op)
		assign.Value = l.content(left)
		assign.Children = l.exprs(left, right)

		if right != nil {
			assign.Init = assign.Children[len(assign.Children)-1]
		}

		return assign

	case "template_string":
		return l.templateString(n)

	case "call_expression":
		fn := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")

		call := l.node(m.NodeCall, n, l.content(fn))
		call.Children = l.exprs(fn)

		if args != nil {
			call.Value = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(l.content(args), "("), ")"))

			if args.Type() == "arguments" {
				call.Children = append(call.Children, l.statements(args)...)
			} else {
				call.Children = append(call.Children, l.expr(args))
			}
		}

		return call

	case "member_expression":
		member := l.node(m.NodeMember, n, l.content(n.ChildByFieldName("property")))
		member.Children = l.exprs(n.ChildByFieldName("object"))

		return member

	case "new_expression":
		ctor := l.node(m.NodeNew, n, l.content(n.ChildByFieldName("constructor")))
		if args := n.ChildByFieldName("arguments"); args != nil {
			ctor.Children = l.statements(args)
		}

		return ctor

	case "string":
		s := l.node(m.NodeString, n, "")
		if raw := l.content(n); len(raw) >= 2 {
			s.Value = raw[1 : len(raw)-1]
		}

		return s

	case "number":
		num := l.node(m.NodeNumber, n, "")
		num.Value = num.Text

		return num

	case "true", "false", "null", "undefined":
		lit := l.node(m.NodeLiteral, n, "")
		lit.Value = lit.Text

		return lit

	case "unary_expression":
		unary := l.node(m.NodeUnary, n, l.operator(n))
		unary.Children = l.exprs(n.ChildByFieldName("argument"))

		return unary

	case "as_expression":
		kind := m.NodeOther
		if last := n.Child(int(n.ChildCount()) - 1); last != nil && last.Type() == "const" {
			kind = m.NodeAsConst
		}

		as := l.node(kind, n, "")
		if n.NamedChildCount() > 0 {
			as.Children = l.exprs(n.NamedChild(0))
		}

		return as

	case "identifier", "this", "property_identifier", "shorthand_property_identifier", "private_property_identifier":
		return l.node(m.NodeIdentifier, n, l.content(n))
	}

	nodes := l.lower(n)
	if len(nodes) == 1 {
		return nodes[0]
	}

	other := l.node(m.NodeOther, n, "")
	other.Children = nodes

	return other
}

func (l *tsLowerer) exprs(nodes ...*sitter.Node) []*m.Node {
	out := make([]*m.Node, 0, len(nodes))

	for _, n := range nodes {
		if n != nil {
			out = append(out, l.expr(n))
		}
	}

	return out
}

func (l *tsLowerer) operator(n *sitter.Node) string {
	return l.content(n.ChildByFieldName("operator"))
}

// templateString keeps the literal text in Value and lowers each
// substitution as a child.
func (l *tsLowerer) templateString(n *sitter.Node) *m.Node {
	ts := l.node(m.NodeTemplateString, n, "")

	start, end := n.StartByte()+1, n.EndByte()-1
	if end < start {
		return ts
	}

	var literal strings.Builder

	cursor := start

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "template_substitution" {
			continue
		}

		literal.Write(l.src[cursor:c.StartByte()])
		cursor = c.EndByte()

		if c.NamedChildCount() > 0 {
			ts.Children = append(ts.Children, l.expr(c.NamedChild(0)))
		}
	}

	if cursor < end {
		literal.Write(l.src[cursor:end])
	}

	ts.Value = literal.String()

	return ts
}

// missingTokens reports punctuation the parser had to invent. Named nodes,
// missing or not, are already lowered in place.
func (l *tsLowerer) missingTokens(n *sitter.Node) []*m.Node {
	var out []*m.Node

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)

		switch {
		case c.IsMissing() && !c.IsNamed():
			out = append(out, errorNode(c, l.src, origin{}))
		case c.HasError() && c.Type() != "ERROR":
			out = append(out, l.missingTokens(c)...)
		}
	}

	return out
}
