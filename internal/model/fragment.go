package model

// FragmentKind is the category of source a rule inspects.
type FragmentKind string

const (
	KindTemplateAttribute   FragmentKind = "template-attribute"
	KindTemplateControlFlow FragmentKind = "template-control-flow"
	KindEnumDeclaration     FragmentKind = "enum-declaration"
	KindStringConcat        FragmentKind = "string-concat-expression"
	KindClassMember         FragmentKind = "class-member"
	KindParameterList       FragmentKind = "parameter-list"
	KindConstantDeclaration FragmentKind = "constant-declaration"
)

// FragmentKinds lists every kind in a fixed order.
var FragmentKinds = []FragmentKind{
	KindTemplateAttribute,
	KindTemplateControlFlow,
	KindEnumDeclaration,
	KindStringConcat,
	KindClassMember,
	KindParameterList,
	KindConstantDeclaration,
}

// Scope is the enclosing context of a fragment.
type Scope struct {
	// Function is the name of the enclosing function or method, if any.
	Function string
	// Params holds the parameters of the enclosing function.
	Params []*Node
	// Class is the enclosing class name.
	Class string
	// Members are the members of the enclosing class, in declaration order.
	Members []*Node
	// Index is the position of the fragment's node inside Members.
	Index int
}

// Param returns the parameter of the enclosing function called name, or nil.
func (s Scope) Param(name string) *Node {
	for _, p := range s.Params {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// LoopHeader is the parsed parameter list of an @for block.
type LoopHeader struct {
	Item       string
	Collection string
	Track      string
	// ItemFields are the properties read from Item inside the block body,
	// in first-use order.
	ItemFields []string
}

// Fragment is a located piece of parsed source handed to rules. It is a
// read-only snapshot.
type Fragment struct {
	Kind     FragmentKind
	Source   string
	Location Location
	Node     *Node
	Scope    Scope
	Loop     *LoopHeader
}
