package graph

// Kind identifies the concrete construct a Node stands for
type Kind int

const (
	// KindModule is a top-level compilation unit owning a module symbol table
	KindModule Kind = iota
	// KindClass is a class-like construct owning a nested member table
	KindClass
	// KindFunc is a function or method definition
	KindFunc
	// KindVar is a variable, constant or attribute definition
	KindVar
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindFunc:
		return "func"
	case KindVar:
		return "var"
	}
	return "unknown"
}

// Node represents one syntactic/semantic definition in a module graph.
//
// The *Node value is the definition's identity: it is the handle other
// components hold to recognize the same logical definition across
// re-analysis. All content lives behind a single state pointer so that two
// identities can be made to alias one storage cell by Transplant - the
// mechanism the incremental merge relies on.
type Node struct {
	state *nodeState
}

// nodeState carries every content field a definition owns. Swapping or
// sharing this pointer is what preserves identity across revisions.
type nodeState struct {
	kind      Kind
	fullName  string
	signature string
	typeHint  string
	doc       string
	body      string
	bases     []string
	members   SymbolTable
}

// NewNode creates a definition node of the given kind with the given
// qualified name
func NewNode(kind Kind, fullName string) *Node {
	state := &nodeState{kind: kind, fullName: fullName}
	if kind == KindModule || kind == KindClass {
		state.members = SymbolTable{}
	}
	return &Node{state: state}
}

// NewModule creates a module node owning an empty module-level symbol table
func NewModule(fullName string) *Node {
	return NewNode(KindModule, fullName)
}

// NewClass creates a class-like node owning an empty member table
func NewClass(fullName string) *Node {
	return NewNode(KindClass, fullName)
}

// Kind returns the concrete kind tag
func (n *Node) Kind() Kind {
	return n.state.kind
}

// FullName returns the dotted qualified name
func (n *Node) FullName() string {
	return n.state.fullName
}

// Name returns the bare name within the owning scope
func (n *Node) Name() string {
	return BaseName(n.state.fullName)
}

// IsClassLike reports whether the node owns a nested member table
// describing class members
func (n *Node) IsClassLike() bool {
	return n.state.kind == KindClass
}

// Members returns the symbol table owned by a module or class-like node;
// nil for other kinds
func (n *Node) Members() SymbolTable {
	return n.state.members
}

// Signature returns the declaration signature
func (n *Node) Signature() string {
	return n.state.signature
}

// SetSignature sets the declaration signature
func (n *Node) SetSignature(signature string) {
	n.state.signature = signature
}

// TypeHint returns the declared type annotation, if any
func (n *Node) TypeHint() string {
	return n.state.typeHint
}

// SetTypeHint sets the declared type annotation
func (n *Node) SetTypeHint(typeHint string) {
	n.state.typeHint = typeHint
}

// Doc returns the documentation text attached to the definition
func (n *Node) Doc() string {
	return n.state.doc
}

// SetDoc sets the documentation text
func (n *Node) SetDoc(doc string) {
	n.state.doc = doc
}

// Body returns the definition source content
func (n *Node) Body() string {
	return n.state.body
}

// SetBody sets the definition source content
func (n *Node) SetBody(body string) {
	n.state.body = body
}

// Bases returns the base names a class-like node extends
func (n *Node) Bases() []string {
	return n.state.bases
}

// AddBase appends a base name to a class-like node
func (n *Node) AddBase(base string) {
	n.state.bases = append(n.state.bases, base)
}

// Aliases reports whether two identities already share one storage cell
func (n *Node) Aliases(other *Node) bool {
	return other != nil && n.state == other.state
}

// Transplant moves src's content into the storage addressed by dst's
// identity and then makes src alias that storage. After the call any
// reference held against either identity observes the same merged state.
// Calling it again on an already merged pair is a no-op.
func Transplant(dst, src *Node) {
	if dst == nil || src == nil || dst.state == src.state {
		return
	}
	*dst.state = *src.state
	src.state = dst.state
}
