package graph

import "sort"

// EntryKind distinguishes how a name became bound in a symbol table
type EntryKind int

const (
	// EntryGlobal is a module-level definition
	EntryGlobal EntryKind = iota
	// EntryMember is a definition declared inside a class-like node's own
	// member table
	EntryMember
	// EntryImported is a name bound by an import, referencing a definition
	// owned by another module
	EntryImported
)

// String returns the entry kind name
func (k EntryKind) String() string {
	switch k {
	case EntryGlobal:
		return "global"
	case EntryMember:
		return "member"
	case EntryImported:
		return "imported"
	}
	return "unknown"
}

// SymbolEntry binds a name in a scope to a definition node
type SymbolEntry struct {
	Kind EntryKind
	Node *Node
}

// SymbolTable maps each bare name of one scope to its symbol entry. Within
// one snapshot a name maps to at most one entry.
type SymbolTable map[string]*SymbolEntry

// Put binds a name to a node with the given entry kind
func (t SymbolTable) Put(name string, kind EntryKind, node *Node) {
	t[name] = &SymbolEntry{Kind: kind, Node: node}
}

// Lookup returns the entry bound to a name
func (t SymbolTable) Lookup(name string) (*SymbolEntry, bool) {
	entry, ok := t[name]
	return entry, ok
}

// Names returns the bound names in sorted order
func (t SymbolTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
