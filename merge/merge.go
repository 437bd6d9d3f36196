// Package merge folds a freshly re-analyzed revision of a module graph into
// the previously analyzed one so that externally held references stay valid.
//
// Re-analyzing a changed source file builds a brand new graph and symbol
// table, but other modules hold direct references to nodes of the old graph
// (those exposed through the module symbol table). The merge rewrites node
// identities: every new node with a corresponding old node is transplanted
// into the old node's storage, so existing cross-references keep resolving
// to up-to-date content, while definitions without a counterpart keep fresh
// identities. Definitions whose concrete kind changed (say a function
// replaced by a class) are deliberately left unmerged; re-binding their
// references is the job of the structural diff and dependency machinery,
// not of this package.
//
// The merge must run after the new revision was analyzed and diffed, and
// before any later pass runs: downstream passes assume a single identity
// per logical definition.
package merge

import (
	"fmt"

	"github.com/viant/modgraph/graph"
)

// Modules merges a new revision of a module into a previous revision of the
// same module. Identities of externally visible old nodes that have a
// corresponding new node are preserved; their content afterwards comes from
// the new revision.
//
// When Modules returns, oldModule refers to the merged graph and newTable
// is the authoritative symbol table. newModule, oldTable and any new node
// without a counterpart in the replacement map must no longer be treated as
// authoritative by the caller.
//
// Passing revisions of two different modules is caller misuse and the only
// error condition.
func Modules(oldModule *graph.Node, oldTable graph.SymbolTable, newModule *graph.Node, newTable graph.SymbolTable) error {
	if oldModule.FullName() != newModule.FullName() {
		return fmt.Errorf("cannot merge revisions of different modules: %q vs %q", newModule.FullName(), oldModule.FullName())
	}
	replacements := ReplacementMap(oldTable, newTable, oldModule.FullName())
	// The module node is a container, never listed in its own table, so the
	// table scan cannot discover it; pair it explicitly.
	replacements[newModule] = oldModule
	for src, dst := range replacements {
		graph.Transplant(dst, src)
	}
	return nil
}

// ReplacementMap builds a new-to-old identity map by comparing two symbol
// table revisions of the same module. Tables are compared recursively,
// descending into nested class member tables, but only within the given
// module prefix: names that alias definitions owned by other modules are
// skipped, since those bindings get re-resolved by a separate mechanism.
//
// Two entries correspond when both reference a node, both nodes carry the
// identical concrete kind and qualified name, and both entries carry the
// identical entry kind. Bodies may differ freely - this is a structural
// compatibility test, not content equality. A name whose kind diverged
// between revisions yields no pair; both identities stay distinct.
func ReplacementMap(oldTable, newTable graph.SymbolTable, prefix string) map[*graph.Node]*graph.Node {
	replacements := make(map[*graph.Node]*graph.Node)
	for name, oldEntry := range oldTable {
		newEntry, ok := newTable[name]
		if !ok {
			continue
		}
		// Member entries are always eligible; anything else must be owned
		// by the module under update.
		if oldEntry.Kind != graph.EntryMember &&
			(oldEntry.Node == nil || graph.Prefix(oldEntry.Node.FullName()) != prefix) {
			continue
		}
		if oldEntry.Node == nil || newEntry.Node == nil {
			continue
		}
		if newEntry.Node.Kind() != oldEntry.Node.Kind() ||
			newEntry.Node.FullName() != oldEntry.Node.FullName() ||
			newEntry.Kind != oldEntry.Kind {
			continue
		}
		replacements[newEntry.Node] = oldEntry.Node
		if oldEntry.Node.IsClassLike() && newEntry.Node.IsClassLike() {
			// Members still belong to the owning module's boundary, so the
			// recursion keeps the module prefix, not the class's own name.
			nested := ReplacementMap(oldEntry.Node.Members(), newEntry.Node.Members(), prefix)
			for src, dst := range nested {
				replacements[src] = dst
			}
		}
	}
	return replacements
}
