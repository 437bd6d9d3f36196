// Package diff detects which externally visible definitions of a module
// changed between two analysis revisions. It runs on the same two symbol
// table snapshots the merge consumes and must run before the merge does:
// once the revisions are merged their content is equal by construction and
// no longer comparable.
package diff

import (
	"sort"

	"github.com/viant/modgraph/graph"
	"gopkg.in/yaml.v3"
)

// Snapshot maps each qualified name visible through one symbol table
// revision to a fingerprint of its observable shape
type Snapshot map[string]uint64

// record is the canonical form fed to the fingerprint hash. Field order is
// fixed by the struct, keeping the encoding deterministic.
type record struct {
	Name      string   `yaml:"name"`
	EntryKind string   `yaml:"entryKind"`
	Kind      string   `yaml:"kind,omitempty"`
	Signature string   `yaml:"signature,omitempty"`
	TypeHint  string   `yaml:"typeHint,omitempty"`
	Doc       string   `yaml:"doc,omitempty"`
	Bases     []string `yaml:"bases,omitempty"`
	Body      string   `yaml:"body,omitempty"`
}

// TableSnapshot fingerprints every entry of a symbol table revision, keyed
// by qualified name. Class-like entries are descended into, member names
// qualified by the class they belong to.
func TableSnapshot(prefix string, table graph.SymbolTable) (Snapshot, error) {
	snapshot := Snapshot{}
	if err := tableSnapshot(prefix, table, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func tableSnapshot(prefix string, table graph.SymbolTable, snapshot Snapshot) error {
	for name, entry := range table {
		qualified := graph.Join(prefix, name)
		item := record{
			Name:      qualified,
			EntryKind: entry.Kind.String(),
		}
		if node := entry.Node; node != nil {
			item.Name = node.FullName()
			item.Kind = node.Kind().String()
			item.Signature = node.Signature()
			item.TypeHint = node.TypeHint()
			item.Doc = node.Doc()
			item.Bases = node.Bases()
			item.Body = node.Body()
		}
		data, err := yaml.Marshal(&item)
		if err != nil {
			return err
		}
		fingerprint, err := graph.Hash(data)
		if err != nil {
			return err
		}
		snapshot[qualified] = fingerprint
		if entry.Node != nil && entry.Node.IsClassLike() && entry.Kind != graph.EntryImported {
			if err := tableSnapshot(qualified, entry.Node.Members(), snapshot); err != nil {
				return err
			}
		}
	}
	return nil
}

// Compare returns the sorted qualified names that were added, removed or
// changed between two snapshots of the same module. The result is what a
// dependency/invalidation mechanism reprocesses; the merge itself never
// consults it.
func Compare(oldSnapshot, newSnapshot Snapshot) []string {
	var changed []string
	for name, fingerprint := range oldSnapshot {
		current, ok := newSnapshot[name]
		if !ok || current != fingerprint {
			changed = append(changed, name)
		}
	}
	for name := range newSnapshot {
		if _, ok := oldSnapshot[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}
