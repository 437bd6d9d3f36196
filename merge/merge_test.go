package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/modgraph/graph"
	"github.com/viant/modgraph/merge"
)

func defineFunc(table graph.SymbolTable, owner, name, body string) *graph.Node {
	node := graph.NewNode(graph.KindFunc, graph.Join(owner, name))
	node.SetBody(body)
	table.Put(name, graph.EntryGlobal, node)
	return node
}

func defineMethod(class *graph.Node, name, body string) *graph.Node {
	node := graph.NewNode(graph.KindFunc, graph.Join(class.FullName(), name))
	node.SetBody(body)
	class.Members().Put(name, graph.EntryMember, node)
	return node
}

func defineClass(table graph.SymbolTable, owner, name string) *graph.Node {
	node := graph.NewClass(graph.Join(owner, name))
	table.Put(name, graph.EntryGlobal, node)
	return node
}

func TestModules_ConcreteScenario(t *testing.T) {
	// Old revision: function f (body "return 1"), class C with method m
	// (body "pass").
	oldModule := graph.NewModule("mod")
	oldF := defineFunc(oldModule.Members(), "mod", "f", "return 1")
	oldC := defineClass(oldModule.Members(), "mod", "C")
	oldM := defineMethod(oldC, "m", "pass")

	// New revision: f (body "return 2"), C with m (body "return 0") plus a
	// new method n with no old counterpart.
	newModule := graph.NewModule("mod")
	newF := defineFunc(newModule.Members(), "mod", "f", "return 2")
	newC := defineClass(newModule.Members(), "mod", "C")
	newM := defineMethod(newC, "m", "return 0")
	newN := defineMethod(newC, "n", "return -1")

	err := merge.Modules(oldModule, oldModule.Members(), newModule, newModule.Members())
	assert.Nil(t, err)

	// Old identities carry the new content.
	assert.Equal(t, "return 2", oldF.Body())
	assert.Equal(t, "return 0", oldM.Body())

	// New identities alias the old storage, so references created against
	// the new graph before the merge observe the same state.
	assert.True(t, newF.Aliases(oldF))
	assert.True(t, newC.Aliases(oldC))
	assert.True(t, newM.Aliases(oldM))

	// The merged module table exposes the added method under its fresh
	// identity.
	entry, ok := oldC.Members().Lookup("n")
	assert.True(t, ok)
	assert.Same(t, newN, entry.Node)
	assert.Equal(t, "return -1", entry.Node.Body())
}

func TestModules_NoOpUpdate(t *testing.T) {
	build := func() *graph.Node {
		module := graph.NewModule("mod")
		defineFunc(module.Members(), "mod", "f", "return 1")
		class := defineClass(module.Members(), "mod", "C")
		defineMethod(class, "m", "pass")
		return module
	}
	oldModule := build()
	newModule := build()

	oldF := oldModule.Members()["f"].Node
	oldC := oldModule.Members()["C"].Node
	oldM := oldC.Members()["m"].Node

	replacements := merge.ReplacementMap(oldModule.Members(), newModule.Members(), "mod")
	assert.Equal(t, 3, len(replacements))

	err := merge.Modules(oldModule, oldModule.Members(), newModule, newModule.Members())
	assert.Nil(t, err)

	// Content is unchanged and every old identity still resolves to the
	// same storage through the merged table.
	assert.Equal(t, "return 1", oldF.Body())
	assert.Equal(t, "pass", oldM.Body())
	assert.True(t, oldModule.Members()["f"].Node.Aliases(oldF))
	assert.True(t, oldC.Members()["m"].Node.Aliases(oldM))
}

func TestModules_KindChangeIsolation(t *testing.T) {
	oldModule := graph.NewModule("mod")
	oldF := defineFunc(oldModule.Members(), "mod", "f", "return 1")

	// f is replaced by a class of the same name.
	newModule := graph.NewModule("mod")
	newF := defineClass(newModule.Members(), "mod", "f")

	err := merge.Modules(oldModule, oldModule.Members(), newModule, newModule.Members())
	assert.Nil(t, err)

	// No pair is created: the old identity keeps old content untouched and
	// the new identity stays separate. Downstream invalidation replaces it.
	assert.False(t, newF.Aliases(oldF))
	assert.Equal(t, graph.KindFunc, oldF.Kind())
	assert.Equal(t, "return 1", oldF.Body())
}

func TestModules_Idempotence(t *testing.T) {
	oldModule := graph.NewModule("mod")
	oldF := defineFunc(oldModule.Members(), "mod", "f", "return 1")

	newModule := graph.NewModule("mod")
	newF := defineFunc(newModule.Members(), "mod", "f", "return 2")

	oldTable, newTable := oldModule.Members(), newModule.Members()
	assert.Nil(t, merge.Modules(oldModule, oldTable, newModule, newTable))
	assert.Nil(t, merge.Modules(oldModule, oldTable, newModule, newTable))

	assert.Equal(t, "return 2", oldF.Body())
	assert.True(t, newF.Aliases(oldF))
	assert.True(t, newModule.Aliases(oldModule))
}

func TestModules_IndependentMemberMerging(t *testing.T) {
	oldModule := graph.NewModule("mod")
	oldC := defineClass(oldModule.Members(), "mod", "C")
	oldM := defineMethod(oldC, "m", "pass")
	// p is a variable in the old revision, a method in the new one.
	oldP := graph.NewNode(graph.KindVar, "mod.C.p")
	oldC.Members().Put("p", graph.EntryMember, oldP)
	// q is removed in the new revision.
	oldQ := defineMethod(oldC, "q", "pass")

	newModule := graph.NewModule("mod")
	newC := defineClass(newModule.Members(), "mod", "C")
	newM := defineMethod(newC, "m", "return 0")
	newP := defineMethod(newC, "p", "return 1")
	newR := defineMethod(newC, "r", "return 2")

	err := merge.Modules(oldModule, oldModule.Members(), newModule, newModule.Members())
	assert.Nil(t, err)

	// m merged, independent of its diverged and removed siblings.
	assert.True(t, newM.Aliases(oldM))
	assert.Equal(t, "return 0", oldM.Body())

	// p diverged in kind: both identities stay distinct.
	assert.False(t, newP.Aliases(oldP))
	assert.Equal(t, graph.KindVar, oldP.Kind())

	// q is gone from the merged table, r is reachable under its fresh
	// identity.
	_, ok := oldC.Members().Lookup("q")
	assert.False(t, ok)
	assert.Equal(t, "pass", oldQ.Body())
	entry, ok := oldC.Members().Lookup("r")
	assert.True(t, ok)
	assert.Same(t, newR, entry.Node)
}

func TestModules_NameMismatch(t *testing.T) {
	oldModule := graph.NewModule("mod")
	newModule := graph.NewModule("other")
	err := merge.Modules(oldModule, oldModule.Members(), newModule, newModule.Members())
	assert.NotNil(t, err)
}

func TestReplacementMap_SkipsForeignBindings(t *testing.T) {
	buildTable := func() graph.SymbolTable {
		table := graph.SymbolTable{}
		table.Put("os", graph.EntryImported, graph.NewModule("os"))
		alias := graph.NewNode(graph.KindFunc, "other.helper")
		table.Put("helper", graph.EntryImported, alias)
		return table
	}
	oldTable, newTable := buildTable(), buildTable()
	defineFunc(oldTable, "mod", "f", "return 1")
	defineFunc(newTable, "mod", "f", "return 2")

	replacements := merge.ReplacementMap(oldTable, newTable, "mod")

	// Only the module-owned definition is paired; names aliasing other
	// modules are left for import re-resolution.
	assert.Equal(t, 1, len(replacements))
	for src := range replacements {
		assert.Equal(t, "mod.f", src.FullName())
	}
}

func TestReplacementMap_MemberEntriesIgnorePrefix(t *testing.T) {
	// A member entry is eligible even when its node is owned elsewhere,
	// e.g. a member surfaced from a base class in another module.
	buildClass := func(body string) *graph.Node {
		class := graph.NewClass("mod.C")
		inherited := graph.NewNode(graph.KindFunc, "base.B.m")
		inherited.SetBody(body)
		class.Members().Put("m", graph.EntryMember, inherited)
		return class
	}
	oldTable := graph.SymbolTable{}
	oldTable.Put("C", graph.EntryGlobal, buildClass("pass"))
	newTable := graph.SymbolTable{}
	newTable.Put("C", graph.EntryGlobal, buildClass("return 0"))

	replacements := merge.ReplacementMap(oldTable, newTable, "mod")
	assert.Equal(t, 2, len(replacements))

	oldM := oldTable["C"].Node.Members()["m"].Node
	newM := newTable["C"].Node.Members()["m"].Node
	graph.Transplant(replacements[newM], newM)
	assert.True(t, newM.Aliases(oldM))
	assert.Equal(t, "return 0", oldM.Body())
}

func TestReplacementMap_EntryKindMustAgree(t *testing.T) {
	oldTable := graph.SymbolTable{}
	oldNode := graph.NewNode(graph.KindFunc, "mod.f")
	oldTable.Put("f", graph.EntryGlobal, oldNode)

	newTable := graph.SymbolTable{}
	newNode := graph.NewNode(graph.KindFunc, "mod.f")
	newTable.Put("f", graph.EntryImported, newNode)

	replacements := merge.ReplacementMap(oldTable, newTable, "mod")
	assert.Equal(t, 0, len(replacements))
}
