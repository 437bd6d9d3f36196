package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/modgraph/diff"
	"github.com/viant/modgraph/graph"
)

func buildModule(fBody, mBody string) *graph.Node {
	module := graph.NewModule("mod")
	f := graph.NewNode(graph.KindFunc, "mod.f")
	f.SetBody(fBody)
	module.Members().Put("f", graph.EntryGlobal, f)
	class := graph.NewClass("mod.C")
	module.Members().Put("C", graph.EntryGlobal, class)
	m := graph.NewNode(graph.KindFunc, "mod.C.m")
	m.SetBody(mBody)
	class.Members().Put("m", graph.EntryMember, m)
	return module
}

func TestCompare_Unchanged(t *testing.T) {
	oldSnapshot, err := diff.TableSnapshot("mod", buildModule("return 1", "pass").Members())
	assert.Nil(t, err)
	newSnapshot, err := diff.TableSnapshot("mod", buildModule("return 1", "pass").Members())
	assert.Nil(t, err)

	assert.Equal(t, 3, len(oldSnapshot))
	assert.Empty(t, diff.Compare(oldSnapshot, newSnapshot))
}

func TestCompare_Changed(t *testing.T) {
	tests := []struct {
		description string
		newModule   *graph.Node
		expect      []string
	}{
		{
			description: "function body change",
			newModule:   buildModule("return 2", "pass"),
			expect:      []string{"mod.f"},
		},
		{
			description: "member change is reported under its own name",
			newModule:   buildModule("return 1", "return 0"),
			expect:      []string{"mod.C.m"},
		},
	}
	oldSnapshot, err := diff.TableSnapshot("mod", buildModule("return 1", "pass").Members())
	assert.Nil(t, err)
	for _, tt := range tests {
		newSnapshot, err := diff.TableSnapshot("mod", tt.newModule.Members())
		assert.Nil(t, err, tt.description)
		assert.Equal(t, tt.expect, diff.Compare(oldSnapshot, newSnapshot), tt.description)
	}
}

func TestCompare_AddedAndRemoved(t *testing.T) {
	oldModule := buildModule("return 1", "pass")
	newModule := buildModule("return 1", "pass")
	g := graph.NewNode(graph.KindVar, "mod.g")
	newModule.Members().Put("g", graph.EntryGlobal, g)
	delete(oldModule.Members()["C"].Node.Members(), "m")

	oldSnapshot, err := diff.TableSnapshot("mod", oldModule.Members())
	assert.Nil(t, err)
	newSnapshot, err := diff.TableSnapshot("mod", newModule.Members())
	assert.Nil(t, err)

	assert.Equal(t, []string{"mod.C.m", "mod.g"}, diff.Compare(oldSnapshot, newSnapshot))
}

func TestCompare_KindChange(t *testing.T) {
	oldModule := buildModule("return 1", "pass")

	newModule := graph.NewModule("mod")
	newModule.Members().Put("f", graph.EntryGlobal, graph.NewClass("mod.f"))
	class := graph.NewClass("mod.C")
	newModule.Members().Put("C", graph.EntryGlobal, class)
	m := graph.NewNode(graph.KindFunc, "mod.C.m")
	m.SetBody("pass")
	class.Members().Put("m", graph.EntryMember, m)

	oldSnapshot, err := diff.TableSnapshot("mod", oldModule.Members())
	assert.Nil(t, err)
	newSnapshot, err := diff.TableSnapshot("mod", newModule.Members())
	assert.Nil(t, err)

	assert.Equal(t, []string{"mod.f"}, diff.Compare(oldSnapshot, newSnapshot))
}
