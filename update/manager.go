// Package update drives fine-grained incremental re-analysis: one module at
// a time it analyzes the changed source, diffs the fresh revision against
// the previously published one and merges the fresh revision into the
// published identities, so that references held by the rest of the program
// keep resolving to up-to-date content.
package update

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/modgraph/analyzer"
	"github.com/viant/modgraph/diff"
	"github.com/viant/modgraph/graph"
	"github.com/viant/modgraph/merge"
)

// Result describes one applied module update
type Result struct {
	// Module is the qualified module name
	Module string
	// Fresh reports a first-time analysis with nothing to merge against
	Fresh bool
	// Changed lists qualified names whose observable shape differs from
	// the previous revision; dependents of these need reprocessing. The
	// diff runs before the merge - afterwards both revisions share content
	// and are no longer comparable.
	Changed []string
}

type moduleState struct {
	node     *graph.Node
	snapshot diff.Snapshot
}

// Manager holds the published graph of every analyzed module and applies
// incremental updates to them. It is not safe for concurrent use; an update
// assumes exclusive access to both the published and the fresh graph.
type Manager struct {
	factory *analyzer.Factory
	fs      afs.Service
	modules map[string]*moduleState
}

// New creates an update manager with the given front-end configuration
func New(config *graph.Config) *Manager {
	return &Manager{
		factory: analyzer.NewFactory(config),
		fs:      afs.New(),
		modules: make(map[string]*moduleState),
	}
}

// Module returns the published node of a module, which stays valid across
// updates
func (m *Manager) Module(name string) (*graph.Node, bool) {
	state, ok := m.modules[name]
	if !ok {
		return nil, false
	}
	return state.node, true
}

// Modules returns the qualified names of every published module
func (m *Manager) Modules() []string {
	names := make([]string, 0, len(m.modules))
	for name := range m.modules {
		names = append(names, name)
	}
	return names
}

// UpdateFile re-analyzes a module from a source location
func (m *Manager) UpdateFile(ctx context.Context, module, location string) (*Result, error) {
	src, err := m.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %w", location, err)
	}
	return m.update(module, location, src)
}

// UpdateSource re-analyzes a module from in-memory source; the filename
// extension selects the language front end
func (m *Manager) UpdateSource(module, filename string, src []byte) (*Result, error) {
	return m.update(module, filename, src)
}

func (m *Manager) update(module, filename string, src []byte) (*Result, error) {
	inspector, err := m.factory.GetInspector(filename)
	if err != nil {
		return nil, err
	}
	revision, err := inspector.InspectSource(module, src)
	if err != nil {
		return nil, err
	}
	snapshot, err := diff.TableSnapshot(module, revision.Members())
	if err != nil {
		return nil, err
	}

	state, ok := m.modules[module]
	if !ok {
		m.modules[module] = &moduleState{node: revision, snapshot: snapshot}
		return &Result{Module: module, Fresh: true}, nil
	}

	changed := diff.Compare(state.snapshot, snapshot)
	if err := merge.Modules(state.node, state.node.Members(), revision, revision.Members()); err != nil {
		return nil, err
	}
	state.snapshot = snapshot
	return &Result{Module: module, Changed: changed}, nil
}
