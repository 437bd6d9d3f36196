// Package analyzer provides the semantic-analysis front ends that build a
// module's graph and symbol table from source. Each analysis of a source
// revision produces a fresh graph; the merge package reconciles a fresh
// revision with the previously published one.
package analyzer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/modgraph/analyzer/golang"
	"github.com/viant/modgraph/analyzer/python"
	"github.com/viant/modgraph/graph"
)

// Inspector builds a module graph from one source revision
type Inspector interface {
	// InspectSource analyzes source code and returns a module node owning
	// the module-level symbol table
	InspectSource(module string, src []byte) (*graph.Node, error)

	// InspectFile analyzes a source file
	InspectFile(module, filename string) (*graph.Node, error)
}

// Factory creates appropriate inspectors based on language
type Factory struct {
	config *graph.Config
}

// NewFactory creates a new inspector factory with the given config
func NewFactory(config *graph.Config) *Factory {
	if config == nil {
		config = graph.DefaultConfig()
	}
	return &Factory{config: config}
}

// GetInspector returns an appropriate inspector based on file extension
func (f *Factory) GetInspector(filename string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".py":
		return python.NewInspector(f.config), nil
	case ".go":
		return golang.NewInspector(f.config), nil
	}
	return nil, fmt.Errorf("unsupported file type: %s", ext)
}

// InspectFile is a convenience method that gets the appropriate inspector
// and inspects the file
func (f *Factory) InspectFile(module, filename string) (*graph.Node, error) {
	inspector, err := f.GetInspector(filename)
	if err != nil {
		return nil, err
	}
	return inspector.InspectFile(module, filename)
}
