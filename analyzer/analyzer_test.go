package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/modgraph/analyzer"
)

func TestFactory_GetInspector(t *testing.T) {
	tests := []struct {
		description string
		filename    string
		wantErr     bool
	}{
		{description: "python file", filename: "mod.py"},
		{description: "go file", filename: "mod.go"},
		{description: "unsupported file", filename: "mod.rs", wantErr: true},
	}
	factory := analyzer.NewFactory(nil)
	for _, tt := range tests {
		inspector, err := factory.GetInspector(tt.filename)
		if tt.wantErr {
			assert.NotNil(t, err, tt.description)
			continue
		}
		assert.Nil(t, err, tt.description)
		assert.NotNil(t, inspector, tt.description)
	}
}
