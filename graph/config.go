package graph

// Config controls what the analysis front ends surface in a module graph
type Config struct {
	// IncludeImports records names bound by imports as symbol table entries
	IncludeImports bool
	// IncludePrivate includes definitions conventionally private to the module
	IncludePrivate bool
}

// DefaultConfig returns the configuration used when none is provided
func DefaultConfig() *Config {
	return &Config{
		IncludeImports: true,
		IncludePrivate: true,
	}
}
