package data

// DependencyKey uniquely identifies a fact about the inspected environment.
type DependencyKey string

// DependencyRequest represents a request for a specific fact with optional parameters.
type DependencyRequest struct {
	Key    DependencyKey
	Params map[string]string
}

// FetchScope describes what a fact is keyed on for caching purposes.
type FetchScope string

const (
	// ScopeInterpreter facts depend only on the interpreter executable.
	ScopeInterpreter FetchScope = "interpreter"
	// ScopeProject facts depend on the project directory and its configuration.
	ScopeProject FetchScope = "project"
)
