package data

const (
	// DepInterpreterInfo represents the interpreter's version and installation
	// prefixes, gathered from a single interpreter invocation.
	DepInterpreterInfo DependencyKey = "interpreter.info"

	// DepProjectLayout represents the existence of every configured project path,
	// resolved relative to the project directory.
	DepProjectLayout DependencyKey = "project.layout"

	// DepPackageImports represents one import attempt per configured package.
	//
	// A failed import is an outcome, not a fetch error: the fact only fails when
	// the interpreter itself cannot be run.
	DepPackageImports DependencyKey = "packages.imports"
)

// Priority returns the fetch priority for a dependency key (lower is higher priority).
func Priority(key DependencyKey) int {
	switch key {
	case DepInterpreterInfo:
		return 0
	case DepProjectLayout:
		return 1
	default:
		return 2
	}
}
