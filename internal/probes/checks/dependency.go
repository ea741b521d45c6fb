package checks

import (
	"envready/internal/data"
)

// dependency reads a declared fact and asserts its type. The returned message
// is empty on success and otherwise explains what was wrong with the fact.
func dependency[T any](dc data.DataContext, key data.DependencyKey) (T, string) {
	var zero T
	val, ok := dc.Get(key)
	if !ok {
		return zero, "Dependency missing"
	}
	if val == nil {
		return zero, "Dependency is nil"
	}
	typed, ok := val.(T)
	if !ok {
		return zero, "Invalid dependency type"
	}
	return typed, ""
}
