package data

import "sort"

// DataContext provides fetched environment facts to probes.
type DataContext interface {
	Get(key DependencyKey) (any, bool)
}

// Facts is the read-only set of facts fetched for one check. A nil Facts is
// empty.
type Facts map[DependencyKey]any

func (f Facts) Get(key DependencyKey) (any, bool) {
	v, ok := f[key]
	return v, ok
}

// Recorder serves facts from another DataContext and remembers every key a
// probe asked for, present or not. The engine compares the result against the
// probe's declared dependencies.
type Recorder struct {
	inner DataContext
	seen  map[DependencyKey]bool
}

func NewRecorder(inner DataContext) *Recorder {
	return &Recorder{inner: inner, seen: make(map[DependencyKey]bool)}
}

func (r *Recorder) Get(key DependencyKey) (any, bool) {
	if r == nil {
		return nil, false
	}
	r.seen[key] = true
	if r.inner == nil {
		return nil, false
	}
	return r.inner.Get(key)
}

// Accessed returns the requested keys in sorted order.
func (r *Recorder) Accessed() []DependencyKey {
	if r == nil {
		return nil
	}
	keys := make([]DependencyKey, 0, len(r.seen))
	for k := range r.seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
