package fetcher

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// memoEntry is the outcome of one fetch. A failed fetch is kept too so a
// dead interpreter is only queried once per check.
type memoEntry struct {
	val any
	err error
}

// factMemo remembers facts fetched during one check. Concurrent requests for
// the same flight key share a single fetch.
type factMemo struct {
	mu     sync.RWMutex
	facts  map[string]memoEntry
	flight singleflight.Group
}

func newFactMemo() *factMemo {
	return &factMemo{facts: make(map[string]memoEntry)}
}

func (m *factMemo) lookup(key string) (memoEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.facts[key]
	return e, ok
}

// do returns the remembered outcome for key or runs fetch to produce it.
func (m *factMemo) do(key string, fetch func() (any, error)) (any, error) {
	if e, ok := m.lookup(key); ok {
		return e.val, e.err
	}
	v, err, _ := m.flight.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			v = nil
		}
		m.mu.Lock()
		m.facts[key] = memoEntry{val: v, err: err}
		m.mu.Unlock()
		return v, err
	})
	return v, err
}
