package fetcher

import (
	"context"
	"fmt"
	"sync"

	"envready/internal/data"
)

// DataFetcher produces one kind of fact. Implementations live in the
// providers package and register themselves at init.
type DataFetcher interface {
	Key() data.DependencyKey
	Scope() data.FetchScope
	Fetch(ctx context.Context, params map[string]string, f *Fetcher) (any, error)
}

var providers = struct {
	sync.RWMutex
	byKey map[data.DependencyKey]DataFetcher
}{byKey: make(map[data.DependencyKey]DataFetcher)}

// RegisterDataFetcher panics on a nil fetcher, an empty key, an unknown scope
// or a key that already has a fetcher.
func RegisterDataFetcher(df DataFetcher) {
	if df == nil {
		panic("data fetcher is nil")
	}
	k := df.Key()
	if k == "" {
		panic("data fetcher key is empty")
	}
	switch df.Scope() {
	case data.ScopeInterpreter, data.ScopeProject:
	default:
		panic(fmt.Sprintf("data fetcher %s has unknown scope %q", k, df.Scope()))
	}

	providers.Lock()
	defer providers.Unlock()
	if _, exists := providers.byKey[k]; exists {
		panic(fmt.Sprintf("data fetcher %s already registered", k))
	}
	providers.byKey[k] = df
}

func ResolveDataFetcher(key data.DependencyKey) (DataFetcher, bool) {
	providers.RLock()
	defer providers.RUnlock()
	df, ok := providers.byKey[key]
	return df, ok
}
