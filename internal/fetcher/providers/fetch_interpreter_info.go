package providers

import (
	"context"
	"fmt"

	"envready/internal/data"
	"envready/internal/fetcher"
)

type interpreterInfoFetcher struct{}

func (d *interpreterInfoFetcher) Key() data.DependencyKey {
	return data.DepInterpreterInfo
}

func (d *interpreterInfoFetcher) Scope() data.FetchScope {
	return data.ScopeInterpreter
}

func (d *interpreterInfoFetcher) Fetch(ctx context.Context, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	client := f.Client()
	if client == nil {
		return nil, fmt.Errorf("no interpreter configured")
	}
	return client.Info(ctx)
}

func init() {
	fetcher.RegisterDataFetcher(&interpreterInfoFetcher{})
}
