package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"envready/internal/data"
	"envready/internal/fetcher"
)

// FactSet is the outcome of fetching every fact a plan needs. Fetch failures
// are recorded per key and never abort the run.
type FactSet struct {
	Data    data.DataContext
	DepErrs map[data.DependencyKey]error
}

// collectFacts fetches facts one at a time in priority order.
func collectFacts(ctx context.Context, f *fetcher.Fetcher, plan *CheckPlan) (*FactSet, error) {
	if f == nil {
		return nil, errors.New("fetcher is nil")
	}
	if plan == nil {
		return nil, errors.New("check plan is nil")
	}

	dataMap := make(map[data.DependencyKey]any)
	depErrs := make(map[data.DependencyKey]error)

	for _, key := range plan.SortedDependencies() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := plan.Dependencies[key]
		start := time.Now()
		val, err := f.Fetch(ctx, req.Key, req.Params)
		if err != nil {
			slog.Debug("fact unavailable", "key", req.Key, "elapsed", time.Since(start), "error", err)
			depErrs[req.Key] = err
			continue
		}
		slog.Debug("fact fetched", "key", req.Key, "elapsed", time.Since(start))
		dataMap[req.Key] = val
	}

	return &FactSet{Data: data.Facts(dataMap), DepErrs: depErrs}, nil
}
