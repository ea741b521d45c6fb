package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/fetcher"
	"envready/internal/interpreter"
)

type packageImportsFetcher struct{}

func (d *packageImportsFetcher) Key() data.DependencyKey {
	return data.DepPackageImports
}

func (d *packageImportsFetcher) Scope() data.FetchScope {
	return data.ScopeInterpreter
}

func (d *packageImportsFetcher) Fetch(ctx context.Context, _ map[string]string, f *fetcher.Fetcher) (any, error) {
	specs := f.Config().PackageSpecs()
	report := &models.ImportReport{}
	if len(specs) == 0 {
		return report, nil
	}

	// An interpreter that cannot start would fail every import the same way;
	// fail the whole fact once instead.
	if _, err := f.Fetch(ctx, data.DepInterpreterInfo, nil); err != nil {
		return nil, fmt.Errorf("failed to resolve interpreter: %w", err)
	}

	client := f.Client()
	for _, spec := range specs {
		outcome := models.ImportOutcome{Package: spec}
		err := client.Import(ctx, spec.Module)
		var importErr *interpreter.ImportError
		switch {
		case err == nil:
			outcome.Resolved = true
		case errors.As(err, &importErr):
			outcome.Detail = importErr.Detail
		default:
			// A per-package timeout or crash only affects this package.
			outcome.Detail = err.Error()
		}
		slog.Debug("import probed", "package", spec.Name, "module", spec.Module, "resolved", outcome.Resolved)
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

func init() {
	fetcher.RegisterDataFetcher(&packageImportsFetcher{})
}
