// Package inventory produces the raw package listing appended to every report.
package inventory

import (
	"context"
	"log/slog"
	"time"
)

// Placeholder replaces the listing whenever it cannot be produced.
const Placeholder = "Could not get pip list"

// DefaultTimeout bounds the listing when Reporter.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Lister produces a human-readable list of installed packages.
type Lister interface {
	ListPackages(ctx context.Context) (string, error)
}

// Reporter fetches the listing. It never fails: any error becomes Placeholder.
type Reporter struct {
	Lister  Lister
	Timeout time.Duration
}

func NewReporter(l Lister, timeout time.Duration) *Reporter {
	return &Reporter{Lister: l, Timeout: timeout}
}

// Report returns the lister's output verbatim, or Placeholder.
func (r *Reporter) Report(ctx context.Context) string {
	if r == nil || r.Lister == nil {
		return Placeholder
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := r.Lister.ListPackages(ctx)
	if err != nil {
		slog.Debug("package inventory unavailable", "error", err)
		return Placeholder
	}
	return out
}
