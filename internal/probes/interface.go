package probes

import (
	"context"

	"envready/internal/config"
	"envready/internal/data"
)

type Probe interface {
	ID() string
	Title() string
	Description() string
	Section() Section

	// Dependencies declares the facts this probe reads.
	Dependencies(cfg *config.Config) ([]data.DependencyKey, error)

	// Evaluate runs probe logic using only DataContext.
	// Probes MUST NOT run the interpreter or touch the filesystem themselves.
	Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]Result, error)
}
