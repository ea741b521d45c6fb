package engine

import (
	"fmt"
	"sort"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/probes"
)

// CheckPlan is the set of probes to run and the facts they need.
type CheckPlan struct {
	Probes       []probes.Probe
	Dependencies map[data.DependencyKey]data.DependencyRequest
	// Declared holds each probe's declared facts, keyed by probe ID.
	Declared map[string][]data.DependencyKey
}

func NewCheckPlan(cfg *config.Config, selected []probes.Probe) (*CheckPlan, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	p := &CheckPlan{
		Probes:       selected,
		Dependencies: make(map[data.DependencyKey]data.DependencyRequest),
		Declared:     make(map[string][]data.DependencyKey, len(selected)),
	}

	for _, pr := range selected {
		deps, err := pr.Dependencies(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to get dependencies for probe %s: %w", pr.ID(), err)
		}
		p.Declared[pr.ID()] = deps

		for _, d := range deps {
			if _, exists := p.Dependencies[d]; !exists {
				p.Dependencies[d] = data.DependencyRequest{Key: d}
			}
		}
	}
	return p, nil
}

// SortedDependencies returns the fact keys sorted by priority (P0 first).
func (p *CheckPlan) SortedDependencies() []data.DependencyKey {
	keys := make([]data.DependencyKey, 0, len(p.Dependencies))
	for k := range p.Dependencies {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		p1 := data.Priority(keys[i])
		p2 := data.Priority(keys[j])
		if p1 != p2 {
			return p1 < p2
		}
		return keys[i] < keys[j] // Stable sort for same priority
	})

	return keys
}
