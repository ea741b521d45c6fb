package probes

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Probe)
	mu       sync.RWMutex
)

func Register(p Probe) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[p.ID()]; exists {
		panic(fmt.Sprintf("probe %s already registered", p.ID()))
	}
	registry[p.ID()] = p
}

// List returns every registered probe in report order.
func List() []Probe {
	mu.RLock()
	defer mu.RUnlock()
	return listLocked()
}

func listLocked() []Probe {
	all := make([]Probe, 0, len(registry))
	for _, p := range registry {
		all = append(all, p)
	}
	sortProbes(all)
	return all
}

func Lookup(id string) (Probe, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[strings.TrimSpace(id)]
	return p, ok
}

// Resolve selects probes by a comma-separated list of IDs. An empty selector
// selects every probe. The result is always in report order.
func Resolve(selector string) ([]Probe, error) {
	mu.RLock()
	defer mu.RUnlock()

	if strings.TrimSpace(selector) == "" {
		return listLocked(), nil
	}

	seen := make(map[string]struct{})
	var selected []Probe
	for _, id := range strings.Split(selector, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		p, ok := registry[id]
		if !ok {
			return nil, fmt.Errorf("probe not found: %s", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, p)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no probes selected by %q", selector)
	}
	sortProbes(selected)
	return selected, nil
}

func sortProbes(ps []Probe) {
	sort.SliceStable(ps, func(i, j int) bool {
		si, sj := ps[i].Section().Index(), ps[j].Section().Index()
		if si != sj {
			return si < sj
		}
		return ps[i].ID() < ps[j].ID()
	})
}
