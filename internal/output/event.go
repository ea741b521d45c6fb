package output

import "envready/internal/probes"

// Event types, in the order a run emits them.
const (
	EventRunStarted     = "run.started"
	EventSectionStarted = "section.started"
	EventProbeResult    = "probe.result"
	EventRunSummary     = "run.summary"
	EventInventory      = "inventory"
	EventRunFinished    = "run.finished"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// Sinks also receive bare probes.Result values; streaming sinks wrap those in
// a probe.result Event. JSON mode aggregates everything into one Document.
type Event struct {
	Type    string         `json:"type"`
	Section probes.Section `json:"section,omitempty"`
	Title   string         `json:"title,omitempty"`
	*probes.Result
	Python    string   `json:"python,omitempty"`
	Probes    int      `json:"probes,omitempty"`
	Summary   *Summary `json:"summary,omitempty"`
	Inventory *string  `json:"inventory,omitempty"`
	ExitCode  int      `json:"exit_code,omitempty"`
}

// Summary closes the probe part of a run.
type Summary struct {
	Verdict  string `json:"verdict"`
	Ready    bool   `json:"ready"`
	Passed   int    `json:"passed"`
	Warnings int    `json:"warnings"`
	Errors   int    `json:"errors"`
	// Headline is the one-line readiness statement.
	Headline string `json:"headline"`
	// Hints are follow-up suggestions, most important first.
	Hints []string `json:"hints,omitempty"`
	// Probes holds one overall outcome per probe, in report order.
	Probes []ProbeStatus `json:"probes,omitempty"`
}

// ProbeStatus is a probe's overall outcome: passed unless one of its
// results is an error.
type ProbeStatus struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Passed bool   `json:"passed"`
}

func eventFromResult(r probes.Result) Event {
	return Event{Type: EventProbeResult, Section: r.Section, Result: &r}
}

// InventoryEvent wraps the raw package listing.
func InventoryEvent(text string) Event {
	return Event{Type: EventInventory, Inventory: &text}
}
