package output

import "envready/internal/probes"

// Document is the aggregate JSON rendering of one run.
type Document struct {
	Python    string          `json:"python,omitempty"`
	Verdict   string          `json:"verdict"`
	ExitCode  int             `json:"exit_code"`
	Results   []probes.Result `json:"results"`
	Summary   *Summary        `json:"summary,omitempty"`
	Inventory *string         `json:"inventory,omitempty"`
}

// add folds one sink value into the document.
func (d *Document) add(v any) {
	switch t := v.(type) {
	case probes.Result:
		d.Results = append(d.Results, t)
	case Event:
		switch t.Type {
		case EventRunStarted:
			d.Python = t.Python
		case EventProbeResult:
			if t.Result != nil {
				d.Results = append(d.Results, *t.Result)
			}
		case EventRunSummary:
			d.Summary = t.Summary
			if t.Summary != nil {
				d.Verdict = t.Summary.Verdict
			}
		case EventInventory:
			d.Inventory = t.Inventory
		case EventRunFinished:
			d.ExitCode = t.ExitCode
		}
	}
}

func newDocument() *Document {
	// Results is never null in the encoded document.
	return &Document{Results: []probes.Result{}}
}
