package output

import "envready/internal/probes"

// sampleRun is the event stream of a run with one warning and one error.
func sampleRun() []any {
	inventory := "Package Version\n------- -------\nrich    13.7.1\n"
	version := probes.AdvisoryResult("Python 3.10.4", "Python 3.11 recommended for best compatibility")
	version.Probe, version.Section = "python-version", probes.SectionVersion
	isolated := probes.PassResult("Virtual environment", "Running in virtual environment").
		WithEvidence("environment", "/work/.venv")
	isolated.Probe, isolated.Section = "virtual-env", probes.SectionIsolation
	present := probes.PassResult("src/run.py", "exists")
	present.Probe, present.Section = "project-structure", probes.SectionStructure
	missing := probes.FailResult("wordle_solver.spec", "is missing")
	missing.Probe, missing.Section = "project-structure", probes.SectionStructure

	return []any{
		Event{Type: EventRunStarted, Python: "/work/.venv/bin/python", Probes: 3},
		Event{Type: EventSectionStarted, Section: probes.SectionVersion, Title: probes.SectionVersion.Title()},
		version,
		Event{Type: EventSectionStarted, Section: probes.SectionIsolation, Title: probes.SectionIsolation.Title()},
		isolated,
		Event{Type: EventSectionStarted, Section: probes.SectionStructure, Title: probes.SectionStructure.Title()},
		present,
		missing,
		Event{Type: EventRunSummary, Summary: &Summary{
			Verdict:  "fail",
			Ready:    false,
			Passed:   2,
			Warnings: 1,
			Errors:   1,
			Headline: "Environment needs attention. See issues above.",
			Hints:    []string{`Try running: .\setup_env.ps1`},
			Probes: []ProbeStatus{
				{ID: "python-version", Title: "Python Version", Passed: true},
				{ID: "virtual-env", Title: "Virtual Environment", Passed: true},
				{ID: "project-structure", Title: "Project Structure", Passed: false},
			},
		}},
		InventoryEvent(inventory),
		Event{Type: EventRunFinished, ExitCode: 1},
	}
}

func writeAll(s Sink, values []any) error {
	for _, v := range values {
		if err := s.Write(v); err != nil {
			return err
		}
	}
	return s.Close()
}
