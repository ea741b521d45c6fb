package checks

import (
	"context"
	"fmt"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/probes"
)

type PythonVersionProbe struct{}

func (p *PythonVersionProbe) ID() string {
	return "python-version"
}

func (p *PythonVersionProbe) Title() string {
	return "Python Version"
}

func (p *PythonVersionProbe) Description() string {
	return "Verifies that the interpreter meets the minimum Python version and warns when it is older than the recommended version."
}

func (p *PythonVersionProbe) Section() probes.Section {
	return probes.SectionVersion
}

func (p *PythonVersionProbe) Dependencies(cfg *config.Config) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepInterpreterInfo}, nil
}

func (p *PythonVersionProbe) Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]probes.Result, error) {
	info, msg := dependency[*models.InterpreterInfo](dc, data.DepInterpreterInfo)
	if msg != "" {
		return []probes.Result{probes.FailResult(p.Title(), msg)}, nil
	}

	res := EvaluateVersion(info.Version, cfg.Requirements)
	res.Name = "Python " + info.DisplayVersion()
	res = res.WithEvidence("version", info.DisplayVersion())
	if info.Executable != "" {
		res = res.WithEvidence("executable", info.Executable)
	}
	return []probes.Result{res}, nil
}

// EvaluateVersion classifies an interpreter version against the thresholds:
// below Minimum fails, below Recommended warns, anything else passes.
func EvaluateVersion(current models.Version, req config.Requirements) probes.Result {
	name := "Python " + current.String()
	recommended := req.Recommended
	if recommended.IsZero() {
		recommended = req.Minimum
	}

	switch {
	case current.Less(req.Minimum):
		return probes.FailResult(name, fmt.Sprintf("Python %s or later required", req.Minimum)).
			WithEvidence("minimum", req.Minimum.String())
	case current.Less(recommended):
		return probes.AdvisoryResult(name, fmt.Sprintf("Python %s recommended for best compatibility", recommended)).
			WithEvidence("recommended", recommended.String())
	default:
		return probes.PassResult(name, "Python version is good")
	}
}

func init() {
	probes.Register(&PythonVersionProbe{})
}
