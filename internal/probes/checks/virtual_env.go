package checks

import (
	"context"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/probes"
)

type VirtualEnvProbe struct{}

func (p *VirtualEnvProbe) ID() string {
	return "virtual-env"
}

func (p *VirtualEnvProbe) Title() string {
	return "Virtual Environment"
}

func (p *VirtualEnvProbe) Description() string {
	return "Checks whether the interpreter runs inside an isolated environment rather than the system-wide installation. Never blocks readiness."
}

func (p *VirtualEnvProbe) Section() probes.Section {
	return probes.SectionIsolation
}

func (p *VirtualEnvProbe) Dependencies(cfg *config.Config) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepInterpreterInfo}, nil
}

func (p *VirtualEnvProbe) Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]probes.Result, error) {
	info, msg := dependency[*models.InterpreterInfo](dc, data.DepInterpreterInfo)
	if msg != "" {
		return []probes.Result{probes.UnmetResult(p.Section(), p.Title(), msg)}, nil
	}
	return []probes.Result{EvaluateIsolation(info)}, nil
}

// EvaluateIsolation reports isolation as a warning at worst.
func EvaluateIsolation(info *models.InterpreterInfo) probes.Result {
	const name = "Virtual environment"
	if info.Isolated() {
		return probes.PassResult(name, "Running in virtual environment").
			WithEvidence("environment", info.Prefix)
	}

	res := probes.WarningResult(name, "Not running in virtual environment (recommended)")
	if info != nil && info.Prefix != "" {
		res = res.WithEvidence("prefix", info.Prefix)
	}
	return res
}

func init() {
	probes.Register(&VirtualEnvProbe{})
}
