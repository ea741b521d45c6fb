package checks

import (
	"context"
	"fmt"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/probes"
)

type RequiredPackagesProbe struct{}

func (p *RequiredPackagesProbe) ID() string {
	return "required-packages"
}

func (p *RequiredPackagesProbe) Title() string {
	return "Required Packages"
}

func (p *RequiredPackagesProbe) Description() string {
	return "Verifies that every required package can be imported by the interpreter. A missing required package blocks readiness."
}

func (p *RequiredPackagesProbe) Section() probes.Section {
	return probes.SectionRequired
}

func (p *RequiredPackagesProbe) Dependencies(cfg *config.Config) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepPackageImports}, nil
}

func (p *RequiredPackagesProbe) Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]probes.Result, error) {
	report, msg := dependency[*models.ImportReport](dc, data.DepPackageImports)
	if msg != "" {
		return []probes.Result{probes.UnmetResult(p.Section(), p.Title(), msg)}, nil
	}
	outcomes := report.Select(models.PackageRequired)
	if len(outcomes) == 0 {
		return []probes.Result{probes.PassResult(p.Title(), "No required packages configured")}, nil
	}
	return EvaluatePackages(outcomes), nil
}

type OptionalPackagesProbe struct{}

func (p *OptionalPackagesProbe) ID() string {
	return "optional-packages"
}

func (p *OptionalPackagesProbe) Title() string {
	return "Build & Optional Packages"
}

func (p *OptionalPackagesProbe) Description() string {
	return "Checks whether build tooling and optional development packages can be imported. Missing packages only warn."
}

func (p *OptionalPackagesProbe) Section() probes.Section {
	return probes.SectionBuildExtra
}

func (p *OptionalPackagesProbe) Dependencies(cfg *config.Config) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepPackageImports}, nil
}

func (p *OptionalPackagesProbe) Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]probes.Result, error) {
	report, msg := dependency[*models.ImportReport](dc, data.DepPackageImports)
	if msg != "" {
		return []probes.Result{probes.UnmetResult(p.Section(), p.Title(), msg)}, nil
	}
	outcomes := report.Select(models.PackageBuild, models.PackageOptional)
	if len(outcomes) == 0 {
		return []probes.Result{probes.PassResult(p.Title(), "No build or optional packages configured")}, nil
	}
	return EvaluatePackages(outcomes), nil
}

// EvaluatePackages returns one result per outcome. A missing package is an
// error only when it is required.
func EvaluatePackages(outcomes []models.ImportOutcome) []probes.Result {
	out := make([]probes.Result, 0, len(outcomes))
	for _, o := range outcomes {
		spec := o.Package
		var res probes.Result
		switch {
		case o.Resolved:
			res = probes.PassResult(spec.Name, fmt.Sprintf("%s is installed", spec.Name))
		case spec.Required():
			res = probes.FailResult(spec.Name, fmt.Sprintf("%s is missing (required)", spec.Name))
		case spec.Category == models.PackageBuild:
			res = probes.WarningResult(spec.Name, fmt.Sprintf("%s is missing (needed for builds)", spec.Name))
		default:
			res = probes.WarningResult(spec.Name, fmt.Sprintf("%s is missing (optional)", spec.Name))
		}
		res = res.WithEvidence("category", string(spec.Category))
		if spec.Module != "" && spec.Module != spec.Name {
			res = res.WithEvidence("module", spec.Module)
		}
		if o.Detail != "" {
			res = res.WithEvidence("error", o.Detail)
		}
		out = append(out, res)
	}
	return out
}

func init() {
	probes.Register(&RequiredPackagesProbe{})
	probes.Register(&OptionalPackagesProbe{})
}
