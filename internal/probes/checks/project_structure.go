package checks

import (
	"context"

	"envready/internal/config"
	"envready/internal/data"
	"envready/internal/data/models"
	"envready/internal/probes"
)

type ProjectStructureProbe struct{}

func (p *ProjectStructureProbe) ID() string {
	return "project-structure"
}

func (p *ProjectStructureProbe) Title() string {
	return "Project Structure"
}

func (p *ProjectStructureProbe) Description() string {
	return "Verifies that every expected project path exists relative to the project directory. Each missing path is reported separately."
}

func (p *ProjectStructureProbe) Section() probes.Section {
	return probes.SectionStructure
}

func (p *ProjectStructureProbe) Dependencies(cfg *config.Config) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepProjectLayout}, nil
}

func (p *ProjectStructureProbe) Evaluate(ctx context.Context, cfg *config.Config, dc data.DataContext) ([]probes.Result, error) {
	layout, msg := dependency[*models.ProjectLayout](dc, data.DepProjectLayout)
	if msg != "" {
		return []probes.Result{probes.FailResult(p.Title(), msg)}, nil
	}
	return EvaluateStructure(layout), nil
}

// EvaluateStructure returns one result per expected path.
func EvaluateStructure(layout *models.ProjectLayout) []probes.Result {
	if layout == nil || len(layout.Paths) == 0 {
		return []probes.Result{probes.PassResult("Project paths", "No project paths configured")}
	}

	out := make([]probes.Result, 0, len(layout.Paths))
	for _, p := range layout.Paths {
		switch {
		case p.Exists:
			out = append(out, probes.PassResult(p.Path, "exists"))
		case p.Detail != "":
			out = append(out, probes.FailResult(p.Path, "cannot be checked").WithEvidence("error", p.Detail))
		default:
			out = append(out, probes.FailResult(p.Path, "is missing"))
		}
	}
	return out
}

func init() {
	probes.Register(&ProjectStructureProbe{})
}
