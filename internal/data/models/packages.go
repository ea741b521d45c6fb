package models

// PackageCategory says how much a package matters for readiness.
type PackageCategory string

const (
	// PackageRequired packages block readiness when absent.
	PackageRequired PackageCategory = "required"
	// PackageOptional packages are development nice-to-haves.
	PackageOptional PackageCategory = "optional"
	// PackageBuild packages are only needed to build a distributable artifact.
	PackageBuild PackageCategory = "build"
)

// PackageSpec names one package the project expects.
//
// Name is the distribution name users install; Module is what gets imported.
// They differ for some packages (pyinstaller installs the PyInstaller module).
type PackageSpec struct {
	Name     string          `json:"name"`
	Module   string          `json:"module"`
	Category PackageCategory `json:"category"`
}

func (p PackageSpec) Required() bool { return p.Category == PackageRequired }

// ImportOutcome is the result of importing one package.
type ImportOutcome struct {
	Package  PackageSpec `json:"package"`
	Resolved bool        `json:"resolved"`
	// Detail holds the interpreter's error line when the import failed.
	Detail string `json:"detail,omitempty"`
}

// ImportReport holds one outcome per configured package, in configured order.
type ImportReport struct {
	Outcomes []ImportOutcome `json:"outcomes"`
}

// Select returns the outcomes whose package belongs to one of the categories.
func (r *ImportReport) Select(categories ...PackageCategory) []ImportOutcome {
	if r == nil {
		return nil
	}
	var out []ImportOutcome
	for _, o := range r.Outcomes {
		for _, c := range categories {
			if o.Package.Category == c {
				out = append(out, o)
				break
			}
		}
	}
	return out
}
