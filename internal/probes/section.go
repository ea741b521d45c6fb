package probes

// Section groups results in the report. Sections are always reported in the
// order returned by Sections.
type Section string

const (
	SectionVersion    Section = "python-version"
	SectionIsolation  Section = "virtual-env"
	SectionStructure  Section = "project-structure"
	SectionRequired   Section = "required-packages"
	SectionBuildExtra Section = "build-optional-packages"
)

var sectionOrder = []Section{
	SectionVersion,
	SectionIsolation,
	SectionStructure,
	SectionRequired,
	SectionBuildExtra,
}

func Sections() []Section {
	return append([]Section(nil), sectionOrder...)
}

// Index returns the report position of s, or len(Sections()) when unknown.
func (s Section) Index() int {
	for i, known := range sectionOrder {
		if known == s {
			return i
		}
	}
	return len(sectionOrder)
}

func (s Section) Title() string {
	switch s {
	case SectionVersion:
		return "Python Version"
	case SectionIsolation:
		return "Virtual Environment"
	case SectionStructure:
		return "Project Structure"
	case SectionRequired:
		return "Required Packages"
	case SectionBuildExtra:
		return "Build & Optional Packages"
	default:
		return string(s)
	}
}

// Blocking reports whether an unsatisfied check in s keeps the environment
// from being ready.
func (s Section) Blocking() bool {
	switch s {
	case SectionIsolation, SectionBuildExtra:
		return false
	default:
		return true
	}
}
