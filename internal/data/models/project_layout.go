package models

// PathPresence records whether one expected project path exists.
type PathPresence struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	IsDir  bool   `json:"is_dir,omitempty"`
	// Detail is set when existence could not be determined for a reason other
	// than absence (for example a permission error).
	Detail string `json:"detail,omitempty"`
}

// ProjectLayout captures existence of every configured path, in configured order.
type ProjectLayout struct {
	Root  string         `json:"root"`
	Paths []PathPresence `json:"paths"`
}

// Missing returns the paths that do not exist, in configured order.
func (l *ProjectLayout) Missing() []string {
	if l == nil {
		return nil
	}
	var out []string
	for _, p := range l.Paths {
		if !p.Exists {
			out = append(out, p.Path)
		}
	}
	return out
}
