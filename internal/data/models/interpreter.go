package models

// InterpreterInfo captures what the interpreter reports about itself.
//
// Prefix is the active installation prefix and BasePrefix the installation it
// was created from; they differ inside a virtual environment. RealPrefix is
// only set by legacy virtualenv releases.
type InterpreterInfo struct {
	Executable    string  `json:"executable"`
	Version       Version `json:"version"`
	Micro         int     `json:"micro"`
	VersionString string  `json:"version_string"`
	Prefix        string  `json:"prefix"`
	BasePrefix    string  `json:"base_prefix"`
	RealPrefix    string  `json:"real_prefix,omitempty"`
}

// Isolated reports whether the interpreter runs inside an environment distinct
// from the system-wide installation.
func (i *InterpreterInfo) Isolated() bool {
	if i == nil {
		return false
	}
	if i.RealPrefix != "" {
		return true
	}
	return i.BasePrefix != "" && i.BasePrefix != i.Prefix
}

// DisplayVersion prefers the interpreter's own version string.
func (i *InterpreterInfo) DisplayVersion() string {
	if i == nil {
		return ""
	}
	if i.VersionString != "" {
		return i.VersionString
	}
	return i.Version.String()
}
