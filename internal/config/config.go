package config

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"envready/internal/data/models"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect the
	// check, keep these in sync:
	// - CLI flags in internal/cli/check.go
	// - the YAML file layer in file.go and the environment layer in env.go
	Interpreter  Interpreter
	Requirements Requirements
	Project      Project
	Packages     Packages
	Probes       Probes
	Inventory    Inventory
	Output       Output
	Hints        Hints
	Runtime      Runtime
}

type Interpreter struct {
	// Python is the interpreter to inspect (see --python). Empty means discover
	// it (ENVREADY_PYTHON, $VIRTUAL_ENV, then python3/python on PATH).
	Python string

	// CallTimeout bounds every single interpreter invocation (see --timeout).
	// Must be > 0.
	CallTimeout time.Duration
}

type Requirements struct {
	// Minimum is the lowest interpreter version the project runs on.
	// Versions below it fail the check.
	Minimum models.Version

	// Recommended is the version the project is developed against.
	// Versions in [Minimum, Recommended) only warn. Must be >= Minimum.
	Recommended models.Version

	// RecommendedSet records that Recommended came from the config file, the
	// environment or a flag. A default Recommended below Minimum is raised to
	// it instead of being rejected.
	RecommendedSet bool
}

type Project struct {
	// Dir is the project directory every path is resolved against (see --dir).
	Dir string

	// Paths lists the relative paths the project must contain, in report order.
	Paths []string
}

type Packages struct {
	// Required packages fail the check when they cannot be imported.
	Required []string

	// Optional packages are development nice-to-haves; absence only warns.
	Optional []string

	// Build packages are needed to build a distributable; absence only warns.
	Build []string

	// ImportNames maps a distribution name (case-insensitive) to the module name
	// that is imported to resolve it, for packages where the two differ.
	ImportNames map[string]string
}

type Probes struct {
	// Selector selects which probes to run (see --probes).
	// Empty means all probes; otherwise a comma-separated list of probe IDs.
	Selector string
}

type Inventory struct {
	// Skip disables the raw package listing at the end of the report (see --no-inventory).
	Skip bool

	// Timeout bounds the package listing command (see --inventory-timeout).
	// Must be > 0.
	Timeout time.Duration
}

type Output struct {
	// Format controls the stdout report format (see --format).
	// Allowed values: text, json, ndjson.
	Format string

	// Quiet hides passing entries in the text report (see --quiet).
	Quiet bool

	// NoColor disables ANSI colors in the text report (see --no-color).
	NoColor bool

	// Report writes a Markdown report to this path (see --report).
	Report string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out file extension.
	OutFormat string
}

type Hints struct {
	// Setup is suggested when the environment is not ready.
	Setup string

	// BuildInstall is suggested when build packages are missing.
	BuildInstall string
}

type Runtime struct {
	// ConfigFile is an explicit configuration file (see --config). Empty means
	// search for .envready.yaml upward from the project directory.
	ConfigFile string

	// Verbose prints every interpreter invocation and full fact errors.
	Verbose bool
}

// DefaultImportNames lists well-known packages whose importable module name
// differs from the distribution name.
func DefaultImportNames() map[string]string {
	return map[string]string{
		"pyinstaller":     "PyInstaller",
		"pyyaml":          "yaml",
		"pillow":          "PIL",
		"beautifulsoup4":  "bs4",
		"scikit-learn":    "sklearn",
		"python-dateutil": "dateutil",
		"opencv-python":   "cv2",
	}
}

func New() *Config {
	return &Config{
		Interpreter: Interpreter{
			CallTimeout: 5 * time.Second,
		},
		Requirements: Requirements{
			Minimum:     models.Version{Major: 3, Minor: 8},
			Recommended: models.Version{Major: 3, Minor: 11},
		},
		Project: Project{
			Dir: ".",
			Paths: []string{
				"src/run.py",
				"src/wordle_solver/__init__.py",
				"wordle_solver.spec",
				"requirements.txt",
			},
		},
		Packages: Packages{
			Required:    []string{"rich"},
			Build:       []string{"pyinstaller"},
			ImportNames: DefaultImportNames(),
		},
		Inventory: Inventory{
			Timeout: 10 * time.Second,
		},
		Output: Output{
			Format: "text",
		},
		Hints: Hints{
			Setup:        `.\setup_env.ps1`,
			BuildInstall: "pip install -r requirements-dev.txt",
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Project.Paths = splitCommaList(c.Project.Paths)
	c.Packages.Required = splitCommaList(c.Packages.Required)
	c.Packages.Optional = splitCommaList(c.Packages.Optional)
	c.Packages.Build = splitCommaList(c.Packages.Build)

	c.Interpreter.Python = strings.TrimSpace(c.Interpreter.Python)
	c.Project.Dir = strings.TrimSpace(c.Project.Dir)
	if c.Project.Dir == "" {
		c.Project.Dir = "."
	}

	// Requirements validation
	if c.Requirements.Minimum.IsZero() {
		return errors.New("--min-python must be set (e.g. 3.8)")
	}
	if c.Requirements.Recommended.IsZero() {
		c.Requirements.Recommended = c.Requirements.Minimum
	}
	if c.Requirements.Recommended.Less(c.Requirements.Minimum) && !c.Requirements.RecommendedSet {
		c.Requirements.Recommended = c.Requirements.Minimum
	}
	if c.Requirements.Recommended.Less(c.Requirements.Minimum) {
		return fmt.Errorf("recommended python %s is lower than minimum %s", c.Requirements.Recommended, c.Requirements.Minimum)
	}

	// Project paths validation
	seen := make(map[string]struct{}, len(c.Project.Paths))
	for i, p := range c.Project.Paths {
		if filepath.IsAbs(p) || path.IsAbs(filepath.ToSlash(p)) {
			return fmt.Errorf("project path %q must be relative to the project directory", p)
		}
		clean := path.Clean(filepath.ToSlash(p))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("project path %q must stay inside the project directory", p)
		}
		if _, dup := seen[clean]; dup {
			return fmt.Errorf("project path %q is listed more than once", p)
		}
		seen[clean] = struct{}{}
		c.Project.Paths[i] = clean
	}

	// Packages validation
	c.Packages.ImportNames = normalizeImportNames(c.Packages.ImportNames)
	owner := make(map[string]models.PackageCategory)
	for _, group := range []struct {
		cat   models.PackageCategory
		names []string
	}{
		{models.PackageRequired, c.Packages.Required},
		{models.PackageOptional, c.Packages.Optional},
		{models.PackageBuild, c.Packages.Build},
	} {
		for _, name := range group.names {
			key := strings.ToLower(name)
			if prev, ok := owner[key]; ok {
				return fmt.Errorf("package %q is listed as both %s and %s", name, prev, group.cat)
			}
			owner[key] = group.cat
		}
	}

	// Output validation
	c.Output.Format = normalizeEnumValue(c.Output.Format)
	if c.Output.Format == "" {
		return errors.New("--format must be one of: text, json, ndjson")
	}
	if c.Output.Format != "text" && c.Output.Format != "json" && c.Output.Format != "ndjson" {
		return fmt.Errorf("unsupported --format: %s (must be one of: text, json, ndjson)", c.Output.Format)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Runtime validation
	if c.Interpreter.CallTimeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Inventory.Timeout <= 0 {
		return errors.New("--inventory-timeout must be > 0")
	}

	c.Probes.Selector = strings.TrimSpace(c.Probes.Selector)
	return nil
}

// PackageSpecs returns every configured package in report order: required,
// then optional, then build.
func (c *Config) PackageSpecs() []models.PackageSpec {
	var out []models.PackageSpec
	add := func(cat models.PackageCategory, names []string) {
		for _, name := range names {
			out = append(out, models.PackageSpec{
				Name:     name,
				Module:   c.ImportName(name),
				Category: cat,
			})
		}
	}
	add(models.PackageRequired, c.Packages.Required)
	add(models.PackageOptional, c.Packages.Optional)
	add(models.PackageBuild, c.Packages.Build)
	return out
}

// ImportName resolves the module imported to check a distribution name.
func (c *Config) ImportName(name string) string {
	if mod, ok := c.Packages.ImportNames[strings.ToLower(strings.TrimSpace(name))]; ok && mod != "" {
		return mod
	}
	// Hyphens never appear in module names; distributions use them freely.
	return strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

// ImportNameKeys returns the configured overrides in stable order.
func (c *Config) ImportNameKeys() []string {
	keys := make([]string, 0, len(c.Packages.ImportNames))
	for k := range c.Packages.ImportNames {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeImportNames(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// ParseImportNameAssignments parses values of the form "distribution=module".
//
// Notes:
// - Entries may be provided via repeated flags and/or comma-delimited lists.
// - Distribution names are matched case-insensitively; module names are kept as given.
func ParseImportNameAssignments(values []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, raw := range splitCommaList(values) {
		dist, mod, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --import-name entry %q: expected distribution=module", raw)
		}
		dist = strings.ToLower(strings.TrimSpace(dist))
		mod = strings.TrimSpace(mod)
		if dist == "" || mod == "" {
			return nil, fmt.Errorf("invalid --import-name entry %q: expected non-empty distribution and module", raw)
		}
		out[dist] = mod
	}
	return out, nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
