package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"envready/internal/data/models"

	"gopkg.in/yaml.v3"
)

// FileName is the project-level configuration file searched for by LoadFile.
const FileName = ".envready.yaml"

// maxSearchDepth bounds the upward search for FileName.
const maxSearchDepth = 10

type fileRequirements struct {
	Minimum     *models.Version `yaml:"minimum,omitempty"`
	Recommended *models.Version `yaml:"recommended,omitempty"`
}

type filePackages struct {
	Required    []string          `yaml:"required,omitempty"`
	Optional    []string          `yaml:"optional,omitempty"`
	Build       []string          `yaml:"build,omitempty"`
	ImportNames map[string]string `yaml:"import_names,omitempty"`
}

type fileHints struct {
	Setup        string `yaml:"setup,omitempty"`
	BuildInstall string `yaml:"build_install,omitempty"`
}

// fileConfig is the on-disk shape of .envready.yaml. Every field is optional;
// absent fields keep their defaults.
type fileConfig struct {
	Python           string           `yaml:"python,omitempty"`
	Timeout          time.Duration    `yaml:"timeout,omitempty"`
	InventoryTimeout time.Duration    `yaml:"inventory_timeout,omitempty"`
	PythonVersion    fileRequirements `yaml:"python_version,omitempty"`
	Paths            []string         `yaml:"paths"`
	Packages         filePackages     `yaml:"packages,omitempty"`
	Hints            fileHints        `yaml:"hints,omitempty"`
}

// LoadFile overlays a configuration file onto c.
//
// If explicit is non-empty that file must exist. Otherwise FileName is searched
// for by walking up from startDir; when none is found c is left untouched and
// the returned path is empty. Real I/O errors (e.g. permission denied) are
// returned to the caller.
func LoadFile(c *Config, explicit, startDir string) (string, error) {
	var (
		raw  []byte
		path string
		err  error
	)
	if explicit != "" {
		path = explicit
		raw, err = os.ReadFile(explicit)
		if err != nil {
			return "", fmt.Errorf("loading %s: %w", explicit, err)
		}
	} else {
		raw, path, err = findConfigFile(startDir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("loading %s: %w", FileName, err)
		}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	mergeFile(c, &fc)
	return path, nil
}

// findConfigFile walks up from dir looking for FileName (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		raw, err := os.ReadFile(p)
		if err == nil {
			return raw, p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeFile overlays non-zero values from src onto dst. A present list
// replaces the default list entirely, including an explicitly empty one.
func mergeFile(dst *Config, src *fileConfig) {
	if src.Python != "" {
		dst.Interpreter.Python = src.Python
	}
	if src.Timeout != 0 {
		dst.Interpreter.CallTimeout = src.Timeout
	}
	if src.InventoryTimeout != 0 {
		dst.Inventory.Timeout = src.InventoryTimeout
	}

	if src.PythonVersion.Minimum != nil {
		dst.Requirements.Minimum = *src.PythonVersion.Minimum
	}
	if src.PythonVersion.Recommended != nil {
		dst.Requirements.Recommended = *src.PythonVersion.Recommended
		dst.Requirements.RecommendedSet = true
	}

	if src.Paths != nil {
		dst.Project.Paths = append([]string{}, src.Paths...)
	}

	if src.Packages.Required != nil {
		dst.Packages.Required = append([]string{}, src.Packages.Required...)
	}
	if src.Packages.Optional != nil {
		dst.Packages.Optional = append([]string{}, src.Packages.Optional...)
	}
	if src.Packages.Build != nil {
		dst.Packages.Build = append([]string{}, src.Packages.Build...)
	}
	if len(src.Packages.ImportNames) > 0 {
		if dst.Packages.ImportNames == nil {
			dst.Packages.ImportNames = make(map[string]string)
		}
		for k, v := range src.Packages.ImportNames {
			dst.Packages.ImportNames[k] = v
		}
	}

	if src.Hints.Setup != "" {
		dst.Hints.Setup = src.Hints.Setup
	}
	if src.Hints.BuildInstall != "" {
		dst.Hints.BuildInstall = src.Hints.BuildInstall
	}
}
