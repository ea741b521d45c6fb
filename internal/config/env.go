package config

import (
	"fmt"
	"time"

	"envready/internal/data/models"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the environment variables envready honours. Zero values
// mean "not set" and leave the current configuration alone.
type envOverrides struct {
	Python           string         `env:"ENVREADY_PYTHON"`
	Timeout          time.Duration  `env:"ENVREADY_TIMEOUT"`
	InventoryTimeout time.Duration  `env:"ENVREADY_INVENTORY_TIMEOUT"`
	MinPython        models.Version `env:"ENVREADY_MIN_PYTHON"`
	RecommendedPy    models.Version `env:"ENVREADY_RECOMMENDED_PYTHON"`
	Format           string         `env:"ENVREADY_FORMAT"`
	NoColor          bool           `env:"ENVREADY_NO_COLOR"`
	Verbose          bool           `env:"ENVREADY_VERBOSE"`
}

// ApplyEnv overlays ENVREADY_* environment variables onto c.
func ApplyEnv(c *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Python != "" {
		c.Interpreter.Python = o.Python
	}
	if o.Timeout != 0 {
		c.Interpreter.CallTimeout = o.Timeout
	}
	if o.InventoryTimeout != 0 {
		c.Inventory.Timeout = o.InventoryTimeout
	}
	if !o.MinPython.IsZero() {
		c.Requirements.Minimum = o.MinPython
	}
	if !o.RecommendedPy.IsZero() {
		c.Requirements.Recommended = o.RecommendedPy
		c.Requirements.RecommendedSet = true
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.NoColor {
		c.Output.NoColor = true
	}
	if o.Verbose {
		c.Runtime.Verbose = true
	}
	return nil
}
