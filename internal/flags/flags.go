package flags

// Package flags defines canonical CLI flag names shared across the CLI and the
// configuration layers.
// Keeping these as constants helps avoid drift between Cobra flag wiring and the
// code that decides which flags were explicitly set on the command line.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Interpreter.Python, flags.FlagPython, "", "...")
//	arg := "--" + flags.FlagPython
const (
	// Interpreter
	FlagPython  = "python"
	FlagTimeout = "timeout"

	// Project
	FlagDir         = "dir"
	FlagConfig      = "config"
	FlagMinPython   = "min-python"
	FlagRecommended = "recommended-python"
	FlagPaths       = "paths"

	// Packages
	FlagRequire    = "require"
	FlagOptional   = "optional"
	FlagBuild      = "build"
	FlagImportName = "import-name"

	// Probes
	FlagProbes = "probes"

	// Inventory
	FlagInventoryTimeout = "inventory-timeout"
	FlagNoInventory      = "no-inventory"

	// Output
	FlagFormat    = "format"
	FlagQuiet     = "quiet"
	FlagNoColor   = "no-color"
	FlagReport    = "report"
	FlagOut       = "out"
	FlagOutFormat = "out-format"

	// Runtime
	FlagVerbose = "verbose"
)
