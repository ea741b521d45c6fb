package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"envready/internal/config"
	"envready/internal/data/models"
	"envready/internal/engine"
	"envready/internal/fetcher"
	"envready/internal/flags"
	"envready/internal/interpreter"
	"envready/internal/inventory"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	cfg             = config.New()
	importNameFlags []string
)

// newRunner builds the subprocess runner for interpreter calls; tests replace it.
var newRunner = func() interpreter.Runner { return interpreter.ExecRunner{} }

const checkHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Configuration:
  Settings are layered; later sources win:
  1) built-in defaults
  2) .envready.yaml (searched upward from --dir, or given with --config)
  3) environment variables
  4) flags given on the command line

  Environment variables:
    ENVREADY_PYTHON               interpreter to inspect
    ENVREADY_TIMEOUT              per-call interpreter timeout (e.g. 5s)
    ENVREADY_INVENTORY_TIMEOUT    timeout for the package listing
    ENVREADY_MIN_PYTHON           minimum python version
    ENVREADY_RECOMMENDED_PYTHON   recommended python version
    ENVREADY_FORMAT               stdout format
    ENVREADY_NO_COLOR             disable colors
    ENVREADY_VERBOSE              verbose logging

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the Python environment is ready for development",
	Long: `Check that the Python environment is ready for development.

envready inspects the interpreter that will run the project, the project's
files and the importability of its packages, then prints a sectioned report.
It is read-only: it installs nothing and never touches the network.

Sections (always in this order):
  Python Version, Virtual Environment, Project Structure,
  Required Packages, Build & Optional Packages

Output:
  Console output is controlled by --format (default: text).
  Structured outputs can be written via:
  - --out / --out-format: write an aggregate JSON document or NDJSON stream to a file
  - --report: write a Markdown report

  NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
  "type" field (run.started, section.started, probe.result, run.summary,
  inventory, run.finished).

Exit codes:
  0 = ready (possibly with warnings)
  1 = not ready
  3 = fatal error (check did not run)

Examples:
  # Check the project in the current directory
  envready check

  # Check with a specific interpreter and a stricter minimum
  envready check --python .venv/bin/python --min-python 3.10

  # AI Agent: stream machine-readable events to stdout
  envready check --format ndjson --no-inventory
`,
	Args: cobra.NoArgs,
	Run:  runCheckCommand,
}

func runCheckCommand(cmd *cobra.Command, args []string) {
	os.Exit(runCheck(cmd.Context(), cmd.Flags(), cfg, importNameFlags, cmd.OutOrStdout(), cmd.ErrOrStderr()))
}

// runCheck resolves configuration, wires the engine and runs one check.
func runCheck(ctx context.Context, fs *pflag.FlagSet, flagCfg *config.Config, importNames []string, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}

	resolved, err := resolveConfig(fs, flagCfg, importNames)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 3
	}

	if resolved.Runtime.Verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	color.NoColor = !colorEnabled(stdout, resolved.Output.NoColor)

	python, source, err := interpreter.Resolve(resolved.Interpreter.Python)
	if err != nil {
		if !errors.Is(err, interpreter.ErrNotFound) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 3
		}
		// Probes report the unusable interpreter as error results.
		fmt.Fprintf(stderr, "Warning: %v\n", err)
		python = "python3"
	}
	slog.Debug("interpreter resolved", "python", python, "source", source)

	client, err := interpreter.NewClient(python,
		interpreter.WithRunner(newRunner()),
		interpreter.WithTimeout(resolved.Interpreter.CallTimeout),
		interpreter.WithVerbose(resolved.Runtime.Verbose, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create interpreter client: %v\n", err)
		return 3
	}

	eng := engine.NewEngine(
		fetcher.NewFetcher(client, resolved),
		inventory.NewReporter(client, resolved.Inventory.Timeout),
	)
	eng.Stdout = stdout
	eng.Stderr = stderr
	return eng.Run(ctx, resolved)
}

// resolveConfig layers defaults, the config file, the environment and the
// explicitly set flags, in that order, and validates the result.
func resolveConfig(fs *pflag.FlagSet, flagCfg *config.Config, importNames []string) (*config.Config, error) {
	resolved := config.New()
	if fs.Changed(flags.FlagDir) {
		resolved.Project.Dir = flagCfg.Project.Dir
	}
	if fs.Changed(flags.FlagConfig) {
		resolved.Runtime.ConfigFile = flagCfg.Runtime.ConfigFile
	}

	path, err := config.LoadFile(resolved, resolved.Runtime.ConfigFile, resolved.Project.Dir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("configuration file loaded", "path", path)
	}

	if err := config.ApplyEnv(resolved); err != nil {
		return nil, err
	}

	for name, apply := range flagOverrides {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			apply(resolved, flagCfg)
		}
	}

	if len(importNames) > 0 {
		overrides, err := config.ParseImportNameAssignments(importNames)
		if err != nil {
			return nil, err
		}
		if resolved.Packages.ImportNames == nil {
			resolved.Packages.ImportNames = make(map[string]string, len(overrides))
		}
		for dist, mod := range overrides {
			resolved.Packages.ImportNames[dist] = mod
		}
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// flagOverrides copies a flag's bound value from the flag config onto the
// resolved config. Only flags set on the command line are applied.
var flagOverrides = map[string]func(dst, src *config.Config){
	flags.FlagPython:           func(dst, src *config.Config) { dst.Interpreter.Python = src.Interpreter.Python },
	flags.FlagTimeout:          func(dst, src *config.Config) { dst.Interpreter.CallTimeout = src.Interpreter.CallTimeout },
	flags.FlagMinPython:        func(dst, src *config.Config) { dst.Requirements.Minimum = src.Requirements.Minimum },
	flags.FlagRecommended:      func(dst, src *config.Config) { dst.Requirements.Recommended, dst.Requirements.RecommendedSet = src.Requirements.Recommended, true },
	flags.FlagPaths:            func(dst, src *config.Config) { dst.Project.Paths = cloneStrings(src.Project.Paths) },
	flags.FlagRequire:          func(dst, src *config.Config) { dst.Packages.Required = cloneStrings(src.Packages.Required) },
	flags.FlagOptional:         func(dst, src *config.Config) { dst.Packages.Optional = cloneStrings(src.Packages.Optional) },
	flags.FlagBuild:            func(dst, src *config.Config) { dst.Packages.Build = cloneStrings(src.Packages.Build) },
	flags.FlagProbes:           func(dst, src *config.Config) { dst.Probes.Selector = src.Probes.Selector },
	flags.FlagInventoryTimeout: func(dst, src *config.Config) { dst.Inventory.Timeout = src.Inventory.Timeout },
	flags.FlagNoInventory:      func(dst, src *config.Config) { dst.Inventory.Skip = src.Inventory.Skip },
	flags.FlagFormat:           func(dst, src *config.Config) { dst.Output.Format = src.Output.Format },
	flags.FlagQuiet:            func(dst, src *config.Config) { dst.Output.Quiet = src.Output.Quiet },
	flags.FlagNoColor:          func(dst, src *config.Config) { dst.Output.NoColor = src.Output.NoColor },
	flags.FlagReport:           func(dst, src *config.Config) { dst.Output.Report = src.Output.Report },
	flags.FlagOut:              func(dst, src *config.Config) { dst.Output.Out = src.Output.Out },
	flags.FlagOutFormat:        func(dst, src *config.Config) { dst.Output.OutFormat = src.Output.OutFormat },
	flags.FlagVerbose:          func(dst, src *config.Config) { dst.Runtime.Verbose = src.Runtime.Verbose },
}

func cloneStrings(in []string) []string {
	return append([]string{}, in...)
}

func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// versionValue adapts models.Version to pflag.Value.
type versionValue struct {
	v *models.Version
}

func newVersionValue(p *models.Version) *versionValue {
	return &versionValue{v: p}
}

func (f *versionValue) String() string {
	if f.v == nil || f.v.IsZero() {
		return ""
	}
	return f.v.String()
}

func (f *versionValue) Set(s string) error {
	return f.v.UnmarshalText([]byte(s))
}

func (f *versionValue) Type() string { return "version" }

// addCheckFlags binds the check flags to c. The root command and the check
// subcommand share them.
func addCheckFlags(fs *pflag.FlagSet, c *config.Config, importNames *[]string) {
	// MAINTAINER NOTE: If you add/change/remove a flag here, add it to
	// flagOverrides as well or it will be parsed and then ignored.

	// Interpreter
	fs.StringVar(&c.Interpreter.Python, flags.FlagPython, "", "Python interpreter to inspect (default: $VIRTUAL_ENV, then python3/python on PATH)")
	fs.DurationVar(&c.Interpreter.CallTimeout, flags.FlagTimeout, c.Interpreter.CallTimeout, "Timeout for each interpreter call")

	// Project
	fs.StringVar(&c.Project.Dir, flags.FlagDir, ".", "Project directory paths are resolved against")
	fs.StringVar(&c.Runtime.ConfigFile, flags.FlagConfig, "", "Configuration file (default: .envready.yaml searched upward from --dir)")
	fs.Var(newVersionValue(&c.Requirements.Minimum), flags.FlagMinPython, "Minimum python version; lower versions fail the check")
	fs.Var(newVersionValue(&c.Requirements.Recommended), flags.FlagRecommended, "Recommended python version; lower versions only warn")
	fs.StringSliceVar(&c.Project.Paths, flags.FlagPaths, c.Project.Paths, "Relative paths the project must contain (repeatable; comma-separated accepted)")

	// Packages
	fs.StringSliceVar(&c.Packages.Required, flags.FlagRequire, c.Packages.Required, "Required packages; a missing one fails the check (repeatable; comma-separated accepted)")
	fs.StringSliceVar(&c.Packages.Optional, flags.FlagOptional, c.Packages.Optional, "Optional development packages; a missing one only warns")
	fs.StringSliceVar(&c.Packages.Build, flags.FlagBuild, c.Packages.Build, "Build packages; a missing one only warns")
	fs.StringSliceVar(importNames, flags.FlagImportName, nil, "Module imported for a distribution as distribution=module (repeatable; comma-separated accepted)")

	// Probes
	fs.StringVar(&c.Probes.Selector, flags.FlagProbes, "", "Comma-separated probe IDs to run (empty = all probes; see 'envready probes list')")

	// Inventory
	fs.DurationVar(&c.Inventory.Timeout, flags.FlagInventoryTimeout, c.Inventory.Timeout, "Timeout for the installed package listing")
	fs.BoolVar(&c.Inventory.Skip, flags.FlagNoInventory, false, "Skip the installed package listing")

	// Output
	fs.StringVar(&c.Output.Format, flags.FlagFormat, "text", "Stdout format: text|json|ndjson")
	fs.BoolVarP(&c.Output.Quiet, flags.FlagQuiet, "q", false, "Hide passing entries in text output")
	fs.BoolVar(&c.Output.NoColor, flags.FlagNoColor, false, "Disable colors in text output")
	fs.StringVar(&c.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	fs.StringVar(&c.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	fs.StringVar(&c.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetHelpTemplate(checkHelpTemplate)
	addCheckFlags(checkCmd.Flags(), cfg, &importNameFlags)
}
