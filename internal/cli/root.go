package cli

import (
	"fmt"
	"os"

	"envready/internal/flags"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "envready",
	Short: "Check that a Python project's development environment is ready",
	Long: `envready checks that a Python project's development environment is ready.

It verifies the interpreter version, virtual environment isolation, the project
layout and the importability of required, optional and build packages, then
prints a readiness verdict. envready is read-only: it never installs anything.

Running envready without a command runs "envready check".

Examples:
	# Check the project in the current directory
	envready

	# Show available commands and global flags
	envready --help

	# List probes
	envready probes list

	# Print build info
	envready version

Output:
	By default, commands write human-readable output to stdout.
	Structured output is available via --format, --out and --report (see "envready check --help").`,
	Run: runCheckCommand,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every interpreter call and full error details)")
	addCheckFlags(rootCmd.Flags(), cfg, &importNameFlags)
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}
