package cli

import (
	"fmt"
	"io"

	"envready/internal/config"
	"envready/internal/probes"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var probesListQuiet bool
var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "List and describe probes",
	Long: `Inspect envready probes.

This command group helps you discover which probes exist and what each probe checks.
Probes are evaluated during checks (see "envready check --help").

Examples:
  # List all available probes
  envready probes list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var probesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available probes",
	Long: `List all probes currently registered in this build.

Probes are listed in report order.

Examples:
  envready probes list

Output:
  A vertical list of probes:
    ----------------------------------------
    PROBE: {ID}
    ----------------------------------------
    {TITLE}
    {DESCRIPTION}
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range probes.List() {
			if probesListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), p.ID())
			} else {
				printProbe(cmd.OutOrStdout(), p)
			}
		}
		return nil
	},
}

var probesShowCmd = &cobra.Command{
	Use:   "show [probe-id]",
	Short: "Show details of a specific probe",
	Long: `Show details of a specific probe by its ID.

Examples:
  envready probes show python-version
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := probes.Lookup(args[0])
		if !ok {
			return fmt.Errorf("probe not found: %s", args[0])
		}
		printProbe(cmd.OutOrStdout(), p)
		return nil
	},
}

func printProbe(w io.Writer, p probes.Probe) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "PROBE: %s\n", p.ID())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, p.Title())
	fmt.Fprintln(w, p.Description())
	fmt.Fprintf(w, "Section: %s\n", p.Section().Title())

	// Facts are listed for the default configuration.
	deps, err := p.Dependencies(config.New())
	if err == nil && len(deps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Facts:")
		for _, d := range deps {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(probesCmd)
	probesCmd.AddCommand(probesListCmd)
	probesListCmd.Flags().BoolVarP(&probesListQuiet, "quiet", "q", false, "Only print probe IDs")
	probesCmd.AddCommand(probesShowCmd)
}
