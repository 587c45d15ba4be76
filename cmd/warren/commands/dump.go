package commands

import (
	"fmt"
	"strings"

	"github.com/ardenhq/warren/internal/demo"
	"github.com/ardenhq/warren/internal/printer"
	"github.com/spf13/cobra"
)

var dumpCanonical bool

var dumpCmd = &cobra.Command{
	Use:   "dump <scenario>",
	Short: "Print a demo scenario's initial blackboard as JSON",
	Long: fmt.Sprintf(`Print the blackboard a demo scenario starts with, without running the
engine. Useful for inspecting fixture data or diffing the canonical form
across runs.

Available scenarios: %s`, strings.Join(demo.Names(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpCanonical, "canonical", false, "use RFC 8785 canonical JSON instead of strict JSON")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	scenario, ok := demo.Lookup(args[0])
	if !ok {
		return printer.Error(
			fmt.Sprintf("Unknown scenario %q", args[0]),
			"No demo scenario is registered under that name.",
			[]string{fmt.Sprintf("Choose one of: %s", strings.Join(demo.Names(), ", "))},
		)
	}

	_, bb, err := scenario.Build()
	if err != nil {
		return fmt.Errorf("build scenario %q: %w", scenario.Name, err)
	}

	var out string
	if dumpCanonical {
		out, err = bb.SerializeCanonical()
	} else {
		out, err = bb.SerializeJSON()
	}
	if err != nil {
		return fmt.Errorf("serialize blackboard: %w", err)
	}

	printer.Println(out)
	return nil
}
