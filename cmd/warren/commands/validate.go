package commands

import (
	"fmt"
	"strings"

	"github.com/ardenhq/warren/internal/demo"
	"github.com/ardenhq/warren/internal/printer"
	"github.com/spf13/cobra"
)

var validateForced bool

var validateCmd = &cobra.Command{
	Use:   "validate <scenario>",
	Short: "Check a demo scenario's transition graph without running it",
	Long: fmt.Sprintf(`Check that a demo scenario's engine is well-formed: its initial state
is registered, every transition target is a registered state or one of
the engine's own outcomes, and (with --forced) every declared outcome
either has a transition or names one of the engine's own outcomes.
States need not be reachable from the initial state.

Available scenarios: %s`, strings.Join(demo.Names(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateForced, "forced", false, "also require every outcome to terminate, not just be legal")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	scenario, ok := demo.Lookup(args[0])
	if !ok {
		return printer.Error(
			fmt.Sprintf("Unknown scenario %q", args[0]),
			"No demo scenario is registered under that name.",
			[]string{fmt.Sprintf("Choose one of: %s", strings.Join(demo.Names(), ", "))},
		)
	}

	engine, _, err := scenario.Build()
	if err != nil {
		return fmt.Errorf("build scenario %q: %w", scenario.Name, err)
	}

	if err := engine.Validate(validateForced); err != nil {
		return printer.ErrorWithContext(
			"Validation failed",
			err.Error(),
			map[string]string{
				"scenario": scenario.Name,
				"forced":   fmt.Sprintf("%v", validateForced),
			},
			nil,
		)
	}

	printer.Success("scenario %q is valid\n", scenario.Name)
	return nil
}
