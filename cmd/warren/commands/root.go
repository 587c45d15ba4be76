package commands

import (
	"fmt"

	"github.com/ardenhq/warren/internal/config"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath string

	// cfg is the loaded configuration, available to every subcommand after
	// rootCmd's PersistentPreRunE has run. Defaulted so commands work with
	// no --config flag at all.
	cfg = config.Default()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "warren",
	Short: "warren - a hierarchical state-machine engine with a typed blackboard",
	Long: `warren drives named states through outcome-keyed transitions over a
shared, type-checked blackboard. States compose by implementing a single
interface: a plain callback, a set of children run in parallel and
aggregated by predicate, or a whole engine nested as a single state.

This binary is a demo/debug driver over the library, not part of it.`,
	Version:           version,
	PersistentPreRunE: loadConfig,

	// internal/printer already writes the full error report to stderr;
	// main.main prints the returned title line once. Without these, cobra
	// would print the error and the usage text on top of that.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return nil
	}
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a warren.yml configuration file")
}
