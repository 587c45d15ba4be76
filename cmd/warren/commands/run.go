package commands

import (
	"fmt"
	"strings"

	"github.com/ardenhq/warren/internal/demo"
	"github.com/ardenhq/warren/internal/observe"
	"github.com/ardenhq/warren/internal/printer"
	"github.com/ardenhq/warren/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	runObserverAddr    string
	runObserverChannel string
	runQuiet           bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Execute a demo scenario to completion",
	Long: fmt.Sprintf(`Execute one of the built-in demo scenarios and print its final outcome.

Available scenarios: %s

With --observer-addr set, lifecycle events are published to a Redis
Pub/Sub channel for an external monitor to watch, in place of the
structured event log. If --observer-addr is
omitted, an observer configured in warren.yml is still honored.

If <scenario> is omitted, the default_demo scenario from warren.yml is
used.`, strings.Join(demo.Names(), ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runObserverAddr, "observer-addr", "", "Redis address to publish lifecycle events to (disabled if empty)")
	runCmd.Flags().StringVar(&runObserverChannel, "observer-channel", "warren.events", "Redis Pub/Sub channel for published events")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "suppress structured event logging")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name := cfg.DefaultDemo
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		return printer.Error(
			"No scenario given",
			"Pass a scenario name or set default_demo in warren.yml.",
			[]string{fmt.Sprintf("Choose one of: %s", strings.Join(demo.Names(), ", "))},
		)
	}

	scenario, ok := demo.Lookup(name)
	if !ok {
		return printer.Error(
			fmt.Sprintf("Unknown scenario %q", name),
			"No demo scenario is registered under that name.",
			[]string{fmt.Sprintf("Choose one of: %s", strings.Join(demo.Names(), ", "))},
		)
	}

	engine, bb, err := scenario.Build()
	if err != nil {
		return fmt.Errorf("build scenario %q: %w", scenario.Name, err)
	}

	if !runQuiet {
		engine.SetLogger(telemetry.NewLogger("engine"))
	}

	observerAddr := runObserverAddr
	observerChannel := runObserverChannel
	if observerAddr == "" && cfg.Observer != nil && cfg.Observer.Enabled {
		observerAddr = cfg.Observer.Addr
		observerChannel = cfg.Observer.Channel
	}

	if observerAddr != "" {
		observer, err := observe.NewRedisObserver(&redis.Options{Addr: observerAddr}, observerChannel)
		if err != nil {
			return fmt.Errorf("create observer: %w", err)
		}
		defer observer.Close()
		engine.SetLogger(observer)
	}

	printer.Step("running scenario %q (%s)\n", scenario.Name, scenario.Description)

	outcome, err := engine.Execute(bb)
	if err != nil {
		context := map[string]string{"scenario": scenario.Name}
		if observerAddr != "" {
			context["observer_addr"] = observerAddr
		}
		return printer.ErrorWithContext(
			"Scenario run failed",
			err.Error(),
			context,
			nil,
		)
	}

	printer.Success("outcome: %s\n", outcome)
	printer.Info("blackboard: %s\n", bb.Serialize())
	return nil
}
