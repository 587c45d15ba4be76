// Package printer formats cmd/warren's terminal output: colorized
// success/info/step lines for a scenario run, and a structured error
// report for validation and execution failures.
package printer

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
	red   = color.New(color.FgRed, color.Bold)
)

// Success prints a scenario outcome in green with a checkmark prefix.
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s", msg)
	} else {
		green.Print(msg)
	}
}

// Info prints a blackboard dump or other uncolored detail line.
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Step prints the name of the scenario about to run, with emphasis.
func Step(format string, a ...any) {
	cyan.Printf("→ %s", fmt.Sprintf(format, a...))
}

// Println prints a plain line, such as a serialized blackboard from dump.
func Println(a ...any) {
	fmt.Println(a...)
}

// Error reports a scenario failure with no additional context fields: a
// title, an explanation (typically an engine error's message), and
// optional remediation suggestions.
func Error(title, explanation string, suggestions []string) error {
	return report(title, explanation, nil, suggestions)
}

// ErrorWithContext reports a scenario failure alongside structured context
// — e.g. which scenario and which flags were in effect when an Engine
// rejected a run or failed validation.
func ErrorWithContext(title, explanation string, context map[string]string, suggestions []string) error {
	return report(title, explanation, context, suggestions)
}

// report writes title, explanation, context, and suggestions to stderr in
// that order, then returns a bare error carrying only the title — cobra is
// configured with SilenceErrors, so this is the line it would otherwise
// print a second time.
func report(title, explanation string, context map[string]string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(os.Stderr, "%s\n", explanation)
	}

	if len(context) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		for key, value := range context {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", key, value)
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(os.Stderr, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(os.Stderr, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return fmt.Errorf("%s", title)
}
