// Command conclave answers questions through a sequential pipeline of
// specialized LLM agents, with optional human review of every turn and
// per-agent cost accounting.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "conclave",
	Short: "Sequential multi-agent question answering with cost accounting",
	Long: `Conclave runs a fixed pipeline of specialized agents (researcher,
analyst, fact checker, synthesizer, critic) to answer a question
collaboratively. In interactive mode every agent turn pauses for human
approval, rejection, or a revision request. Each run produces an auditable
Markdown report with per-agent token and dollar costs.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger creates a structured logger honoring the configured level and
// the --verbose flag.
func newLogger(configuredLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch configuredLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
