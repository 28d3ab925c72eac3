package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leofalp/conclave/core/agent"
	"github.com/leofalp/conclave/core/cost"
	"github.com/leofalp/conclave/core/orchestrator"
	"github.com/leofalp/conclave/export/markdown"
	"github.com/leofalp/conclave/internal/config"
	"github.com/leofalp/conclave/providers/ai/openai"
	"github.com/leofalp/conclave/providers/capability"
	"github.com/leofalp/conclave/providers/capability/calculator"
	"github.com/leofalp/conclave/providers/capability/webfetch"
	"github.com/leofalp/conclave/providers/capability/websearch"
	"github.com/leofalp/conclave/providers/observability"
)

var (
	askContext     string
	askInteractive bool
	askModel       string
	askRoles       string
	askReportDir   string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Run the agent pipeline on a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := newLogger(cfg.LogLevel)
		ctx := observability.ContextWithObserver(cmd.Context(), observability.NewSlog(logger))

		model := cfg.Pipeline.Model
		if askModel != "" {
			model = askModel
		}

		rates := cost.NewDefaultRateTable()
		if cfg.Pipeline.RatesFile != "" {
			rates, err = cost.LoadRateTable(cfg.Pipeline.RatesFile)
			if err != nil {
				return err
			}
		}

		roleSpec := cfg.Pipeline.Roles
		if askRoles != "" {
			roleSpec = askRoles
		}
		var roles []agent.Role
		if roleSpec != "" {
			roles, err = agent.ParseSequence(roleSpec)
			if err != nil {
				return err
			}
		}

		mode := orchestrator.ModeAutomatic
		opts := []orchestrator.Option{
			orchestrator.WithModel(model),
			orchestrator.WithMaxAttempts(cfg.Pipeline.MaxAttempts),
			orchestrator.WithMaxRevisions(cfg.Review.MaxRevisions),
			orchestrator.WithExhaustionPolicy(orchestrator.ExhaustionPolicy(cfg.Review.ExhaustionPolicy)),
			orchestrator.WithRoleCapabilities(agent.RoleResearcher,
				capability.NewCatalog(websearch.New().Capability(), webfetch.New())),
			orchestrator.WithRoleCapabilities(agent.RoleFactChecker,
				capability.NewCatalog(websearch.New().Capability())),
			orchestrator.WithRoleCapabilities(agent.RoleCodeExecutor,
				capability.NewCatalog(calculator.New())),
		}

		if askInteractive {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("interactive mode requires a terminal on stdin")
			}
			mode = orchestrator.ModeInteractive
			opts = append(opts, orchestrator.WithReviewer(newConsoleReviewer(
				os.Stdin, os.Stdout, cfg.Review.DecisionTimeoutSeconds)))
		}

		o, err := orchestrator.New(openai.New(), rates, opts...)
		if err != nil {
			return err
		}

		session, runErr := o.Run(ctx, orchestrator.Request{
			Question: args[0],
			Context:  askContext,
			Mode:     mode,
			Roles:    roles,
		})
		if session == nil {
			return runErr
		}

		// A failed session still gets its audit report.
		path, exportErr := markdown.ExportFile(reportDir(cfg), session)
		if exportErr != nil {
			return exportErr
		}

		printSummary(session, path)
		if runErr != nil {
			return runErr
		}
		if session.Failed() {
			return fmt.Errorf("session failed: %s", session.FailureReason)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askContext, "context", "c", "", "Additional context for the question")
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "Pause for human review after each agent turn")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model to use (default from CONCLAVE_MODEL)")
	askCmd.Flags().StringVar(&askRoles, "roles", "", "Comma-separated role sequence (default: researcher,analyst,fact_checker,synthesizer,critic)")
	askCmd.Flags().StringVar(&askReportDir, "report-dir", "", "Directory for the Markdown report (default from CONCLAVE_REPORT_DIR)")
	rootCmd.AddCommand(askCmd)
}

func reportDir(cfg *config.Config) string {
	if askReportDir != "" {
		return askReportDir
	}
	return cfg.Export.ReportDir
}

func printSummary(session *orchestrator.Session, reportPath string) {
	totals := session.Ledger.Totals()
	fmt.Printf("\nSession %s: %s\n", session.ID, session.Status)
	if session.FailureReason != "" {
		fmt.Printf("Reason: %s\n", session.FailureReason)
	}
	fmt.Printf("Tokens: %d input, %d output\n", totals.InputTokens, totals.OutputTokens)
	fmt.Printf("Total cost: %s\n", cost.FormatDollars(totals.GrandTotal))
	fmt.Printf("Report: %s\n", reportPath)
}
