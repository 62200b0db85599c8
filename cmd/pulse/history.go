package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/finze-app/finze-pulse/internal/checkup"
	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/config"
	"github.com/finze-app/finze-pulse/internal/history"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded smoke runs",
		Long:  `List and inspect runs recorded with 'pulse smoke --record'.`,
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			journal, err := history.Open(ctx, config.HistoryPath())
			if err != nil {
				return fmt.Errorf("failed to open history journal: %w", err)
			}
			defer func() {
				if err := journal.Close(); err != nil {
					slog.Warn("Failed to close history journal", "error", err)
				}
			}()

			runs, err := journal.RecentRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No recorded runs yet. Use 'pulse smoke --record' to start the journal."))
				return nil
			}

			return renderRunTable(os.Stdout, runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")

	return cmd
}

// renderRunTable writes the run listing to w as an aligned table, returning
// any tabwriter flush error.
func renderRunTable(w io.Writer, runs []history.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("Started"),
		headerStyle.Render("Target"),
		headerStyle.Render("Verdict"),
		headerStyle.Render("Pass/Warn/Fail"))
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 16),
		strings.Repeat("-", 28),
		strings.Repeat("-", 9),
		strings.Repeat("-", 14))

	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d/%d\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.BaseURL,
			run.Verdict,
			run.Passed, run.Warnings, run.Failed)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render run table: %w", err)
	}
	return nil
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show every check result from one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}

			ctx := cmd.Context()

			journal, err := history.Open(ctx, config.HistoryPath())
			if err != nil {
				return fmt.Errorf("failed to open history journal: %w", err)
			}
			defer func() {
				if err := journal.Close(); err != nil {
					slog.Warn("Failed to close history journal", "error", err)
				}
			}()

			results, err := journal.RunResults(ctx, runID)
			if err != nil {
				return fmt.Errorf("failed to load run %d: %w", runID, err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Run %d", runID)))
			for _, result := range results {
				fmt.Printf("%s %s: %s\n", resultGlyph(result.Status), result.Name, result.Message)
			}

			return nil
		},
	}
}

func resultGlyph(status checkup.Status) string {
	switch status {
	case checkup.StatusPass:
		return cli.SuccessIcon
	case checkup.StatusWarn:
		return cli.WarningIcon
	default:
		return cli.ErrorIcon
	}
}
