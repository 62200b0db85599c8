package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/finze-app/finze-pulse/internal/checkup"
	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/finze-app/finze-pulse/internal/config"
	"github.com/finze-app/finze-pulse/internal/finze"
	"github.com/finze-app/finze-pulse/internal/history"
	"github.com/spf13/cobra"
)

// errChecksFailed makes the process exit non-zero after the summary has
// already explained what went wrong.
var errChecksFailed = errors.New("some checks failed")

func smokeCmd() *cobra.Command {
	var (
		baseURL    string
		userID     string
		wait       time.Duration
		record     bool
		noProgress bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the full smoke-test suite against the backend",
		Long: `Run every backend check in order: health, categories, AI categorization,
batch categorization, user expenses, spending analysis, and speech service.

The suite needs a running backend; start it first or pass --wait to poll
until it comes up. Results stream as the checks run, followed by a summary
box. Exit status is 0 only when no check fails.`,
		Example: `  # Smoke-test the local dev backend
  pulse smoke

  # Wait up to a minute for the backend, then record the run
  pulse smoke --wait 60s --record

  # Machine-readable output for CI
  pulse smoke --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveTarget(baseURL, userID)
			if err != nil {
				return err
			}

			client := finze.NewClient(target.BaseURL)

			handler := cli.NewInterruptHandler(os.Stdout)
			ctx := handler.HandleInterrupts(cmd.Context())

			if wait > 0 {
				if err := waitForBackend(ctx, client, wait); err != nil {
					fmt.Println(cli.FormatError(fmt.Sprintf("Backend did not come up within %s at %s", wait, client.BaseURL())))
					return err
				}
			}

			var out io.Writer = os.Stdout
			if jsonOut {
				out = io.Discard
			}

			runner := checkup.NewRunner(client, checkup.Options{
				Writer:       out,
				UserID:       target.UserID,
				ShowProgress: !noProgress && !jsonOut,
			})

			started := time.Now()
			runErr := runner.Run(ctx)
			results := runner.Results()
			summary := checkup.Summarize(results)

			if record && len(results) > 0 {
				if err := recordRun(target, started, summary, results); err != nil {
					slog.Warn("Failed to record run", "error", err)
				}
			}

			switch {
			case runErr == nil:
			case handler.WasInterrupted():
				return errors.New("interrupted")
			case errors.Is(runErr, common.ErrBackendUnreachable):
				fmt.Println(cli.FormatError(fmt.Sprintf("Backend not accessible! Make sure it's running at %s", client.BaseURL())))
				return runErr
			default:
				return runErr
			}

			if jsonOut {
				return writeJSONReport(os.Stdout, summary, results)
			}

			checkup.WriteSummary(os.Stdout, summary)

			fmt.Println("\n🏁 Checkup completed!")
			if summary.Ok() {
				fmt.Println(cli.FormatSuccess("All checks passed! Backend is fully functional."))
				return nil
			}
			fmt.Println(cli.FormatWarning("Some checks failed. Check the results above."))
			return errChecksFailed
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "backend base URL (default: target.base_url, FINZE_BASE_URL, or "+config.DefaultBaseURL+")")
	cmd.Flags().StringVar(&userID, "user", "", "user id the expense checks run as (default: "+config.DefaultSmokeUser+")")
	cmd.Flags().DurationVar(&wait, "wait", 0, "poll the backend for up to this long before starting")
	cmd.Flags().BoolVar(&record, "record", false, "record this run in the local history journal")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the categorization progress bar")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "suppress styled output and print a JSON report")

	return cmd
}

// waitForBackend polls the health endpoint until the backend answers or the
// wait budget is spent. Every transport error is retryable here; anything the
// server actually said counts as "up".
func waitForBackend(ctx context.Context, client *finze.Client, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	fmt.Printf("⏳ Waiting up to %s for %s...\n", wait, client.BaseURL())

	attempts := int(wait/(2*time.Second)) + 1
	return common.WithRetry(ctx, func() error {
		if _, err := client.Health(ctx); err != nil {
			// An error page still means the backend is up.
			if errors.Is(err, common.ErrUnexpectedStatus) {
				return nil
			}
			return &common.RetryableError{Err: err, Retryable: true}
		}
		return nil
	}, common.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: 2 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   1.5,
	})
}

func recordRun(target *config.Target, started time.Time, summary checkup.Summary, results []checkup.Result) error {
	// Deliberately not the command context: an interrupt should not stop the
	// partial run from being journaled.
	ctx := context.Background()

	journal, err := history.Open(ctx, config.HistoryPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := journal.Close(); err != nil {
			slog.Warn("Failed to close history journal", "error", err)
		}
	}()

	runID, err := journal.RecordRun(ctx, history.Run{
		StartedAt: started,
		BaseURL:   target.BaseURL,
		UserID:    target.UserID,
		Verdict:   summary.Verdict,
		Total:     summary.Total,
		Passed:    summary.Passed,
		Warnings:  summary.Warnings,
		Failed:    summary.Failed,
	}, results)
	if err != nil {
		return err
	}

	slog.Info("Run recorded", "run_id", runID, "path", config.HistoryPath())
	return nil
}

func writeJSONReport(w io.Writer, summary checkup.Summary, results []checkup.Result) error {
	report := struct {
		Summary checkup.Summary  `json:"summary"`
		Results []checkup.Result `json:"results"`
	}{summary, results}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if !summary.Ok() {
		return errChecksFailed
	}
	return nil
}
