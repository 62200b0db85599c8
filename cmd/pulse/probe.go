package main

import (
	"errors"
	"fmt"

	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/finze"
	"github.com/spf13/cobra"
)

func probeCmd() *cobra.Command {
	var (
		baseURL string
		userID  string
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Quick probe of the backend's key endpoints",
		Long: `Hit the health, expense history, and AI insights endpoints once each and
dump what came back. Lighter than the smoke suite; useful while iterating
on the backend itself.

An unreachable health endpoint aborts the probe. Failures on the other
endpoints are printed and skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveTarget(baseURL, userID)
			if err != nil {
				return err
			}

			client := finze.NewClient(target.BaseURL)
			ctx := cmd.Context()

			fmt.Printf("🔍 Probing backend endpoints at %s...\n", client.BaseURL())

			report, err := client.Health(ctx)
			if err != nil {
				fmt.Println(cli.FormatError(fmt.Sprintf("Health Check Failed: %v", err)))
				return fmt.Errorf("health probe: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Health Check: HTTP 200"))
			fmt.Printf("   Response: %s\n", indentJSON(report.Raw))

			expenses, err := client.UserExpenses(ctx, target.UserID)
			if err != nil {
				fmt.Println(cli.FormatError(fmt.Sprintf("Expenses Endpoint Failed: %v", err)))
			} else {
				fmt.Println("📊 Expenses Endpoint: HTTP 200")
				fmt.Printf("   Count: %d\n", expenses.Count)
				fmt.Printf("   User ID: %s\n", expenses.UserID)
				fmt.Printf("   Expenses Length: %d\n", len(expenses.Expenses))
				fmt.Printf("   Full Response: %s\n", indentJSON(expenses.Raw))
			}

			insights, err := client.Insights(ctx, target.UserID)
			switch {
			case err == nil:
				fmt.Println("🧠 AI Insights Endpoint: HTTP 200")
				fmt.Printf("   Success: %t\n", insights.Success)
				fmt.Printf("   Message: %s\n", insights.Message)
			default:
				var statusErr *finze.StatusError
				if errors.As(err, &statusErr) {
					fmt.Printf("🧠 AI Insights Endpoint: HTTP %d\n", statusErr.Code)
					fmt.Printf("   Error Response: %s\n", statusErr.Body)
				} else {
					fmt.Println(cli.FormatError(fmt.Sprintf("AI Insights Failed: %v", err)))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "backend base URL")
	cmd.Flags().StringVar(&userID, "user", "", "user id to probe with")

	return cmd
}
