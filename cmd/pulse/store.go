package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/finze-app/finze-pulse/internal/cli"
	"github.com/finze-app/finze-pulse/internal/docstore"
	"github.com/finze-app/finze-pulse/internal/ledger"
	"github.com/spf13/cobra"
)

// expenseStore is the slice of the Firestore surface the store commands
// consume. *docstore.Store satisfies it.
type expenseStore interface {
	EntriesByOwner(ctx context.Context, userID string, limit int) ([]ledger.Entry, docstore.Stage)
	SeedSample(ctx context.Context, userID string) (int, error)
	Close() error
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Probe the Firestore collection directly",
		Long: `Bypass the API server and talk straight to the backing Firestore
collection with service account credentials. Useful for telling backend
bugs apart from data problems.`,
	}

	cmd.AddCommand(storeVerifyCmd())
	cmd.AddCommand(storeSeedCmd())

	return cmd
}

func storeVerifyCmd() *cobra.Command {
	var (
		credFile  string
		projectID string
		userID    string
		limit     int
		seed      bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify connectivity and inspect a user's records",
		Long: `Connect to Firestore, fetch a user's expense records, and print them with
aggregate totals. An empty result set is seeded with sample records first
unless --seed=false is given.

Reads try three query shapes in order: the indexed query the mobile app
uses, an unindexed filter, then a full collection scan. The stage that
answered is printed so a missing composite index is visible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveStore(credFile, projectID, userID)
			if err != nil {
				return err
			}

			store, err := docstore.New(cmd.Context(), *cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to Firestore: %w", err)
			}
			defer closeStore(store)

			return runStoreVerify(cmd.Context(), os.Stdout, store, cfg.UserID, limit, seed)
		},
	}

	cmd.Flags().StringVar(&credFile, "credentials", "", "service account JSON path")
	cmd.Flags().StringVar(&projectID, "project", "", "Google Cloud project id")
	cmd.Flags().StringVar(&userID, "user", "", "user id to inspect")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum records to fetch")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed sample records when the user has none")

	return cmd
}

// runStoreVerify fetches a user's records, seeds the sample set when the
// user has none, and prints the ledger with aggregate totals.
func runStoreVerify(ctx context.Context, w io.Writer, store expenseStore, userID string, limit int, seed bool) error {
	fmt.Fprintln(w, cli.FormatTitle("Verifying Firestore expense data..."))
	fmt.Fprintf(w, "🔍 Checking expenses for user: %s\n", userID)

	entries, stage := store.EntriesByOwner(ctx, userID, limit)
	if stage == docstore.StageNone {
		fmt.Fprintln(w, cli.FormatError("All query strategies failed; see the log for details"))
		return nil
	}

	if len(entries) == 0 && seed {
		fmt.Fprintln(w, "🌱 No expenses found. Adding sample data...")
		inserted, err := store.SeedSample(ctx, userID)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Added %d sample expenses", inserted)))

		entries, stage = store.EntriesByOwner(ctx, userID, limit)
		if stage == docstore.StageNone {
			fmt.Fprintln(w, cli.FormatError("Could not read back the seeded records; see the log for details"))
			return nil
		}
	}

	fmt.Fprintf(w, "✅ Found %d expense(s) (query stage: %s)\n", len(entries), stage)
	printLedger(w, entries)

	return nil
}

func storeSeedCmd() *cobra.Command {
	var (
		credFile  string
		projectID string
		userID    string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the fixed sample records for a user",
		Long: `Insert the four sample records (three expenses, one income) the smoke
tooling expects. Skipped when the user already has records unless --force.

The emptiness check and the writes are not atomic; two seeders racing can
both insert. Fine for a dev backend, do not point this at production.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveStore(credFile, projectID, userID)
			if err != nil {
				return err
			}

			store, err := docstore.New(cmd.Context(), *cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to Firestore: %w", err)
			}
			defer closeStore(store)

			return runStoreSeed(cmd.Context(), os.Stdout, store, cfg.UserID, force)
		},
	}

	cmd.Flags().StringVar(&credFile, "credentials", "", "service account JSON path")
	cmd.Flags().StringVar(&projectID, "project", "", "Google Cloud project id")
	cmd.Flags().StringVar(&userID, "user", "", "user id to seed")
	cmd.Flags().BoolVar(&force, "force", false, "seed even when records already exist")

	return cmd
}

// runStoreSeed inserts the sample ledger for userID. Without force it first
// checks for existing records and refuses to seed a store it cannot read.
func runStoreSeed(ctx context.Context, w io.Writer, store expenseStore, userID string, force bool) error {
	if !force {
		entries, stage := store.EntriesByOwner(ctx, userID, 1)
		if stage == docstore.StageNone {
			return errors.New("could not determine whether records exist; rerun with --force to seed anyway")
		}
		if len(entries) > 0 {
			fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("User %s already has records; nothing to do (use --force to seed anyway)", userID)))
			return nil
		}
	}

	inserted, err := store.SeedSample(ctx, userID)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Added %d sample expense(s) for %s", inserted, userID)))
	return nil
}

func closeStore(store expenseStore) {
	if err := store.Close(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatWarning(fmt.Sprintf("Failed to close Firestore client: %v", err)))
	}
}
