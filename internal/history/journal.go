// Package history persists smoke-run outcomes in a local SQLite journal so
// successive runs against the same backend can be compared.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finze-app/finze-pulse/internal/checkup"
	"github.com/finze-app/finze-pulse/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// Run is one recorded execution of the smoke suite.
type Run struct {
	StartedAt time.Time
	BaseURL   string
	UserID    string
	Verdict   checkup.Verdict
	ID        int64
	Total     int
	Passed    int
	Warnings  int
	Failed    int
}

// Journal is the SQLite-backed run store.
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the journal at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path", ErrEmptyString)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	journal := &Journal{db: db, path: path}
	if err := journal.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordRun stores a run row and its results in one transaction: both land
// or neither does. Writes retry briefly to ride out lock contention with a
// concurrent pulse process.
func (j *Journal) RecordRun(ctx context.Context, run Run, results []checkup.Result) (int64, error) {
	if ctx == nil {
		return 0, ErrNilContext
	}

	var runID int64
	err := common.WithRetry(ctx, func() error {
		var txErr error
		runID, txErr = j.recordRunTx(ctx, run, results)
		if txErr != nil {
			return &common.RetryableError{Err: txErr, Retryable: isBusy(txErr)}
		}
		return nil
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return runID, nil
}

func (j *Journal) recordRunTx(ctx context.Context, run Run, results []checkup.Result) (int64, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, base_url, user_id, verdict, total, passed, warnings, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt, run.BaseURL, run.UserID, string(run.Verdict),
		run.Total, run.Passed, run.Warnings, run.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, check := range results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO run_results (run_id, test_name, status, message, recorded_at)
			VALUES (?, ?, ?, ?, ?)`,
			runID, check.Name, string(check.Status), check.Message, check.Time,
		); err != nil {
			return 0, fmt.Errorf("failed to insert result %q: %w", check.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (j *Journal) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, base_url, user_id, verdict, total, passed, warnings, failed
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		var verdict string
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.BaseURL, &run.UserID,
			&verdict, &run.Total, &run.Passed, &run.Warnings, &run.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Verdict = checkup.Verdict(verdict)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// RunResults returns the recorded results for one run in insertion order.
// An unknown run ID yields common.ErrNotFound.
func (j *Journal) RunResults(ctx context.Context, runID int64) ([]checkup.Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	var exists int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run %d: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d: %w", runID, common.ErrNotFound)
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT test_name, status, message, recorded_at
		FROM run_results
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []checkup.Result
	for rows.Next() {
		var result checkup.Result
		var status string
		if err := rows.Scan(&result.Name, &status, &result.Message, &result.Time); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result.Status = checkup.Status(status)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}
	return results, nil
}

func isBusy(err error) bool {
	return err != nil && strings.Contains(err.Error(), "database is locked")
}
