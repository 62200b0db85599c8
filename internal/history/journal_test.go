package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/finze-app/finze-pulse/internal/checkup"
	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pulse.db")

	journal, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	return journal
}

func sampleRun(startedAt time.Time) Run {
	return Run{
		StartedAt: startedAt,
		BaseURL:   "http://localhost:8001",
		UserID:    "test-user-123",
		Verdict:   checkup.VerdictGood,
		Total:     12,
		Passed:    9,
		Warnings:  3,
		Failed:    0,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	journal := createTestJournal(t)

	runs, err := journal.RecentRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pulse.db")

	first, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Reopening an already-migrated journal must not re-run migrations.
	second, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestRecordAndListRuns(t *testing.T) {
	journal := createTestJournal(t)
	ctx := context.Background()

	results := []checkup.Result{
		{Time: time.Now(), Name: "Health Check", Status: checkup.StatusPass, Message: "4 services healthy"},
		{Time: time.Now(), Name: "Speech Service", Status: checkup.StatusWarn, Message: "Speech service not available"},
	}

	runID, err := journal.RecordRun(ctx, sampleRun(time.Now()), results)
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := journal.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "http://localhost:8001", runs[0].BaseURL)
	assert.Equal(t, checkup.VerdictGood, runs[0].Verdict)
	assert.Equal(t, 12, runs[0].Total)
	assert.Equal(t, 3, runs[0].Warnings)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	journal := createTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		_, err := journal.RecordRun(ctx, run, nil)
		require.NoError(t, err)
	}

	runs, err := journal.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2, "limit applies")
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt), "newest first")
}

func TestRunResults(t *testing.T) {
	journal := createTestJournal(t)
	ctx := context.Background()

	recorded := []checkup.Result{
		{Time: time.Now(), Name: "Health Check", Status: checkup.StatusPass, Message: "ok"},
		{Time: time.Now(), Name: "Categories API", Status: checkup.StatusPass, Message: "All 6 categories available"},
		{Time: time.Now(), Name: "Batch Categorization", Status: checkup.StatusFail, Message: "Expected 3 results, got 1"},
	}

	runID, err := journal.RecordRun(ctx, sampleRun(time.Now()), recorded)
	require.NoError(t, err)

	results, err := journal.RunResults(ctx, runID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Insertion order is preserved.
	assert.Equal(t, "Health Check", results[0].Name)
	assert.Equal(t, "Batch Categorization", results[2].Name)
	assert.Equal(t, checkup.StatusFail, results[2].Status)
	assert.Equal(t, "Expected 3 results, got 1", results[2].Message)
}

func TestRunResultsUnknownRun(t *testing.T) {
	journal := createTestJournal(t)

	_, err := journal.RunResults(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecordRunWithoutResults(t *testing.T) {
	journal := createTestJournal(t)
	ctx := context.Background()

	runID, err := journal.RecordRun(ctx, sampleRun(time.Now()), nil)
	require.NoError(t, err)

	results, err := journal.RunResults(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, results)
}
