package checkup

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResults(statuses map[Status]int) []Result {
	var results []Result
	for status, count := range statuses {
		for i := 0; i < count; i++ {
			results = append(results, Result{Name: "Check", Status: status})
		}
	}
	return results
}

func TestSummarizeVerdicts(t *testing.T) {
	tests := []struct {
		statuses map[Status]int
		name     string
		want     Verdict
		wantOk   bool
	}{
		{
			name:     "all passing is excellent",
			statuses: map[Status]int{StatusPass: 10},
			want:     VerdictExcellent,
			wantOk:   true,
		},
		{
			name:     "two warnings still excellent",
			statuses: map[Status]int{StatusPass: 8, StatusWarn: 2},
			want:     VerdictExcellent,
			wantOk:   true,
		},
		{
			name:     "three warnings downgrade to good",
			statuses: map[Status]int{StatusPass: 7, StatusWarn: 3},
			want:     VerdictGood,
			wantOk:   true,
		},
		{
			name:     "single failure is partial",
			statuses: map[Status]int{StatusPass: 9, StatusFail: 1},
			want:     VerdictPartial,
			wantOk:   false,
		},
		{
			name:     "two failures still partial",
			statuses: map[Status]int{StatusPass: 8, StatusFail: 2},
			want:     VerdictPartial,
			wantOk:   false,
		},
		{
			name:     "three failures critical",
			statuses: map[Status]int{StatusPass: 7, StatusFail: 3},
			want:     VerdictCritical,
			wantOk:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Summarize(makeResults(tt.statuses))
			assert.Equal(t, tt.want, summary.Verdict)
			assert.Equal(t, tt.wantOk, summary.Ok())
		})
	}
}

func TestSummarizeCounts(t *testing.T) {
	summary := Summarize(makeResults(map[Status]int{StatusPass: 6, StatusWarn: 3, StatusFail: 1}))

	assert.Equal(t, 10, summary.Total)
	assert.Equal(t, 6, summary.Passed)
	assert.Equal(t, 3, summary.Warnings)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 60.0, summary.SuccessRate, 0.001)
}

func TestSummarizeNoResults(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.SuccessRate)
}

func TestFeatureStatuses(t *testing.T) {
	results := []Result{
		{Name: "Health Check", Status: StatusPass},
		{Name: "Health Check - Warning", Status: StatusWarn},
		{Name: "Categories API", Status: StatusPass},
		{Name: "AI Categorization #1", Status: StatusPass},
		{Name: "AI Categorization Overall", Status: StatusWarn},
		{Name: "Batch Categorization", Status: StatusPass},
		{Name: "User Expenses", Status: StatusPass},
		{Name: "AI Spending Analysis", Status: StatusWarn},
		{Name: "Speech Service", Status: StatusWarn},
	}

	features := featureStatuses(results)
	require.Len(t, features, 6, "batch categorization maps to no feature")

	want := []FeatureStatus{
		{Feature: "System Health", Status: StatusWarn},
		{Feature: "Category Management", Status: StatusPass},
		{Feature: "AI Categorization", Status: StatusWarn},
		{Feature: "Database Operations", Status: StatusPass},
		{Feature: "AI Insights", Status: StatusWarn},
		{Feature: "Voice Processing", Status: StatusWarn},
	}
	assert.Equal(t, want, features)
}

func TestFeatureStatusLastResultWins(t *testing.T) {
	results := []Result{
		{Name: "AI Categorization #1", Status: StatusFail},
		{Name: "AI Categorization Overall", Status: StatusPass},
	}

	features := featureStatuses(results)
	require.Len(t, features, 1)
	assert.Equal(t, StatusPass, features[0].Status, "the overall check overrides per-case entries")
}

func TestWriteSummary(t *testing.T) {
	summary := Summarize([]Result{
		{Name: "Health Check", Status: StatusPass},
		{Name: "User Expenses", Status: StatusPass},
		{Name: "Speech Service", Status: StatusWarn},
	})

	var buf bytes.Buffer
	WriteSummary(&buf, summary)
	output := buf.String()

	assert.Contains(t, output, "Finze Backend Test Summary")
	assert.Contains(t, output, "BACKEND STATUS: EXCELLENT")
	assert.Contains(t, output, "AVAILABLE FEATURES")
	assert.Contains(t, output, "System Health")
	assert.Contains(t, output, "API ENDPOINTS")
	assert.Contains(t, output, "/api/categorize-batch")
}

func TestVerdictDescriptions(t *testing.T) {
	assert.Equal(t, "All core features working!", VerdictExcellent.Description())
	assert.Equal(t, "Multiple failures detected", VerdictCritical.Description())
}
