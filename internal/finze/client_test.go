package finze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"services": {
				"firestore": {"status": "healthy"},
				"gemini_ai": {"status": "healthy"},
				"sarvam_speech": {"status": "down", "message": "quota exceeded"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	report, err := client.Health(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Services, 3)
	assert.True(t, report.Service("firestore").Healthy())
	assert.False(t, report.Service("sarvam_speech").Healthy())
	assert.Equal(t, "quota exceeded", report.Service("sarvam_speech").Message)
	assert.NotEmpty(t, report.Raw)

	// Absent subsystems are a zero status, not a panic.
	assert.False(t, report.Service("no_such_service").Healthy())
}

func TestCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"categories": ["Food & Dining", "Transportation", "Shopping"]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Food & Dining", "Transportation", "Shopping"}, categories)
}

func TestCategorize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CategorizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Uber taxi ride", req.Description)
		assert.InDelta(t, 150.0, req.Amount, 0.001)

		_, _ = w.Write([]byte(`{"category": "Transportation", "confidence": 0.91}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Categorize(context.Background(), CategorizeRequest{
		Description: "Uber taxi ride",
		Amount:      150,
	})
	require.NoError(t, err)
	assert.Equal(t, "Transportation", result.Category)
	assert.InDelta(t, 0.91, result.Confidence, 0.001)
}

func TestCategorizeBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Expenses []CategorizeRequest `json:"expenses"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Expenses, 2)

		_, _ = w.Write([]byte(`{"results": [
			{"category": "Food & Dining", "confidence": 0.8},
			{"category": "Transportation", "confidence": 0.7}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.CategorizeBatch(context.Background(), []CategorizeRequest{
		{Description: "Starbucks coffee", Amount: 300},
		{Description: "Gas station fuel", Amount: 2000},
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Food & Dining", result.Results[0].Category)
}

func TestUserExpenses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/expenses/test-user-123", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"user_id": "test-user-123",
			"count": 1,
			"expenses": [{"user_id": "test-user-123", "title": "Coffee", "amount": -180, "category": "food"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	history, err := client.UserExpenses(context.Background(), "test-user-123")
	require.NoError(t, err)
	assert.Equal(t, "test-user-123", history.UserID)
	assert.Equal(t, 1, history.Count)
	require.Len(t, history.Expenses, 1)
	assert.Equal(t, "Coffee", history.Expenses[0].Title)
	assert.NotEmpty(t, history.Raw)
}

func TestUserExpensesPermissiveShape(t *testing.T) {
	// The backend enforces no schema; a bare object must not error out.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	history, err := client.UserExpenses(context.Background(), "u")
	require.NoError(t, err)
	assert.Empty(t, history.Expenses)
	assert.Zero(t, history.Count)
}

func TestAnalyzeSpending(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantScore bool
	}{
		{
			name:      "full analysis",
			response:  `{"success": true, "data": {"financial_health_score": 72.5}}`,
			wantScore: true,
		},
		{
			name:      "basic results",
			response:  `{"success": true, "data": {}}`,
			wantScore: false,
		},
		{
			name:      "score of zero treated as absent",
			response:  `{"success": true, "data": {"financial_health_score": 0}}`,
			wantScore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			analysis, err := client.AnalyzeSpending(context.Background(), []SampleExpense{
				{Description: "Restaurant dinner", Amount: 1200, Category: "Food & Dining", Date: "2025-10-15"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, analysis.HasHealthScore())
		})
	}
}

func TestInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai-insights/u-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "message": "3 insights generated"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	report, err := client.Insights(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, "3 insights generated", report.Message)
}

func TestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index missing", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Health(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Contains(t, statusErr.Body, "index missing")
	assert.Equal(t, "HTTP 500", statusErr.Error())
	assert.ErrorIs(t, err, common.ErrUnexpectedStatus)
}

func TestConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	addr := server.URL
	server.Close()

	client := NewClient(addr)
	_, err := client.Health(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport errors are not status errors")
}
