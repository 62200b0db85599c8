package checkup

import (
	"context"
	"sync"

	"github.com/finze-app/finze-pulse/internal/finze"
)

// MockBackend is a test implementation of the API interface with canned
// responses per endpoint. Unset responses come back as permissive zero
// values, mirroring a backend that answers with empty JSON.
type MockBackend struct {
	HealthReport  *finze.HealthReport
	HealthErr     error
	CategoryList  []string
	CategoriesErr error
	// Categorizations keys canned answers by expense description.
	Categorizations map[string]finze.Categorization
	CategorizeErr   error
	BatchResponse   *finze.BatchResult
	BatchErr        error
	History         *finze.ExpenseHistory
	ExpensesErr     error
	Analysis        *finze.SpendingAnalysis
	AnalyzeErr      error

	mu    sync.Mutex
	calls []string
}

// NewHealthyBackend returns a mock whose every endpoint answers the way a
// fully working deployment would.
func NewHealthyBackend() *MockBackend {
	categorizations := make(map[string]finze.Categorization)
	for _, tc := range DefaultCategorizationCases() {
		categorizations[tc.Description] = finze.Categorization{Category: tc.Expected, Confidence: 0.9}
	}

	batch := defaultBatchExpenses()
	batchResults := make([]finze.Categorization, len(batch))
	for i := range batch {
		batchResults[i] = finze.Categorization{Category: "Food & Dining", Confidence: 0.8}
	}

	mock := &MockBackend{
		HealthReport: &finze.HealthReport{
			Status: "ok",
			Services: map[string]finze.ServiceStatus{
				"firestore":     {Status: "healthy"},
				"gemini_ai":     {Status: "healthy"},
				"auth":          {Status: "healthy"},
				"sarvam_speech": {Status: "healthy"},
			},
		},
		CategoryList:    append(ExpectedCategories(), "Technology", "Healthcare"),
		Categorizations: categorizations,
		BatchResponse:   &finze.BatchResult{Results: batchResults},
		History:         &finze.ExpenseHistory{UserID: "test-user-123", Count: 0},
	}
	mock.Analysis = &finze.SpendingAnalysis{Success: true}
	mock.Analysis.Data.FinancialHealthScore = 75
	return mock
}

// Health implements API.
func (m *MockBackend) Health(_ context.Context) (*finze.HealthReport, error) {
	m.recordCall("health")
	if m.HealthErr != nil {
		return nil, m.HealthErr
	}
	if m.HealthReport == nil {
		return &finze.HealthReport{}, nil
	}
	return m.HealthReport, nil
}

// Categories implements API.
func (m *MockBackend) Categories(_ context.Context) ([]string, error) {
	m.recordCall("categories")
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return m.CategoryList, nil
}

// Categorize implements API.
func (m *MockBackend) Categorize(_ context.Context, req finze.CategorizeRequest) (*finze.Categorization, error) {
	m.recordCall("categorize")
	if m.CategorizeErr != nil {
		return nil, m.CategorizeErr
	}
	result := m.Categorizations[req.Description]
	return &result, nil
}

// CategorizeBatch implements API.
func (m *MockBackend) CategorizeBatch(_ context.Context, _ []finze.CategorizeRequest) (*finze.BatchResult, error) {
	m.recordCall("categorize-batch")
	if m.BatchErr != nil {
		return nil, m.BatchErr
	}
	if m.BatchResponse == nil {
		return &finze.BatchResult{}, nil
	}
	return m.BatchResponse, nil
}

// UserExpenses implements API.
func (m *MockBackend) UserExpenses(_ context.Context, _ string) (*finze.ExpenseHistory, error) {
	m.recordCall("expenses")
	if m.ExpensesErr != nil {
		return nil, m.ExpensesErr
	}
	if m.History == nil {
		return &finze.ExpenseHistory{}, nil
	}
	return m.History, nil
}

// AnalyzeSpending implements API.
func (m *MockBackend) AnalyzeSpending(_ context.Context, _ []finze.SampleExpense) (*finze.SpendingAnalysis, error) {
	m.recordCall("analyze-spending")
	if m.AnalyzeErr != nil {
		return nil, m.AnalyzeErr
	}
	if m.Analysis == nil {
		return &finze.SpendingAnalysis{}, nil
	}
	return m.Analysis, nil
}

// Calls returns the endpoint names hit so far, in order.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockBackend) recordCall(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}
