package finze

import (
	"fmt"

	"github.com/finze-app/finze-pulse/internal/common"
	"github.com/finze-app/finze-pulse/internal/ledger"
)

// ServiceStatus is one subsystem's entry in the health map.
type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether the subsystem declared itself healthy.
func (s ServiceStatus) Healthy() bool {
	return s.Status == "healthy"
}

// HealthReport is the GET /api/health response: a map of subsystem name to
// status, e.g. {"services": {"firestore": {"status": "healthy"}, ...}}.
type HealthReport struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	Raw      []byte                   `json:"-"`
}

// Service returns the named subsystem's status; absent subsystems come back
// as a zero ServiceStatus, never an error.
func (h *HealthReport) Service(name string) ServiceStatus {
	if h == nil || h.Services == nil {
		return ServiceStatus{}
	}
	return h.Services[name]
}

// CategorizeRequest asks the backend to categorize a single expense.
type CategorizeRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Categorization is the backend's answer for one expense.
type Categorization struct {
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
}

// BatchResult is the POST /api/categorize-batch response.
type BatchResult struct {
	Results []Categorization `json:"results"`
}

// ExpenseHistory is the GET /api/expenses/{user_id} response.
type ExpenseHistory struct {
	UserID   string         `json:"user_id"`
	Count    int            `json:"count"`
	Expenses []ledger.Entry `json:"expenses"`
	Raw      []byte         `json:"-"`
}

// SampleExpense is one element of the analyze-spending request payload.
type SampleExpense struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// SpendingAnalysis is the POST /api/ai/analyze-spending response. The score
// is the signal the smoke test looks for; everything else is free-form.
type SpendingAnalysis struct {
	Success bool `json:"success"`
	Data    struct {
		FinancialHealthScore float64 `json:"financial_health_score"`
	} `json:"data"`
}

// HasHealthScore reports whether the analysis carries a usable score.
// A zero score counts as absent, matching the backend's "basic results" path.
func (a *SpendingAnalysis) HasHealthScore() bool {
	return a != nil && a.Data.FinancialHealthScore != 0
}

// InsightReport is the GET /api/ai-insights/{user_id} response.
type InsightReport struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Raw     []byte `json:"-"`
}

// StatusError reports a non-2xx response. Its message is just the status
// line; the body is kept for debug logging.
type StatusError struct {
	Body string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Unwrap lets callers distinguish "the server answered badly" from "the
// server never answered" with errors.Is alone.
func (e *StatusError) Unwrap() error {
	return common.ErrUnexpectedStatus
}
