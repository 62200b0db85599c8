package checkup

import (
	"context"

	"github.com/finze-app/finze-pulse/internal/finze"
)

// API defines the slice of the backend surface the checks exercise.
type API interface {
	Health(ctx context.Context) (*finze.HealthReport, error)
	Categories(ctx context.Context) ([]string, error)
	Categorize(ctx context.Context, req finze.CategorizeRequest) (*finze.Categorization, error)
	CategorizeBatch(ctx context.Context, reqs []finze.CategorizeRequest) (*finze.BatchResult, error)
	UserExpenses(ctx context.Context, userID string) (*finze.ExpenseHistory, error)
	AnalyzeSpending(ctx context.Context, samples []finze.SampleExpense) (*finze.SpendingAnalysis, error)
}
