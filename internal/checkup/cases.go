package checkup

import "github.com/finze-app/finze-pulse/internal/finze"

// CategorizationCase pairs an expense description with the category the AI
// is expected to choose for it.
type CategorizationCase struct {
	Description string
	Amount      float64
	Expected    string
}

// DefaultCategorizationCases returns the fixed accuracy probes sent to the
// categorization endpoint. Amounts are in rupees.
func DefaultCategorizationCases() []CategorizationCase {
	return []CategorizationCase{
		{Description: "McDonald's hamburger meal", Amount: 250, Expected: "Food & Dining"},
		{Description: "Uber taxi ride", Amount: 150, Expected: "Transportation"},
		{Description: "Amazon online shopping", Amount: 500, Expected: "Shopping"},
		{Description: "Netflix subscription", Amount: 199, Expected: "Entertainment"},
		{Description: "iPhone purchase", Amount: 80000, Expected: "Technology"},
	}
}

// ExpectedCategories returns the category names every deployment is expected
// to serve from its categories endpoint.
func ExpectedCategories() []string {
	return []string{"Food & Dining", "Transportation", "Shopping", "Entertainment"}
}

func defaultBatchExpenses() []finze.CategorizeRequest {
	return []finze.CategorizeRequest{
		{Description: "Starbucks coffee", Amount: 300},
		{Description: "Gas station fuel", Amount: 2000},
		{Description: "Movie ticket booking", Amount: 400},
	}
}

func defaultAnalysisSamples() []finze.SampleExpense {
	return []finze.SampleExpense{
		{Description: "Restaurant dinner", Amount: 1200, Category: "Food & Dining", Date: "2025-10-15"},
		{Description: "Taxi ride", Amount: 300, Category: "Transportation", Date: "2025-10-15"},
		{Description: "Grocery shopping", Amount: 2500, Category: "Food & Dining", Date: "2025-10-14"},
	}
}
