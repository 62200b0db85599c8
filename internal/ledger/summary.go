package ledger

import "errors"

// ErrNoIncome indicates a savings rate cannot be computed because the entry
// set contains no positive amounts.
var ErrNoIncome = errors.New("no income recorded")

// Summary holds the aggregate totals for a set of ledger entries.
type Summary struct {
	TotalExpenses float64
	TotalIncome   float64
	Entries       int
}

// Summarize computes totals over entries. Negative amounts accumulate into
// TotalExpenses as absolute values, positive amounts into TotalIncome.
// Zero amounts count toward neither total.
func Summarize(entries []Entry) Summary {
	var s Summary
	s.Entries = len(entries)

	for _, e := range entries {
		switch {
		case e.Amount < 0:
			s.TotalExpenses += -e.Amount
		case e.Amount > 0:
			s.TotalIncome += e.Amount
		}
	}

	return s
}

// Net returns income minus expenses.
func (s Summary) Net() float64 {
	return s.TotalIncome - s.TotalExpenses
}

// SavingsRate returns (income - expenses) / income as a percentage.
// A summary with zero income returns ErrNoIncome rather than dividing by
// zero; callers render that case as "n/a".
func (s Summary) SavingsRate() (float64, error) {
	if s.TotalIncome == 0 {
		return 0, ErrNoIncome
	}
	return (s.TotalIncome - s.TotalExpenses) / s.TotalIncome * 100, nil
}
