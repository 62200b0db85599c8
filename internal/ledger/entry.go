// Package ledger defines the record shapes the Finze backend stores in
// Firestore and the aggregate calculations derived from them.
package ledger

import "time"

// EntryType labels a ledger entry as income or expense. The backend writes
// it redundantly alongside the amount sign; aggregation goes by sign only.
type EntryType string

const (
	// TypeExpense marks entries with negative amounts.
	TypeExpense EntryType = "expense"
	// TypeIncome marks entries with positive amounts.
	TypeIncome EntryType = "income"
)

// TimestampLayout is the format the backend uses for created_at/updated_at.
// Timestamps are stored as strings, not Firestore native timestamps.
const TimestampLayout = time.RFC3339

// Entry is a single expense or income record in the `expenses` collection.
// The backend enforces no schema; every field may be absent on the wire.
type Entry struct {
	UserID    string    `firestore:"user_id" json:"user_id"`
	Title     string    `firestore:"title" json:"title"`
	Amount    float64   `firestore:"amount" json:"amount"`
	Category  string    `firestore:"category" json:"category"`
	Type      EntryType `firestore:"type" json:"type"`
	CreatedAt string    `firestore:"created_at" json:"created_at"`
	UpdatedAt string    `firestore:"updated_at" json:"updated_at"`
}

// DisplayTitle returns the title, or "Unknown" for records missing one.
func (e Entry) DisplayTitle() string {
	if e.Title == "" {
		return "Unknown"
	}
	return e.Title
}

// DisplayCategory returns the category, or "Unknown" for records missing one.
func (e Entry) DisplayCategory() string {
	if e.Category == "" {
		return "Unknown"
	}
	return e.Category
}

// IsExpense reports whether the entry counts toward total expenses.
// The amount sign is authoritative; the Type field is carried as data only.
func (e Entry) IsExpense() bool {
	return e.Amount < 0
}

// IsIncome reports whether the entry counts toward total income.
func (e Entry) IsIncome() bool {
	return e.Amount > 0
}

// NewEntry builds an entry stamped with the current wall-clock time in both
// timestamp fields, the way the backend's own writes do.
func NewEntry(userID, title string, amount float64, category string) Entry {
	now := time.Now().Format(TimestampLayout)

	entryType := TypeExpense
	if amount > 0 {
		entryType = TypeIncome
	}

	return Entry{
		UserID:    userID,
		Title:     title,
		Amount:    amount,
		Category:  category,
		Type:      entryType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
