package ledger

// SampleEntries returns the fixed seed set used to verify that reads against
// a fresh collection return something: three expenses and one income record.
// Both timestamps are stamped with the current wall-clock time.
func SampleEntries(userID string) []Entry {
	return []Entry{
		NewEntry(userID, "Chicken", -50, "food"),
		NewEntry(userID, "Coffee", -180, "food"),
		NewEntry(userID, "Petrol", -500, "transport"),
		NewEntry(userID, "Salary", 100000, "income"),
	}
}
