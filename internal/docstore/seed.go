package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finze-app/finze-pulse/internal/ledger"
)

// SeedSample inserts the fixed sample ledger for userID via append-style
// adds, so each record gets a generated document ID. Per-entry failures are
// logged and skipped rather than aborting the batch; an error comes back
// only when nothing could be inserted at all.
//
// The caller's emptiness check is the only idempotency guard. Two seeders
// racing against the same empty collection will both pass that check and
// insert duplicate sample records.
func (s *Store) SeedSample(ctx context.Context, userID string) (int, error) {
	entries := ledger.SampleEntries(userID)

	inserted := 0
	for _, entry := range entries {
		ref, _, err := s.client.Collection(s.collection).Add(ctx, entry)
		if err != nil {
			slog.Error("Failed to insert sample entry", "title", entry.Title, "error", err)
			continue
		}
		slog.Debug("Inserted sample entry", "doc", ref.ID, "title", entry.Title)
		inserted++
	}

	if inserted == 0 {
		return 0, fmt.Errorf("failed to insert any of %d sample entries", len(entries))
	}
	return inserted, nil
}
