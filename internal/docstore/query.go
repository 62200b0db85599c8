package docstore

import (
	"context"
	"errors"
	"log/slog"

	"cloud.google.com/go/firestore"
	"github.com/finze-app/finze-pulse/internal/ledger"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Stage identifies which query strategy ultimately produced a result set.
type Stage string

// Cascade stages, from most to least specific.
const (
	// StageOrdered is the ideal query: filtered by owner, newest first.
	StageOrdered Stage = "ordered"
	// StageFiltered drops the sort; used when the composite index that the
	// filter+sort combination needs does not exist.
	StageFiltered Stage = "filtered"
	// StageScan reads the whole collection and filters client-side.
	StageScan Stage = "scan"
	// StageNone means every strategy failed and the result set is empty.
	StageNone Stage = "none"
)

// querier abstracts the three query strategies so the cascade logic can be
// tested without a live Firestore.
type querier interface {
	ordered(ctx context.Context, userID string, limit int) ([]ledger.Entry, error)
	filtered(ctx context.Context, userID string) ([]ledger.Entry, error)
	scan(ctx context.Context, userID string) ([]ledger.Entry, error)
}

// EntriesByOwner lists the entries stored for one user, degrading through
// three query strategies until one works. The returned stage says which one
// did. Failures never propagate: if even the full scan fails, the result is
// an empty set tagged StageNone. Ordering is only guaranteed for
// StageOrdered.
func (s *Store) EntriesByOwner(ctx context.Context, userID string, limit int) ([]ledger.Entry, Stage) {
	return fetchWithFallback(ctx, s, userID, limit)
}

func fetchWithFallback(ctx context.Context, q querier, userID string, limit int) ([]ledger.Entry, Stage) {
	entries, err := q.ordered(ctx, userID, limit)
	if err == nil {
		return entries, StageOrdered
	}
	logQueryFailure(StageOrdered, err)
	if ctx.Err() != nil {
		return nil, StageNone
	}

	entries, err = q.filtered(ctx, userID)
	if err == nil {
		return entries, StageFiltered
	}
	logQueryFailure(StageFiltered, err)
	if ctx.Err() != nil {
		return nil, StageNone
	}

	entries, err = q.scan(ctx, userID)
	if err == nil {
		return entries, StageScan
	}
	logQueryFailure(StageScan, err)

	return nil, StageNone
}

func (s *Store) ordered(ctx context.Context, userID string, limit int) ([]ledger.Entry, error) {
	query := s.client.Collection(s.collection).
		Where("user_id", "==", userID).
		OrderBy("created_at", firestore.Desc).
		Limit(limit)
	return collect(query.Documents(ctx), "")
}

func (s *Store) filtered(ctx context.Context, userID string) ([]ledger.Entry, error) {
	query := s.client.Collection(s.collection).Where("user_id", "==", userID)
	return collect(query.Documents(ctx), "")
}

func (s *Store) scan(ctx context.Context, userID string) ([]ledger.Entry, error) {
	return collect(s.client.Collection(s.collection).Documents(ctx), userID)
}

// collect drains an iterator into entries. When filterUser is non-empty the
// owner filter is applied client-side (the scan stage). Documents that do
// not decode into an Entry are skipped, not fatal; the backend enforces no
// schema.
func collect(iter *firestore.DocumentIterator, filterUser string) ([]ledger.Entry, error) {
	defer iter.Stop()

	var entries []ledger.Entry
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}

		var entry ledger.Entry
		if decodeErr := doc.DataTo(&entry); decodeErr != nil {
			slog.Warn("Skipping undecodable document", "doc", doc.Ref.ID, "error", decodeErr)
			continue
		}
		if filterUser != "" && entry.UserID != filterUser {
			continue
		}
		entries = append(entries, entry)
	}
}

// logQueryFailure records why a stage fell through. A FailedPrecondition
// status is Firestore telling us the composite index for filter+sort is
// missing, which is the expected trigger for this cascade.
func logQueryFailure(stage Stage, err error) {
	if status.Code(err) == codes.FailedPrecondition {
		slog.Warn("Query requires a composite index, falling back",
			"stage", stage,
			"error", err)
		return
	}
	slog.Warn("Query failed, falling back", "stage", stage, "error", err)
}
