// Package docstore talks to the Firestore collection behind the Finze
// backend directly, bypassing the API server entirely. It exists for
// diagnostics: listing what is actually stored for a user and seeding a
// fresh collection with sample records.
package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"github.com/finze-app/finze-pulse/internal/config"
	"google.golang.org/api/option"
)

// Store wraps a Firestore client pointed at one expenses collection.
type Store struct {
	client     *firestore.Client
	collection string
}

// New connects to Firestore. The service-account file from the config is
// used when set; otherwise the client falls back to application-default
// credentials. The project ID is auto-detected from the credentials when
// the config leaves it empty.
func New(ctx context.Context, cfg config.Store) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	slog.Debug("Connected to Firestore",
		"project", cfg.ProjectID,
		"collection", cfg.Collection)

	return &Store{client: client, collection: cfg.Collection}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
