package storage

import (
	"context"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
)

// SyncStatusStore defines the interface for per-user sync bookkeeping rows.
type SyncStatusStore interface {
	// GetSyncStatus retrieves the sync row for a user. Returns ErrNotFound
	// when the user has never synced.
	GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatus, error)

	// UpsertSyncStatus writes the sync row for a user, creating it if needed.
	UpsertSyncStatus(ctx context.Context, status *models.SyncStatus) error

	// ListStaleSyncStatuses retrieves sync rows whose last successful push is
	// older than maxAge.
	ListStaleSyncStatuses(ctx context.Context, maxAge time.Duration) ([]models.SyncStatus, error)
}

// SyncStore defines the privileged interface used by the profile syncer and
// the reconciliation job.
type SyncStore interface {
	ProfileStore
	SyncStatusStore
}
