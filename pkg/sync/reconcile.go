package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
)

// Reconciler repairs profiles whose sync rows have gone stale. Unlike the
// Syncer it has no local state to push: the persisted transaction log is the
// source of truth, so the profile's points are recomputed as the fold of all
// stored transactions.
type Reconciler struct {
	store storage.Storage
}

// NewReconciler creates a Reconciler over the full storage interface.
func NewReconciler(store storage.Storage) *Reconciler {
	return &Reconciler{store: store}
}

// ReconcileUser recomputes a user's points from the stored transaction log
// and pushes the result, version-checked like any other write.
func (r *Reconciler) ReconcileUser(ctx context.Context, userID string) error {
	history, err := r.store.ListTransactionsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load transactions for %s: %w", userID, err)
	}

	var points int64
	for _, tx := range history {
		points += tx.Amount
	}

	profile, err := r.store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile for %s: %w", userID, err)
	}

	profile.Points = points
	if _, err := r.store.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to push reconciled profile for %s: %w", userID, err)
	}

	var version int64
	prev, err := r.store.GetSyncStatus(ctx, userID)
	switch {
	case err == nil:
		version = prev.SyncVersion
	case errors.Is(err, storage.ErrNotFound):
		version = 0
	default:
		return fmt.Errorf("failed to read sync status for %s: %w", userID, err)
	}

	status := &models.SyncStatus{
		UserId:      userID,
		IsOnline:    prev != nil && prev.IsOnline,
		LastSyncAt:  time.Now().UTC(),
		SyncVersion: version + 1,
	}
	if err := r.store.UpsertSyncStatus(ctx, status); err != nil {
		return fmt.Errorf("failed to record reconciled sync status for %s: %w", userID, err)
	}

	return nil
}
