// Package sync pushes local profile state to the remote store and keeps the
// per-user sync bookkeeping rows up to date.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/chris/loyalty-points/pkg/websockets"
)

// DefaultInterval is how often the background pass pushes every known user.
const DefaultInterval = 30 * time.Second

// ErrSyncInFlight is returned when a push for the user is already running.
// The caller's trigger coalesces onto the running pass.
var ErrSyncInFlight = errors.New("sync already in progress for user")

// UserSource supplies the locally-held user records to push.
type UserSource interface {
	GetUser(ctx context.Context, userID string) (*models.Profile, error)
	ListUsers(ctx context.Context) ([]models.Profile, error)
}

// BalanceSource supplies the current derived points balance for a user.
type BalanceSource interface {
	Balance(ctx context.Context, userID string) (int64, error)
}

// Syncer pushes local profile fields to the remote store. Every push carries
// the version last read from the remote row, so a concurrent writer causes a
// surfaced conflict instead of a silent overwrite.
type Syncer struct {
	store     storage.SyncStore
	users     UserSource
	balances  BalanceSource
	publisher websockets.Publisher
	logger    *slog.Logger
	interval  time.Duration

	mu       sync.Mutex
	inflight map[string]bool
}

// NewSyncer creates a Syncer. A nil publisher disables change notifications.
func NewSyncer(store storage.SyncStore, users UserSource, balances BalanceSource, publisher websockets.Publisher, logger *slog.Logger, interval time.Duration) *Syncer {
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Syncer{
		store:     store,
		users:     users,
		balances:  balances,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
		inflight:  make(map[string]bool),
	}
}

// SyncUser pushes one user's local state to the remote store. The busy flag
// is acquired synchronously before the first remote call, so overlapping
// triggers cannot race: the loser gets ErrSyncInFlight.
func (s *Syncer) SyncUser(ctx context.Context, userID string) (*models.SyncStatus, error) {
	s.mu.Lock()
	if s.inflight[userID] {
		s.mu.Unlock()
		return nil, fmt.Errorf("user %s: %w", userID, ErrSyncInFlight)
	}
	s.inflight[userID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, userID)
		s.mu.Unlock()
	}()

	local, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load local user %s: %w", userID, err)
	}

	balance, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive balance for %s: %w", userID, err)
	}

	remote, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		remote, err = s.store.CreateProfile(ctx, &models.Profile{
			Id:       userID,
			Username: local.Username,
			Role:     local.Role,
			VipLevel: local.VipLevel,
			Points:   balance,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch or create profile for %s: %w", userID, err)
	}

	remote.Username = local.Username
	remote.Role = local.Role
	remote.VipLevel = local.VipLevel
	remote.Points = balance

	updated, err := s.store.UpdateProfile(ctx, remote)
	if err != nil {
		// Version conflicts bubble up untouched: the caller decides whether
		// to reload or merge. Everything else is a plain push failure.
		return nil, fmt.Errorf("failed to push profile for %s: %w", userID, err)
	}

	status, err := s.nextStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertSyncStatus(ctx, status); err != nil {
		return nil, fmt.Errorf("failed to record sync status for %s: %w", userID, err)
	}

	msg := websockets.Message{
		Type: websockets.MessageTypeProfileUpdate,
		Payload: websockets.ProfileUpdatePayload{
			UserID:      userID,
			Points:      updated.Points,
			VipLevel:    updated.VipLevel,
			SyncVersion: status.SyncVersion,
		},
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Error("failed to publish profile update", "user_id", userID, "error", err)
	}

	return status, nil
}

// nextStatus builds the sync row with an incremented version.
func (s *Syncer) nextStatus(ctx context.Context, userID string) (*models.SyncStatus, error) {
	var version int64
	prev, err := s.store.GetSyncStatus(ctx, userID)
	switch {
	case err == nil:
		version = prev.SyncVersion
	case errors.Is(err, storage.ErrNotFound):
		version = 0
	default:
		return nil, fmt.Errorf("failed to read sync status for %s: %w", userID, err)
	}

	return &models.SyncStatus{
		UserId:      userID,
		IsOnline:    true,
		LastSyncAt:  time.Now().UTC(),
		SyncVersion: version + 1,
	}, nil
}

// Run pushes every known user once per interval until the context is
// cancelled. A failed or in-flight user is skipped; the next tick is the
// retry.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.syncAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncAll(ctx)
		}
	}
}

func (s *Syncer) syncAll(ctx context.Context) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users for sync pass", "error", err)
		return
	}

	for _, u := range users {
		if _, err := s.SyncUser(ctx, u.Id); err != nil {
			if errors.Is(err, ErrSyncInFlight) {
				continue
			}
			s.logger.Error("sync pass failed for user", "user_id", u.Id, "error", err)
		}
	}
}
