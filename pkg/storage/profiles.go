package storage

import (
	"context"

	"github.com/chris/loyalty-points/pkg/models"
)

// ProfileStore defines the interface for the server-authoritative profile
// rows.
type ProfileStore interface {
	// GetProfile retrieves a profile by user ID. Returns ErrNotFound when
	// the row does not exist.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)

	// CreateProfile creates a new profile row. Returns ErrAlreadyExists when
	// the user already has one.
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)

	// UpdateProfile writes profile fields carrying the version the caller
	// last read. Returns ErrVersionConflict when the remote row has since
	// advanced.
	UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)

	// ListProfiles retrieves all profiles.
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}
