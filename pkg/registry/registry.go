// Package registry holds the application's locally-managed records: users,
// credentials and announcements. It replaces ad hoc module-level state with
// one store injected at the application root.
package registry

import (
	"context"
	"errors"

	"github.com/chris/loyalty-points/pkg/models"
)

// ErrUserNotFound is returned when a user does not exist in the registry.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when a create collides with an existing user.
var ErrUserExists = errors.New("user already exists")

// ErrAnnouncementNotFound is returned when an announcement does not exist.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// ErrInvalidBackup is returned when a restore payload is missing required
// sections.
var ErrInvalidBackup = errors.New("backup is missing the users section")

// Backup is the JSON snapshot produced by Snapshot and consumed by Restore.
type Backup struct {
	Users         []models.Profile      `json:"users"`
	Passwords     map[string]string     `json:"passwords"`
	Announcements []models.Announcement `json:"announcements"`
}

// Registry defines the interface for the locally-managed application records.
type Registry interface {
	GetUser(ctx context.Context, userID string) (*models.Profile, error)
	ListUsers(ctx context.Context) ([]models.Profile, error)
	CreateUser(ctx context.Context, user *models.Profile, password string) error
	UpdateUser(ctx context.Context, user *models.Profile) error
	DeleteUser(ctx context.Context, userID string) error

	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error

	// Snapshot returns a full copy of the registry's state.
	Snapshot(ctx context.Context) (*Backup, error)

	// Restore atomically replaces the registry's state from a backup.
	// A backup without a users section is rejected with ErrInvalidBackup
	// and the current state is left untouched.
	Restore(ctx context.Context, b *Backup) error
}
