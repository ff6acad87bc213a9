package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
)

// InMemory is the process-local Registry implementation. All access goes
// through one mutex; there is no hidden shared state outside this struct.
type InMemory struct {
	mu            sync.RWMutex
	users         map[string]models.Profile
	passwords     map[string]string
	announcements []models.Announcement
}

// NewInMemory creates an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{
		users:     make(map[string]models.Profile),
		passwords: make(map[string]string),
	}
}

// Make sure we conform to the interface
var _ Registry = (*InMemory)(nil)

// GetUser retrieves a user by ID.
func (r *InMemory) GetUser(ctx context.Context, userID string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	return &u, nil
}

// ListUsers retrieves all users sorted by creation time, newest first.
func (r *InMemory) ListUsers(ctx context.Context) ([]models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Profile, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CreateUser adds a new user and password.
func (r *InMemory) CreateUser(ctx context.Context, user *models.Profile, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Id]; ok {
		return fmt.Errorf("user %s: %w", user.Id, ErrUserExists)
	}
	if user.Role == "" {
		user.Role = models.RoleRegular
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.Id] = *user
	r.passwords[user.Id] = password
	return nil
}

// UpdateUser overwrites an existing user's fields.
func (r *InMemory) UpdateUser(ctx context.Context, user *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.Id]
	if !ok {
		return fmt.Errorf("user %s: %w", user.Id, ErrUserNotFound)
	}
	user.CreatedAt = existing.CreatedAt
	r.users[user.Id] = *user
	return nil
}

// DeleteUser removes a user and their password.
func (r *InMemory) DeleteUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	delete(r.users, userID)
	delete(r.passwords, userID)
	return nil
}

// ListAnnouncements retrieves all announcements, newest first.
func (r *InMemory) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Announcement, len(r.announcements))
	copy(out, r.announcements)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CreateAnnouncement adds a new announcement.
func (r *InMemory) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.announcements = append(r.announcements, *a)
	return nil
}

// DeleteAnnouncement removes an announcement by ID.
func (r *InMemory) DeleteAnnouncement(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.announcements {
		if a.Id == id {
			r.announcements = append(r.announcements[:i], r.announcements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("announcement %s: %w", id, ErrAnnouncementNotFound)
}

// Snapshot returns a full copy of the registry's state.
func (r *InMemory) Snapshot(ctx context.Context) (*Backup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b := &Backup{
		Users:         make([]models.Profile, 0, len(r.users)),
		Passwords:     make(map[string]string, len(r.passwords)),
		Announcements: make([]models.Announcement, len(r.announcements)),
	}
	for _, u := range r.users {
		b.Users = append(b.Users, u)
	}
	sort.Slice(b.Users, func(i, j int) bool { return b.Users[i].Id < b.Users[j].Id })
	for id, pw := range r.passwords {
		b.Passwords[id] = pw
	}
	copy(b.Announcements, r.announcements)
	return b, nil
}

// Restore atomically replaces the registry's state from a backup. The
// validation happens before any mutation, so a rejected payload leaves the
// current state untouched.
func (r *InMemory) Restore(ctx context.Context, b *Backup) error {
	if b == nil || b.Users == nil {
		return ErrInvalidBackup
	}

	users := make(map[string]models.Profile, len(b.Users))
	for _, u := range b.Users {
		users[u.Id] = u
	}
	passwords := make(map[string]string, len(b.Passwords))
	for id, pw := range b.Passwords {
		passwords[id] = pw
	}
	announcements := make([]models.Announcement, len(b.Announcements))
	copy(announcements, b.Announcements)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
	r.passwords = passwords
	r.announcements = announcements
	return nil
}
