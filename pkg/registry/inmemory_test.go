package registry

import (
	"context"
	"testing"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/stretchr/testify/assert"
)

func seedRegistry(t *testing.T) *InMemory {
	r := NewInMemory()
	err := r.CreateUser(context.Background(), &models.Profile{Id: "alice", Username: "alice", Role: models.RoleAdmin}, "secret")
	assert.NoError(t, err)
	err = r.CreateUser(context.Background(), &models.Profile{Id: "bob", Username: "bob"}, "hunter2")
	assert.NoError(t, err)
	return r
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And Get", func(t *testing.T) {
		r := seedRegistry(t)

		u, err := r.GetUser(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)

		// Role defaults when not set.
		u, err = r.GetUser(ctx, "bob")
		assert.NoError(t, err)
		assert.Equal(t, models.RoleRegular, u.Role)
	})

	t.Run("Duplicate Create Rejected", func(t *testing.T) {
		r := seedRegistry(t)

		err := r.CreateUser(ctx, &models.Profile{Id: "alice"}, "other")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("Update Unknown User", func(t *testing.T) {
		r := seedRegistry(t)

		err := r.UpdateUser(ctx, &models.Profile{Id: "ghost"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Update Preserves Creation Time", func(t *testing.T) {
		r := seedRegistry(t)
		before, _ := r.GetUser(ctx, "bob")

		err := r.UpdateUser(ctx, &models.Profile{Id: "bob", Username: "robert", VipLevel: 2})
		assert.NoError(t, err)

		after, err := r.GetUser(ctx, "bob")
		assert.NoError(t, err)
		assert.Equal(t, "robert", after.Username)
		assert.Equal(t, 2, after.VipLevel)
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
	})

	t.Run("Delete", func(t *testing.T) {
		r := seedRegistry(t)

		assert.NoError(t, r.DeleteUser(ctx, "bob"))
		_, err := r.GetUser(ctx, "bob")
		assert.ErrorIs(t, err, ErrUserNotFound)

		assert.ErrorIs(t, r.DeleteUser(ctx, "bob"), ErrUserNotFound)
	})
}

func TestAnnouncements(t *testing.T) {
	ctx := context.Background()
	r := NewInMemory()

	assert.NoError(t, r.CreateAnnouncement(ctx, &models.Announcement{Id: "a1", Title: "Welcome"}))
	assert.NoError(t, r.CreateAnnouncement(ctx, &models.Announcement{Id: "a2", Title: "Maintenance"}))

	all, err := r.ListAnnouncements(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, r.DeleteAnnouncement(ctx, "a1"))
	assert.ErrorIs(t, r.DeleteAnnouncement(ctx, "a1"), ErrAnnouncementNotFound)

	all, err = r.ListAnnouncements(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "a2", all[0].Id)
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("Round Trip", func(t *testing.T) {
		r := seedRegistry(t)
		assert.NoError(t, r.CreateAnnouncement(ctx, &models.Announcement{Id: "a1", Title: "Welcome"}))

		b, err := r.Snapshot(ctx)
		assert.NoError(t, err)
		assert.Len(t, b.Users, 2)
		assert.Equal(t, "secret", b.Passwords["alice"])
		assert.Len(t, b.Announcements, 1)

		fresh := NewInMemory()
		assert.NoError(t, fresh.Restore(ctx, b))

		u, err := fresh.GetUser(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)
		all, _ := fresh.ListAnnouncements(ctx)
		assert.Len(t, all, 1)
	})

	t.Run("Restore Replaces Everything", func(t *testing.T) {
		r := seedRegistry(t)

		err := r.Restore(ctx, &Backup{
			Users: []models.Profile{{Id: "carol", Username: "carol"}},
		})
		assert.NoError(t, err)

		_, err = r.GetUser(ctx, "alice")
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = r.GetUser(ctx, "carol")
		assert.NoError(t, err)
	})

	t.Run("Missing Users Section Rejected", func(t *testing.T) {
		r := seedRegistry(t)

		err := r.Restore(ctx, &Backup{Passwords: map[string]string{"x": "y"}})
		assert.ErrorIs(t, err, ErrInvalidBackup)

		// The failed restore left the previous state untouched.
		u, err := r.GetUser(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("Nil Backup Rejected", func(t *testing.T) {
		r := seedRegistry(t)
		assert.ErrorIs(t, r.Restore(ctx, nil), ErrInvalidBackup)
	})

	t.Run("Empty Users Section Accepted", func(t *testing.T) {
		r := seedRegistry(t)

		err := r.Restore(ctx, &Backup{Users: []models.Profile{}})
		assert.NoError(t, err)

		users, err := r.ListUsers(ctx)
		assert.NoError(t, err)
		assert.Empty(t, users)
	})
}
