package scheduler

import (
	"context"
	"time"
)

// SyncRequest is the message body enqueued for a deferred profile push.
type SyncRequest struct {
	UserId string `json:"user_id"`
}

// SyncScheduler defines the interface for a component that enqueues a user
// for an out-of-band profile push.
type SyncScheduler interface {
	// ScheduleSync enqueues a sync request for the user after the given delay.
	ScheduleSync(ctx context.Context, userID string, delay time.Duration) error
}
