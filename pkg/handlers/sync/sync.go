package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/loyalty-points/pkg/mapping"
	"github.com/chris/loyalty-points/pkg/scheduler"
	"github.com/chris/loyalty-points/pkg/storage"
	appsync "github.com/chris/loyalty-points/pkg/sync"
	"github.com/go-chi/chi/v5"
)

// SyncHandler exposes the manual sync trigger, sync status and presence
// endpoints.
type SyncHandler struct {
	Syncer      *appsync.Syncer
	Statuses    storage.SyncStatusStore
	Connections storage.WebSocketManager
	Scheduler   scheduler.SyncScheduler
}

// NewSyncHandler creates a new SyncHandler. A nil scheduler disables the
// deferred sync endpoint.
func NewSyncHandler(syncer *appsync.Syncer, statuses storage.SyncStatusStore, connections storage.WebSocketManager, sched scheduler.SyncScheduler) *SyncHandler {
	return &SyncHandler{Syncer: syncer, Statuses: statuses, Connections: connections, Scheduler: sched}
}

// Routes mounts the sync endpoints.
func (h *SyncHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{userId}", h.TriggerSync)
	r.Post("/{userId}/defer", h.DeferSync)
	r.Get("/{userId}", h.GetSyncStatus)
	r.Get("/presence", h.ListOnlineUsers)
	return r
}

// DeferSync enqueues an out-of-band push for the user after the requested
// delay.
func (h *SyncHandler) DeferSync(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if h.Scheduler == nil {
		http.Error(w, "Deferred sync is not configured", http.StatusNotImplemented)
		return
	}

	var req struct {
		DelaySeconds int32 `json:"delay_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	delay := time.Duration(req.DelaySeconds) * time.Second
	if err := h.Scheduler.ScheduleSync(r.Context(), userID, delay); err != nil {
		http.Error(w, fmt.Sprintf("Failed to enqueue sync: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// TriggerSync pushes the user's profile immediately. A push already in
// flight answers 409; a remote version conflict answers 409 with a
// distinct message so the client can reload.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	status, err := h.Syncer.SyncUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, appsync.ErrSyncInFlight):
			http.Error(w, "A sync for this user is already running", http.StatusConflict)
		case errors.Is(err, storage.ErrVersionConflict):
			http.Error(w, "Profile changed remotely, reload before syncing", http.StatusConflict)
		default:
			http.Error(w, fmt.Sprintf("Failed to sync profile: %v", err), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiSyncStatus(status)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetSyncStatus returns the sync bookkeeping row for a user.
func (h *SyncHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	status, err := h.Statuses.GetSyncStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "User has never synced", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve sync status: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiSyncStatus(status)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListOnlineUsers returns the IDs of users with a live websocket connection.
func (h *SyncHandler) ListOnlineUsers(w http.ResponseWriter, r *http.Request) {
	connections, err := h.Connections.GetAllConnections(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve connections: %v", err), http.StatusInternalServerError)
		return
	}

	seen := make(map[string]bool)
	userIDs := make([]string, 0, len(connections))
	for _, c := range connections {
		if c.UserId == "" || seen[c.UserId] {
			continue
		}
		seen[c.UserId] = true
		userIDs = append(userIDs, c.UserId)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string][]string{"online_users": userIDs}); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
