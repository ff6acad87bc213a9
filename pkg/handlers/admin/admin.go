package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/mapping"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AdminHandler serves the back-office endpoints: user and announcement CRUD
// plus JSON backup and restore of the registry.
type AdminHandler struct {
	Registry registry.Registry
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reg registry.Registry) *AdminHandler {
	return &AdminHandler{Registry: reg}
}

// Routes mounts the admin endpoints. Callers are expected to wrap these in
// the admin-role middleware.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.CreateUser)
	r.Put("/users/{userId}", h.UpdateUser)
	r.Delete("/users/{userId}", h.DeleteUser)
	r.Get("/announcements", h.ListAnnouncements)
	r.Post("/announcements", h.CreateAnnouncement)
	r.Delete("/announcements/{announcementId}", h.DeleteAnnouncement)
	r.Get("/backup", h.Backup)
	r.Post("/restore", h.Restore)
	return r
}

// ListUsers returns all registered users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Registry.ListUsers(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list users: %v", err), http.StatusInternalServerError)
		return
	}

	apiUsers := make([]*api.Profile, len(users))
	for i := range users {
		apiUsers[i] = mapping.ToApiProfile(&users[i])
	}
	respond(w, http.StatusOK, apiUsers)
}

// CreateUser registers a new user.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var newUser api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&newUser); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newUser.Id == "" || newUser.Username == "" {
		http.Error(w, "User id and username are required", http.StatusBadRequest)
		return
	}

	user := mapping.ToDomainUser(&newUser)
	if err := h.Registry.CreateUser(r.Context(), user, newUser.Password); err != nil {
		if errors.Is(err, registry.ErrUserExists) {
			http.Error(w, "User already exists", http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to create user: %v", err), http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusCreated, mapping.ToApiProfile(user))
}

// UpdateUser overwrites a user's mutable fields.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	req.Id = userID
	user := mapping.ToDomainUser(&req)
	if err := h.Registry.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, registry.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to update user: %v", err), http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, mapping.ToApiProfile(user))
}

// DeleteUser removes a user.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.Registry.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, registry.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to delete user: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAnnouncements returns all announcements, newest first.
func (h *AdminHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.Registry.ListAnnouncements(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list announcements: %v", err), http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, announcements)
}

// CreateAnnouncement publishes a new announcement.
func (h *AdminHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req api.NewAnnouncement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Announcement title is required", http.StatusBadRequest)
		return
	}

	a := &models.Announcement{
		Id:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Registry.CreateAnnouncement(r.Context(), a); err != nil {
		http.Error(w, fmt.Sprintf("Failed to create announcement: %v", err), http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusCreated, a)
}

// DeleteAnnouncement removes an announcement.
func (h *AdminHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "announcementId")

	if err := h.Registry.DeleteAnnouncement(r.Context(), id); err != nil {
		if errors.Is(err, registry.ErrAnnouncementNotFound) {
			http.Error(w, "Announcement not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to delete announcement: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Backup streams a JSON snapshot of the registry.
func (h *AdminHandler) Backup(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Registry.Snapshot(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to snapshot registry: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="loyalty-backup.json"`)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Restore replaces the registry's state from an uploaded JSON snapshot.
// A payload missing the users section is rejected and the current state is
// left untouched.
func (h *AdminHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var backup registry.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		http.Error(w, fmt.Sprintf("Invalid backup payload: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.Registry.Restore(r.Context(), &backup); err != nil {
		if errors.Is(err, registry.ErrInvalidBackup) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to restore registry: %v", err), http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, map[string]string{"status": "restored"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
