package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/mapping"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/go-chi/chi/v5"
)

// ProfilesHandler serves read access to the remotely-stored profiles.
type ProfilesHandler struct {
	Store storage.ProfileStore
}

// NewProfilesHandler creates a new ProfilesHandler.
func NewProfilesHandler(store storage.ProfileStore) *ProfilesHandler {
	return &ProfilesHandler{Store: store}
}

// Routes mounts the profile endpoints.
func (h *ProfilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListProfiles)
	r.Get("/{userId}", h.GetProfile)
	return r
}

// GetProfile returns one stored profile.
func (h *ProfilesHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	profile, err := h.Store.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve profile: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiProfile(profile)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListProfiles returns every stored profile.
func (h *ProfilesHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	stored, err := h.Store.ListProfiles(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list profiles: %v", err), http.StatusInternalServerError)
		return
	}

	out := make([]*api.Profile, len(stored))
	for i := range stored {
		out[i] = mapping.ToApiProfile(&stored[i])
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
