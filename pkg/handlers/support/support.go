package support

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/mapping"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SupportHandler serves the customer support ticket endpoints.
type SupportHandler struct {
	Store storage.SupportStore
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(store storage.SupportStore) *SupportHandler {
	return &SupportHandler{Store: store}
}

// Routes mounts the support endpoints. Responding to a ticket is restricted
// to admins via the supplied middleware.
func (h *SupportHandler) Routes(adminOnly func(next http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateTicket)
	r.Get("/user/{userId}", h.ListTickets)
	r.With(adminOnly).Post("/{ticketId}/respond", h.RespondTicket)
	return r
}

// CreateTicket opens a new support ticket.
func (h *SupportHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req api.NewTicket
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.UserId == "" || req.Message == "" {
		http.Error(w, "User id and message are required", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	ticket := &models.SupportTicket{
		Id:        uuid.New().String(),
		UserId:    req.UserId,
		Message:   req.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.Store.CreateTicket(r.Context(), ticket)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create ticket: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(mapping.ToApiTicket(created)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListTickets returns all tickets opened by a user.
func (h *SupportHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	tickets, err := h.Store.ListTicketsByUserID(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list tickets: %v", err), http.StatusInternalServerError)
		return
	}

	apiTickets := make([]*api.Ticket, len(tickets))
	for i := range tickets {
		apiTickets[i] = mapping.ToApiTicket(&tickets[i])
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiTickets); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// RespondTicket records an admin response on a ticket.
func (h *SupportHandler) RespondTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")

	var req api.TicketResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ticket, err := h.Store.RespondTicket(r.Context(), ticketID, req.Response, req.Resolved)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Ticket not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to respond to ticket: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mapping.ToApiTicket(ticket)); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
