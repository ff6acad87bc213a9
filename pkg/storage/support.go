package storage

import (
	"context"

	"github.com/chris/loyalty-points/pkg/models"
)

// SupportStore defines the interface for customer support tickets.
type SupportStore interface {
	// CreateTicket persists a new support ticket.
	CreateTicket(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error)

	// ListTicketsByUserID retrieves all tickets opened by a user.
	ListTicketsByUserID(ctx context.Context, userID string) ([]models.SupportTicket, error)

	// RespondTicket records an admin response and resolution state on a
	// ticket. Returns ErrNotFound when the ticket does not exist.
	RespondTicket(ctx context.Context, ticketID, response string, resolved bool) (*models.SupportTicket, error)
}
