package storage

import (
	"context"

	"github.com/chris/loyalty-points/pkg/models"
)

// TransactionStore defines the interface for persisting and reading points
// transactions.
type TransactionStore interface {
	// CreateTransaction persists a new transaction and returns it.
	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)

	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactionsByUserID retrieves all transactions for a user,
	// most recent first.
	ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error)
}
