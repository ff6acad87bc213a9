package storage

import (
	"context"

	"github.com/chris/loyalty-points/pkg/models"
)

// WebSocketManager defines the interface for storing and retrieving
// websocket connections and the users behind them.
type WebSocketManager interface {
	AddConnection(ctx context.Context, connectionID, userID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetAllConnections(ctx context.Context) ([]models.Connection, error)
}
