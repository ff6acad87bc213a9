package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/chris/loyalty-points/pkg/models"
)

// AllConnectionsGetter defines an interface for getting all connections.
type AllConnectionsGetter interface {
	GetAllConnections(ctx context.Context) ([]models.Connection, error)
}

// DefaultPublisher is the default implementation of the Publisher interface.
// It fans a message out to every live connection and prunes connections the
// gateway reports as gone.
type DefaultPublisher struct {
	store       AllConnectionsGetter
	connManager ConnectionManager
	apiGwClient *apigatewaymanagementapi.Client
}

// NewPublisher creates a new DefaultPublisher.
func NewPublisher(store AllConnectionsGetter, connManager ConnectionManager, apiEndpoint string) (*DefaultPublisher, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	apiGwClient := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(apiEndpoint)
	})

	return &DefaultPublisher{
		store:       store,
		connManager: connManager,
		apiGwClient: apiGwClient,
	}, nil
}

// Make sure we conform to the interface
var _ Publisher = (*DefaultPublisher)(nil)

// Publish sends a message to all connected clients.
func (p *DefaultPublisher) Publish(ctx context.Context, message Message) error {
	connections, err := p.store.GetAllConnections(ctx)
	if err != nil {
		return fmt.Errorf("failed to get all connections: %w", err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	for _, conn := range connections {
		_, err := p.apiGwClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(conn.ConnectionId),
			Data:         payload,
		})

		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				slog.Info("stale connection found, deleting", "connectionId", conn.ConnectionId)
				if err := p.connManager.RemoveConnection(ctx, conn.ConnectionId); err != nil {
					slog.Error("failed to delete stale connection", "error", err)
				}
				continue
			}
			slog.Error("failed to post to connection", "connectionId", conn.ConnectionId, "error", err)
		}
	}

	return nil
}
