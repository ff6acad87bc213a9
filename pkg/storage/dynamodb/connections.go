package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/loyalty-points/pkg/models"
)

// AddConnection stores a websocket connection ID and the user behind it.
func (s *Store) AddConnection(ctx context.Context, connectionID, userID string) error {
	conn := models.Connection{
		ConnectionId: connectionID,
		UserId:       userID,
		ConnectedAt:  time.Now().UTC(),
	}

	connAV, err := attributevalue.MarshalMap(conn)
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Item:      connAV,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to add connection to DynamoDB: %w", err)
	}

	return nil
}

// RemoveConnection deletes a websocket connection record.
func (s *Store) RemoveConnection(ctx context.Context, connectionID string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"connection_id": connectionID})
	if err != nil {
		return fmt.Errorf("failed to marshal connection ID: %w", err)
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.ConnectionsTableName),
		Key:       key,
	}

	if _, err := s.Client.DeleteItem(ctx, input); err != nil {
		return fmt.Errorf("failed to remove connection from DynamoDB: %w", err)
	}

	return nil
}

// GetAllConnections retrieves all live websocket connections.
func (s *Store) GetAllConnections(ctx context.Context) ([]models.Connection, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.ConnectionsTableName),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan connections table: %w", err)
	}

	var connections []models.Connection
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &connections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connections: %w", err)
	}

	return connections, nil
}
