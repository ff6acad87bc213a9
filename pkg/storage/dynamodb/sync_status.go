package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
)

// GetSyncStatus retrieves the sync row for a user.
func (s *Store) GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatus, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync status key: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.SyncStatusTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("sync status for user %s: %w", userID, storage.ErrNotFound)
	}

	var status models.SyncStatus
	if err := attributevalue.UnmarshalMap(result.Item, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync status: %w", err)
	}

	return &status, nil
}

// UpsertSyncStatus writes the sync row for a user, creating it if needed.
func (s *Store) UpsertSyncStatus(ctx context.Context, status *models.SyncStatus) error {
	statusAV, err := attributevalue.MarshalMap(status)
	if err != nil {
		return fmt.Errorf("failed to marshal sync status: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.SyncStatusTableName),
		Item:      statusAV,
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("failed to upsert sync status in DynamoDB: %w", err)
	}

	return nil
}

// ListStaleSyncStatuses retrieves sync rows whose last successful push is
// older than maxAge.
func (s *Store) ListStaleSyncStatuses(ctx context.Context, maxAge time.Duration) ([]models.SyncStatus, error) {
	cutoffTime := time.Now().Add(-maxAge)
	cutoffTimeStr, err := cutoffTime.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.SyncStatusTableName),
		FilterExpression: aws.String("last_sync_at < :cutoff"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
		},
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for stale sync statuses: %w", err)
	}

	var statuses []models.SyncStatus
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &statuses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync statuses: %w", err)
	}

	return statuses, nil
}
