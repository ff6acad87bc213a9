package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
)

const supportUserIDIndex = "user_id-index"

// CreateTicket persists a new support ticket.
func (s *Store) CreateTicket(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	ticketAV, err := attributevalue.MarshalMap(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal support ticket: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.SupportTableName),
		Item:                ticketAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to create support ticket in DynamoDB: %w", err)
	}

	return ticket, nil
}

// ListTicketsByUserID retrieves all tickets opened by a user.
func (s *Store) ListTicketsByUserID(ctx context.Context, userID string) ([]models.SupportTicket, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.SupportTableName),
		IndexName:              aws.String(supportUserIDIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query support tickets by user ID: %w", err)
	}

	var tickets []models.SupportTicket
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &tickets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal support tickets: %w", err)
	}

	return tickets, nil
}

// RespondTicket records an admin response and resolution state on a ticket.
func (s *Store) RespondTicket(ctx context.Context, ticketID, response string, resolved bool) (*models.SupportTicket, error) {
	responseAV, err := attributevalue.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal admin response: %w", err)
	}
	resolvedAV, err := attributevalue.Marshal(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resolved flag: %w", err)
	}
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.SupportTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: ticketID},
		},
		UpdateExpression:    aws.String("SET admin_response = :response, resolved = :resolved, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":response": responseAV,
			":resolved": resolvedAV,
			":now":      nowAV,
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("support ticket %s: %w", ticketID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to respond to support ticket in DynamoDB: %w", err)
	}

	var ticket models.SupportTicket
	if err := attributevalue.UnmarshalMap(result.Attributes, &ticket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal support ticket: %w", err)
	}

	return &ticket, nil
}
