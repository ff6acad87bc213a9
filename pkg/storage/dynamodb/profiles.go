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

// GetProfile retrieves a profile row by user ID.
func (s *Store) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.ProfilesTableName),
		Key:       key,
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("profile for user %s: %w", userID, storage.ErrNotFound)
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(result.Item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// CreateProfile creates a new profile row. The row starts at version 1.
func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	now := time.Now().UTC()
	profile.Version = 1
	profile.CreatedAt = now
	profile.UpdatedAt = now

	profileAV, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.ProfilesTableName),
		Item:                profileAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Prevent overwriting existing profiles.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("profile for user %s: %w", profile.Id, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create profile in DynamoDB: %w", err)
	}

	return profile, nil
}

// UpdateProfile writes the mutable profile fields, conditioned on the
// version the caller last read. A concurrent writer that advanced the row
// causes ErrVersionConflict instead of a silent overwrite.
func (s *Store) UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	now := time.Now().UTC()

	usernameAV, err := attributevalue.Marshal(profile.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal username: %w", err)
	}
	pointsAV, err := attributevalue.Marshal(profile.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal points: %w", err)
	}
	roleAV, err := attributevalue.Marshal(profile.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal role: %w", err)
	}
	vipAV, err := attributevalue.Marshal(profile.VipLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vip level: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.ProfilesTableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: profile.Id},
		},
		UpdateExpression:    aws.String("SET username = :username, points = :points, #role = :role, vip_level = :vip, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("version = :version"),
		ExpressionAttributeNames: map[string]string{
			"#role": "role",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":username": usernameAV,
			":points":   pointsAV,
			":role":     roleAV,
			":vip":      vipAV,
			":now":      nowAV,
			":version":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", profile.Version)},
			":inc":      &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	result, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("profile for user %s advanced past version %d: %w",
				profile.Id, profile.Version, storage.ErrVersionConflict)
		}
		return nil, fmt.Errorf("failed to update profile in DynamoDB: %w", err)
	}

	var updated models.Profile
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}

	return &updated, nil
}

// ListProfiles retrieves all profiles from DynamoDB.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.ProfilesTableName),
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles table: %w", err)
	}

	var profiles []models.Profile
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profiles: %w", err)
	}

	return profiles, nil
}
