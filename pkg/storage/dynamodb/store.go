package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/loyalty-points/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
// Having an interface here lets tests substitute a mock client.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	ProfilesTableName     string
	TransactionsTableName string
	SyncStatusTableName   string
	SupportTableName      string
	ConnectionsTableName  string
}

// Tables names the DynamoDB tables the store operates on.
type Tables struct {
	Profiles     string
	Transactions string
	SyncStatus   string
	Support      string
	Connections  string
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:                client,
		ProfilesTableName:     tables.Profiles,
		TransactionsTableName: tables.Transactions,
		SyncStatusTableName:   tables.SyncStatus,
		SupportTableName:      tables.Support,
		ConnectionsTableName:  tables.Connections,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
