package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/loyalty-points/pkg/scheduler"
	dydbstore "github.com/chris/loyalty-points/pkg/storage/dynamodb"
	appsync "github.com/chris/loyalty-points/pkg/sync"
	"github.com/joho/godotenv"
)

var reconciler *appsync.Reconciler

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	tables := dydbstore.Tables{
		Profiles:     os.Getenv("DYNAMODB_PROFILES_TABLE_NAME"),
		Transactions: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		SyncStatus:   os.Getenv("DYNAMODB_SYNC_STATUS_TABLE_NAME"),
		Support:      os.Getenv("DYNAMODB_SUPPORT_TABLE_NAME"),
		Connections:  os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	}
	if tables.Profiles == "" || tables.Transactions == "" || tables.SyncStatus == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	reconciler = appsync.NewReconciler(dydbstore.New(dbClient, tables))
}

// HandleRequest processes SQS messages and reconciles the named users'
// profiles against their stored transaction logs.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var req scheduler.SyncRequest
		if err := json.Unmarshal([]byte(message.Body), &req); err != nil {
			log.Printf("ERROR: failed to unmarshal sync request from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Attempting to reconcile user %s", req.UserId)

		if err := reconciler.ReconcileUser(ctx, req.UserId); err != nil {
			log.Printf("ERROR: failed to reconcile user %s: %v", req.UserId, err)
			// In a production system, persistent failures would be sent to a DLQ.
			return err
		}

		log.Printf("Successfully reconciled user %s", req.UserId)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
