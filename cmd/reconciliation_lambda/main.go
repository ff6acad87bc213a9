package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/loyalty-points/pkg/scheduler"
	"github.com/chris/loyalty-points/pkg/storage"
	dydbstore "github.com/chris/loyalty-points/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
)

var store storage.Storage
var sqsScheduler scheduler.SyncScheduler

const staleSyncThreshold = 20 * time.Minute

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	sqsClient := sqs.NewFromConfig(cfg)

	// Initialize dependencies.
	sqsQueueURL := os.Getenv("SQS_QUEUE_URL")
	if sqsQueueURL == "" {
		log.Fatal("SQS_QUEUE_URL environment variable not set")
	}
	sqsScheduler = scheduler.NewSQSScheduler(sqsClient, sqsQueueURL)

	store = dydbstore.New(dbClient, dydbstore.Tables{
		Profiles:     os.Getenv("DYNAMODB_PROFILES_TABLE_NAME"),
		Transactions: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		SyncStatus:   os.Getenv("DYNAMODB_SYNC_STATUS_TABLE_NAME"),
		Support:      os.Getenv("DYNAMODB_SUPPORT_TABLE_NAME"),
		Connections:  os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	})
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting reconciliation process for stale sync rows...")

	stale, err := store.ListStaleSyncStatuses(ctx, staleSyncThreshold)
	if err != nil {
		log.Printf("ERROR: failed to list stale sync statuses: %v", err)
		return err
	}

	if len(stale) == 0 {
		log.Println("No stale sync rows found.")
		return nil
	}

	log.Printf("Found %d stale sync rows. Enqueuing them...", len(stale))

	for _, st := range stale {
		if err := sqsScheduler.ScheduleSync(ctx, st.UserId, 0); err != nil {
			log.Printf("ERROR: failed to enqueue sync for user %s: %v", st.UserId, err)
			// Continue to the next user, don't let one failure stop the whole batch.
			continue
		}
		log.Printf("Successfully enqueued sync for user %s", st.UserId)
	}

	log.Println("Reconciliation process finished.")
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
