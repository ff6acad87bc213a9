package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	wshandler "github.com/chris/loyalty-points/pkg/handlers/websockets"
	dydbstore "github.com/chris/loyalty-points/pkg/storage/dynamodb"
	"github.com/chris/loyalty-points/pkg/websockets"
	"github.com/joho/godotenv"
)

var handler *wshandler.Handler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	store := dydbstore.New(dbClient, dydbstore.Tables{
		Profiles:     os.Getenv("DYNAMODB_PROFILES_TABLE_NAME"),
		Transactions: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		SyncStatus:   os.Getenv("DYNAMODB_SYNC_STATUS_TABLE_NAME"),
		Support:      os.Getenv("DYNAMODB_SUPPORT_TABLE_NAME"),
		Connections:  os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME"),
	})

	var publisher websockets.Publisher
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher, err = websockets.NewPublisher(store, store, endpoint)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	handler = wshandler.NewHandler(store, publisher)
}

// HandleRequest dispatches API Gateway websocket events by route key.
func HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return handler.HandleConnect(ctx, request)
	case "$disconnect":
		return handler.HandleDisconnect(ctx, request)
	default:
		return handler.HandleDefault(ctx, request)
	}
}

func main() {
	lambda.Start(HandleRequest)
}
