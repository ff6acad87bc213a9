package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/loyalty-points/pkg/catalog"
	"github.com/chris/loyalty-points/pkg/handlers/admin"
	"github.com/chris/loyalty-points/pkg/handlers/content"
	"github.com/chris/loyalty-points/pkg/handlers/profiles"
	"github.com/chris/loyalty-points/pkg/handlers/rewards"
	"github.com/chris/loyalty-points/pkg/handlers/support"
	synchandler "github.com/chris/loyalty-points/pkg/handlers/sync"
	"github.com/chris/loyalty-points/pkg/handlers/transactions"
	"github.com/chris/loyalty-points/pkg/handlers/wallets"
	wshandler "github.com/chris/loyalty-points/pkg/handlers/websockets"
	"github.com/chris/loyalty-points/pkg/ledger"
	"github.com/chris/loyalty-points/pkg/maintenance"
	appmiddleware "github.com/chris/loyalty-points/pkg/middleware"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/registry"
	gamerewards "github.com/chris/loyalty-points/pkg/rewards"
	"github.com/chris/loyalty-points/pkg/scheduler"
	dydbstore "github.com/chris/loyalty-points/pkg/storage/dynamodb"
	appsync "github.com/chris/loyalty-points/pkg/sync"
	"github.com/chris/loyalty-points/pkg/weather"
	"github.com/chris/loyalty-points/pkg/websockets"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
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
	if tables.Profiles == "" || tables.Transactions == "" || tables.SyncStatus == "" || tables.Support == "" || tables.Connections == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	// Create our storage implementation
	store := dydbstore.New(dbClient, tables)

	// SQS Client and Scheduler (optional; deferred syncs are disabled without it)
	var sqsScheduler scheduler.SyncScheduler
	if sqsQueueURL := os.Getenv("SQS_QUEUE_URL"); sqsQueueURL != "" {
		sqsScheduler = scheduler.NewSQSScheduler(sqs.NewFromConfig(cfg), sqsQueueURL)
	} else {
		log.Println("SQS_QUEUE_URL not set, deferred syncs disabled")
	}

	// Websocket publisher (optional; falls back to no-op for local runs)
	var publisher websockets.Publisher = &websockets.NoOpPublisher{}
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher, err = websockets.NewPublisher(store, store, endpoint)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	// Local registry, seeded with the bootstrap admin account.
	users := registry.NewInMemory()
	seedAdmin(users)

	// Ledger service and background profile sync.
	ledgerSvc := ledger.NewService(store, logger)
	syncer := appsync.NewSyncer(store, users, ledgerSvc, publisher, logger, syncInterval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go syncer.Run(ctx)

	// Mini-games and the catalog share the process-wide rand source.
	rng := gamerewards.GlobalSource{}
	dart := gamerewards.NewDart()

	// External content clients.
	weatherClient := weather.NewClient(os.Getenv("WEATHER_API_URL"), os.Getenv("WEATHER_API_KEY"))
	catalogClient := catalog.NewClient(os.Getenv("CATALOG_API_URL"), rng)

	gate := maintenance.Default()
	adminOnly := appmiddleware.RequireAdmin(users)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(appmiddleware.NewStructuredLogger(logger))
	router.Use(middleware.Recoverer)

	router.Mount("/wallets", wallets.NewWalletsHandler(ledgerSvc, gate, publisher).Routes())
	router.Mount("/transactions", transactions.NewTransactionsHandler(store).Routes())
	router.Mount("/rewards", rewards.NewRewardsHandler(ledgerSvc, users, dart, rng).Routes())
	router.Mount("/sync", synchandler.NewSyncHandler(syncer, store, store, sqsScheduler).Routes())
	router.Mount("/profiles", profiles.NewProfilesHandler(store).Routes())
	router.Mount("/support", support.NewSupportHandler(store).Routes(adminOnly))
	router.Mount("/content", content.NewContentHandler(weatherClient, catalogClient).Routes())
	router.With(adminOnly).Mount("/admin", admin.NewAdminHandler(users).Routes())
	router.Handle("/ws", wshandler.NewHandler(store, publisher))

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	// Start the server
	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdmin bootstraps the admin account so role-gated routes are reachable
// on a fresh deployment.
func seedAdmin(users *registry.InMemory) {
	id := os.Getenv("ADMIN_USER_ID")
	if id == "" {
		id = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("ADMIN_PASSWORD not set, using default credentials")
	}

	err := users.CreateUser(context.Background(), &models.Profile{
		Id:       id,
		Username: id,
		Role:     models.RoleAdmin,
	}, password)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
}

func syncInterval() time.Duration {
	raw := os.Getenv("SYNC_INTERVAL_SECONDS")
	if raw == "" {
		return appsync.DefaultInterval
	}
	d, err := time.ParseDuration(raw + "s")
	if err != nil {
		log.Printf("invalid SYNC_INTERVAL_SECONDS %q, using default", raw)
		return appsync.DefaultInterval
	}
	return d
}
