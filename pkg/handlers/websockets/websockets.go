package websockets

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/chris/loyalty-points/pkg/websockets"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler handles websocket connections and the presence bookkeeping that
// comes with them.
type Handler struct {
	connManager storage.WebSocketManager
	publisher   websockets.Publisher
}

// NewHandler creates a new Handler. A nil publisher disables presence
// broadcasts.
func NewHandler(connManager storage.WebSocketManager, publisher websockets.Publisher) *Handler {
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	return &Handler{
		connManager: connManager,
		publisher:   publisher,
	}
}

// HandleConnect handles new client connections behind API Gateway.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	userID := request.QueryStringParameters["user_id"]
	slog.Info("Client connected", "connectionId", connectionID, "userId", userID)

	if err := h.connManager.AddConnection(ctx, connectionID, userID); err != nil {
		slog.Error("failed to save connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	h.broadcastPresence(ctx, userID, true)
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDisconnect handles client disconnections behind API Gateway.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	userID := request.QueryStringParameters["user_id"]
	slog.Info("Client disconnected", "connectionId", connectionID, "userId", userID)

	if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
		slog.Error("failed to delete connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: 500}, err
	}

	h.broadcastPresence(ctx, userID, false)
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

// HandleDefault handles messages sent from a client.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("Received message", "connectionId", request.RequestContext.ConnectionID, "body", request.Body)
	// Clients are not expected to send messages; log and move on.
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

func (h *Handler) broadcastPresence(ctx context.Context, userID string, online bool) {
	if userID == "" {
		return
	}
	msg := websockets.Message{
		Type:    websockets.MessageTypePresence,
		Payload: websockets.PresencePayload{UserID: userID, Online: online},
	}
	if err := h.publisher.Publish(ctx, msg); err != nil {
		slog.Error("failed to broadcast presence", "userId", userID, "error", err)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// ServeHTTP handles websocket requests for the local development server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	userID := r.URL.Query().Get("user_id")
	slog.Info("Client connected locally", "connectionId", connectionID, "userId", userID)

	ctx := r.Context()
	if err := h.connManager.AddConnection(ctx, connectionID, userID); err != nil {
		slog.Error("failed to save local connection ID", "error", err)
		return
	}
	h.broadcastPresence(ctx, userID, true)

	defer func() {
		slog.Info("Client disconnected locally", "connectionId", connectionID)
		if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to delete local connection ID", "error", err)
		}
		h.broadcastPresence(ctx, userID, false)
	}()

	// Block until the client closes the connection. The server does not
	// process incoming messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}
