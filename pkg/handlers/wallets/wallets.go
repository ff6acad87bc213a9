package wallets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/ledger"
	"github.com/chris/loyalty-points/pkg/maintenance"
	"github.com/chris/loyalty-points/pkg/mapping"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/websockets"
	"github.com/go-chi/chi/v5"
)

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Ledger    *ledger.Service
	Gate      *maintenance.Gate
	Publisher websockets.Publisher
	Now       func() time.Time
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(svc *ledger.Service, gate *maintenance.Gate, publisher websockets.Publisher) *WalletsHandler {
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	return &WalletsHandler{Ledger: svc, Gate: gate, Publisher: publisher, Now: time.Now}
}

// Routes mounts the wallet endpoints.
func (h *WalletsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{userId}", h.GetWallet)
	r.Get("/{userId}/transactions", h.ListTransactions)
	r.Post("/{userId}/transactions", h.AddTransaction)
	r.Post("/{userId}/deposit", h.Deposit)
	r.Post("/{userId}/withdraw", h.Withdraw)
	r.Post("/{userId}/purchase", h.Purchase)
	r.Post("/{userId}/refund", h.Refund)
	r.Post("/{userId}/transfer", h.Transfer)
	r.Post("/{userId}/gift", h.Gift)
	r.Post("/{userId}/daily", h.DailyReward)
	r.Post("/{userId}/exchange", h.Exchange)
	return r
}

// GetWallet returns the derived balance view for a user.
func (h *WalletsHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	balance, err := h.Ledger.Balance(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve wallet: %v", err), http.StatusInternalServerError)
		return
	}
	txs, err := h.Ledger.Transactions(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve wallet: %v", err), http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, mapping.ToApiWallet(userID, balance, len(txs)))
}

// ListTransactions returns the user's transaction log, most recent first.
func (h *WalletsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	txs, err := h.Ledger.Transactions(r.Context(), userID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve transactions: %v", err), http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// AddTransaction posts a raw transaction. Amount and type must be present;
// all other acceptance rules run inside the ledger.
func (h *WalletsHandler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var newTx api.NewTransaction
	if err := json.NewDecoder(r.Body).Decode(&newTx); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newTx.Amount == nil {
		http.Error(w, "Transaction amount is required", http.StatusBadRequest)
		return
	}
	if newTx.Type == nil {
		http.Error(w, "Transaction type is required", http.StatusBadRequest)
		return
	}

	tx, err := h.Ledger.Apply(r.Context(), userID, *newTx.Amount, models.TransactionType(*newTx.Type), newTx.Description)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	h.publishWalletUpdate(r, tx)
	respond(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// Deposit credits points to the user's wallet.
func (h *WalletsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.amountOp(w, r, "Deposit", func(userID string, amount int64) (*models.Transaction, error) {
		return h.Ledger.Deposit(r.Context(), userID, amount, "Deposit")
	})
}

// Withdraw debits points from the user's wallet.
func (h *WalletsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.amountOp(w, r, "Withdrawal", func(userID string, amount int64) (*models.Transaction, error) {
		return h.Ledger.Withdraw(r.Context(), userID, amount, "Withdrawal")
	})
}

// DailyReward credits the daily login reward.
func (h *WalletsHandler) DailyReward(w http.ResponseWriter, r *http.Request) {
	h.amountOp(w, r, "Daily reward", func(userID string, amount int64) (*models.Transaction, error) {
		return h.Ledger.DailyReward(r.Context(), userID, amount)
	})
}

func (h *WalletsHandler) amountOp(w http.ResponseWriter, r *http.Request, label string, op func(userID string, amount int64) (*models.Transaction, error)) {
	userID := chi.URLParam(r, "userId")

	var req api.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := op(userID, req.Amount)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	h.publishWalletUpdate(r, tx)
	respond(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// Purchase spends points on an item.
func (h *WalletsHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req api.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := h.Ledger.Purchase(r.Context(), userID, req.Amount, req.Item)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	h.publishWalletUpdate(r, tx)
	respond(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// Refund credits points back for a returned item.
func (h *WalletsHandler) Refund(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req api.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := h.Ledger.Refund(r.Context(), userID, req.Amount, req.Item)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	h.publishWalletUpdate(r, tx)
	respond(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// Transfer moves points to another user. Refused during the transfer
// maintenance window.
func (h *WalletsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	h.pairedMove(w, r, maintenance.FeatureTransfer, h.Ledger.Transfer)
}

// Gift sends points to another user as a gift. Refused during the
// gift-exchange maintenance window.
func (h *WalletsHandler) Gift(w http.ResponseWriter, r *http.Request) {
	h.pairedMove(w, r, maintenance.FeatureGiftExchange, h.Ledger.Gift)
}

func (h *WalletsHandler) pairedMove(w http.ResponseWriter, r *http.Request, feature string, op func(ctx context.Context, from, to string, amount int64) (*models.Transaction, error)) {
	userID := chi.URLParam(r, "userId")

	if h.Gate != nil && h.Gate.InWindow(feature, h.Now()) {
		http.Error(w, "This feature is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	var req api.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := op(r.Context(), userID, req.ToUserId, req.Amount)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	h.publishWalletUpdate(r, tx)
	respond(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// Exchange spends points on a catalog product. Refused during the exchange
// maintenance window.
func (h *WalletsHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if h.Gate != nil && h.Gate.InWindow(maintenance.FeatureExchange, h.Now()) {
		http.Error(w, "This feature is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	var req api.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := h.Ledger.Exchange(r.Context(), userID, req.Cost, req.Product)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	h.publishWalletUpdate(r, tx)
	respond(w, http.StatusCreated, mapping.ToApiTransaction(tx))
}

// writeLedgerError maps ledger rejections to HTTP statuses.
func (h *WalletsHandler) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientPoints):
		http.Error(w, "Insufficient points", http.StatusUnprocessableEntity)
	case errors.Is(err, ledger.ErrMissingAmount),
		errors.Is(err, ledger.ErrMissingType),
		errors.Is(err, ledger.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, fmt.Sprintf("Failed to record transaction: %v", err), http.StatusInternalServerError)
	}
}

func (h *WalletsHandler) publishWalletUpdate(r *http.Request, tx *models.Transaction) {
	balance, err := h.Ledger.Balance(r.Context(), tx.UserId)
	if err != nil {
		slog.Error("failed to get balance for websocket message", "error", err)
		return
	}
	msg := websockets.Message{
		Type: websockets.MessageTypeWalletUpdate,
		Payload: websockets.WalletUpdatePayload{
			UserID:        tx.UserId,
			TransactionID: tx.Id,
			Change:        tx.Amount,
			NewBalance:    balance,
		},
	}
	if err := h.Publisher.Publish(r.Context(), msg); err != nil {
		slog.Error("failed to publish websocket message", "error", err)
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
