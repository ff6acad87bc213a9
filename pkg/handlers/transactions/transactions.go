package transactions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/chris/loyalty-points/pkg/mapping"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/go-chi/chi/v5"
)

// TransactionsHandler serves the persisted transaction records.
type TransactionsHandler struct {
	Store storage.TransactionStore
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(store storage.TransactionStore) *TransactionsHandler {
	return &TransactionsHandler{Store: store}
}

// Routes mounts the transaction endpoints.
func (h *TransactionsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{transactionId}", h.GetTransactionById)
	return r
}

// GetTransactionById handles the logic for retrieving a transaction by its ID.
func (h *TransactionsHandler) GetTransactionById(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")

	domainTx, err := h.Store.GetTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to retrieve transaction: %v", err), http.StatusInternalServerError)
		return
	}

	apiTx := mapping.ToApiTransaction(domainTx)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiTx); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
