package transactions_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/loyalty-points/pkg/handlers/transactions"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/chris/loyalty-points/pkg/storage/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetTransactionById(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetTransaction", mock.Anything, "tx1").Return(&models.Transaction{
			Id: "tx1", UserId: "user1", Amount: 500, Type: models.TxDeposit,
		}, nil)

		r := chi.NewRouter()
		r.Mount("/transactions", transactions.NewTransactionsHandler(mockStorage).Routes())

		req := httptest.NewRequest(http.MethodGet, "/transactions/tx1", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetTransaction", mock.Anything, "ghost").Return(nil, storage.ErrNotFound)

		r := chi.NewRouter()
		r.Mount("/transactions", transactions.NewTransactionsHandler(mockStorage).Routes())

		req := httptest.NewRequest(http.MethodGet, "/transactions/ghost", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockStorage.AssertExpectations(t)
	})
}
