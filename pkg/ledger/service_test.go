package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chris/loyalty-points/pkg/ledger"
	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newService(t *testing.T) (*ledger.Service, *mocks.Storage) {
	mockStorage := new(mocks.Storage)
	return ledger.NewService(mockStorage, nil), mockStorage
}

func TestDeposit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mockStorage := newService(t)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return([]models.Transaction{}, nil)
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(&models.Transaction{}, nil)

		tx, err := svc.Deposit(context.Background(), "user1", 100000, "Deposit")

		assert.NoError(t, err)
		assert.Equal(t, int64(100000), tx.Amount)
		assert.Equal(t, models.TxDeposit, tx.Type)
		assert.NotEmpty(t, tx.Id)

		balance, err := svc.Balance(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Equal(t, int64(100000), balance)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Non-Positive Amount", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Deposit(context.Background(), "user1", 0, "Deposit")

		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})

	t.Run("Persist Failure Still Accepted Locally", func(t *testing.T) {
		svc, mockStorage := newService(t)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return([]models.Transaction{}, nil)
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("dynamo down"))

		tx, err := svc.Deposit(context.Background(), "user1", 500, "Deposit")

		assert.NoError(t, err)
		assert.NotNil(t, tx)

		balance, err := svc.Balance(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Equal(t, int64(500), balance)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("Insufficient Points", func(t *testing.T) {
		svc, mockStorage := newService(t)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return([]models.Transaction{}, nil)

		_, err := svc.Withdraw(context.Background(), "user1", 100, "Withdrawal")

		assert.ErrorIs(t, err, ledger.ErrInsufficientPoints)
	})

	t.Run("Success After Deposit", func(t *testing.T) {
		svc, mockStorage := newService(t)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return([]models.Transaction{}, nil)
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(&models.Transaction{}, nil)

		_, err := svc.Deposit(context.Background(), "user1", 100000, "Deposit")
		assert.NoError(t, err)

		tx, err := svc.Withdraw(context.Background(), "user1", 30000, "Withdrawal")
		assert.NoError(t, err)
		assert.Equal(t, int64(-30000), tx.Amount)

		balance, err := svc.Balance(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Equal(t, int64(70000), balance)
	})
}

func TestLoadsPersistedHistory(t *testing.T) {
	svc, mockStorage := newService(t)
	history := []models.Transaction{
		{Id: "t2", UserId: "user1", Amount: -30000, Type: models.TxWithdrawal},
		{Id: "t1", UserId: "user1", Amount: 100000, Type: models.TxDeposit},
	}
	mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return(history, nil).Once()

	balance, err := svc.Balance(context.Background(), "user1")

	assert.NoError(t, err)
	assert.Equal(t, int64(70000), balance)

	// A second read serves from the cached wallet, no extra store call.
	balance, err = svc.Balance(context.Background(), "user1")
	assert.NoError(t, err)
	assert.Equal(t, int64(70000), balance)
	mockStorage.AssertExpectations(t)
}

func TestTransfer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mockStorage := newService(t)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "alice").Return([]models.Transaction{
			{Id: "seed", UserId: "alice", Amount: 5000, Type: models.TxDeposit},
		}, nil)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "bob").Return([]models.Transaction{}, nil)
		mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(&models.Transaction{}, nil)

		debit, err := svc.Transfer(context.Background(), "alice", "bob", 2000)

		assert.NoError(t, err)
		assert.Equal(t, int64(-2000), debit.Amount)
		assert.Equal(t, models.TxTransfer, debit.Type)
		assert.Contains(t, debit.Description, "bob")

		aliceBalance, _ := svc.Balance(context.Background(), "alice")
		bobBalance, _ := svc.Balance(context.Background(), "bob")
		assert.Equal(t, int64(3000), aliceBalance)
		assert.Equal(t, int64(2000), bobBalance)
	})

	t.Run("Self Send Rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Transfer(context.Background(), "alice", "alice", 100)

		assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
	})

	t.Run("Insufficient Sender Balance", func(t *testing.T) {
		svc, mockStorage := newService(t)
		mockStorage.On("ListTransactionsByUserID", mock.Anything, "alice").Return([]models.Transaction{}, nil)

		_, err := svc.Transfer(context.Background(), "alice", "bob", 100)

		assert.ErrorIs(t, err, ledger.ErrInsufficientPoints)
	})
}

func TestExchange(t *testing.T) {
	svc, mockStorage := newService(t)
	mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return([]models.Transaction{
		{Id: "seed", UserId: "user1", Amount: 10000, Type: models.TxDeposit},
	}, nil)
	mockStorage.On("CreateTransaction", mock.Anything, mock.Anything).Return(&models.Transaction{}, nil)

	tx, err := svc.Exchange(context.Background(), "user1", 4000, "headphones")

	assert.NoError(t, err)
	assert.Equal(t, int64(-4000), tx.Amount)
	assert.Equal(t, models.TxExchange, tx.Type)
	assert.Contains(t, tx.Description, "headphones")
}

func TestStats(t *testing.T) {
	svc, mockStorage := newService(t)
	mockStorage.On("ListTransactionsByUserID", mock.Anything, "user1").Return([]models.Transaction{
		{Id: "t1", UserId: "user1", Amount: 1000, Type: models.TxSystem},
		{Id: "t2", UserId: "user1", Amount: -400, Type: models.TxPurchase},
	}, nil)

	stats, err := svc.Stats(context.Background(), "user1")

	assert.NoError(t, err)
	assert.Equal(t, int64(1000), stats.TotalEarned)
	assert.Equal(t, int64(400), stats.TotalSpent)
	assert.Equal(t, 1, stats.CountByType[models.TxSystem])
}
