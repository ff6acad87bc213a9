package ledger

import (
	"testing"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/stretchr/testify/assert"
)

func tx(amount int64, txType models.TransactionType) models.Transaction {
	return models.Transaction{
		Id:        "tx-" + string(txType),
		UserId:    "user1",
		Amount:    amount,
		Type:      txType,
		CreatedAt: time.Now().UTC(),
	}
}

func TestWalletAppend(t *testing.T) {
	t.Run("Deposit Then Withdraw", func(t *testing.T) {
		w := NewWallet("user1")

		assert.NoError(t, w.Append(tx(100000, models.TxDeposit)))
		assert.Equal(t, int64(100000), w.Balance())

		assert.NoError(t, w.Append(tx(-30000, models.TxWithdrawal)))
		assert.Equal(t, int64(70000), w.Balance())
		assert.Len(t, w.Transactions(), 2)
	})

	t.Run("Missing Amount Rejected", func(t *testing.T) {
		w := NewWallet("user1")

		err := w.Append(tx(0, models.TxDeposit))

		assert.ErrorIs(t, err, ErrMissingAmount)
		assert.Equal(t, int64(0), w.Balance())
		assert.Empty(t, w.Transactions())
	})

	t.Run("Unknown Type Rejected", func(t *testing.T) {
		w := NewWallet("user1")

		err := w.Append(tx(500, models.TransactionType("bogus")))

		assert.ErrorIs(t, err, ErrMissingType)
		assert.Empty(t, w.Transactions())
	})

	t.Run("Insufficient Balance Rejected", func(t *testing.T) {
		w := NewWallet("user1")
		assert.NoError(t, w.Append(tx(100, models.TxDeposit)))

		err := w.Append(tx(-101, models.TxWithdrawal))

		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, int64(100), w.Balance())
		assert.Len(t, w.Transactions(), 1)
	})

	t.Run("Debit To Exactly Zero Accepted", func(t *testing.T) {
		w := NewWallet("user1")
		assert.NoError(t, w.Append(tx(100, models.TxDeposit)))

		assert.NoError(t, w.Append(tx(-100, models.TxWithdrawal)))
		assert.Equal(t, int64(0), w.Balance())
	})

	t.Run("Most Recent First", func(t *testing.T) {
		w := NewWallet("user1")
		first := tx(100, models.TxDeposit)
		first.Id = "first"
		second := tx(200, models.TxDeposit)
		second.Id = "second"

		assert.NoError(t, w.Append(first))
		assert.NoError(t, w.Append(second))

		log := w.Transactions()
		assert.Equal(t, "second", log[0].Id)
		assert.Equal(t, "first", log[1].Id)
	})
}

func TestWalletBalanceIsSumOfLog(t *testing.T) {
	w := NewWallet("user1")
	amounts := []int64{100000, -30000, 5000, -2500, 777}
	for _, a := range amounts {
		typ := models.TxDeposit
		if a < 0 {
			typ = models.TxWithdrawal
		}
		assert.NoError(t, w.Append(tx(a, typ)))
	}

	var sum int64
	for _, entry := range w.Transactions() {
		sum += entry.Amount
	}
	assert.Equal(t, sum, w.Balance())
}

func TestReplay(t *testing.T) {
	history := []models.Transaction{
		tx(-30000, models.TxWithdrawal),
		tx(100000, models.TxDeposit),
	}

	w := Replay("user1", history)

	assert.Equal(t, int64(70000), w.Balance())
	assert.Len(t, w.Transactions(), 2)
	assert.Equal(t, "user1", w.UserID())
}

func TestWalletStats(t *testing.T) {
	w := NewWallet("user1")
	assert.NoError(t, w.Append(tx(1000, models.TxDeposit)))
	assert.NoError(t, w.Append(tx(500, models.TxSystem)))
	assert.NoError(t, w.Append(tx(-300, models.TxPurchase)))
	assert.NoError(t, w.Append(tx(200, models.TxSystem)))

	s := w.Stats()

	assert.Equal(t, int64(1700), s.TotalEarned)
	assert.Equal(t, int64(300), s.TotalSpent)
	assert.Equal(t, 2, s.CountByType[models.TxSystem])
	assert.Equal(t, 1, s.CountByType[models.TxDeposit])
	assert.Equal(t, 1, s.CountByType[models.TxPurchase])
}
