// Package ledger implements the points ledger: an append-only transaction
// log per user with a derived balance. All acceptance rules, including the
// sufficiency check for debits, live inside the accept path so no caller can
// bypass them.
package ledger

import (
	"errors"
	"fmt"

	"github.com/chris/loyalty-points/pkg/models"
)

// ErrMissingAmount is returned when a transaction carries no amount.
var ErrMissingAmount = errors.New("transaction amount is required")

// ErrMissingType is returned when a transaction carries no known type.
var ErrMissingType = errors.New("transaction type is missing or unknown")

// ErrInsufficientPoints is returned when a debit exceeds the current balance.
var ErrInsufficientPoints = errors.New("insufficient points")

// Wallet holds a user's in-memory transaction log and derived balance.
// The log is ordered most recent first and is never edited or truncated
// once an entry is accepted.
type Wallet struct {
	userID  string
	balance int64
	log     []models.Transaction
}

// NewWallet creates an empty wallet for a user.
func NewWallet(userID string) *Wallet {
	return &Wallet{userID: userID}
}

// Replay rebuilds a wallet from previously accepted transactions.
// The history is trusted: entries were validated when first accepted, so
// Replay folds the amounts without re-running the acceptance rules.
// History is expected most recent first, as returned by the store.
func Replay(userID string, history []models.Transaction) *Wallet {
	w := NewWallet(userID)
	w.log = append(w.log, history...)
	for _, tx := range history {
		w.balance += tx.Amount
	}
	return w
}

// Append validates and accepts a transaction. On acceptance the entry is
// prepended to the log and its amount added to the balance. The wallet is
// left untouched when any rule rejects the transaction.
func (w *Wallet) Append(tx models.Transaction) error {
	if tx.Amount == 0 {
		return ErrMissingAmount
	}
	if !tx.Type.Valid() {
		return ErrMissingType
	}
	if tx.Amount < 0 && -tx.Amount > w.balance {
		return fmt.Errorf("%w: balance %d, debit %d", ErrInsufficientPoints, w.balance, -tx.Amount)
	}

	w.log = append([]models.Transaction{tx}, w.log...)
	w.balance += tx.Amount
	return nil
}

// Balance returns the derived balance, always equal to the sum of all
// accepted transaction amounts.
func (w *Wallet) Balance() int64 {
	return w.balance
}

// UserID returns the owner of the wallet.
func (w *Wallet) UserID() string {
	return w.userID
}

// Transactions returns a copy of the log, most recent first.
func (w *Wallet) Transactions() []models.Transaction {
	out := make([]models.Transaction, len(w.log))
	copy(out, w.log)
	return out
}

// Stats summarizes the log. Play counts and totals are always derived from
// the transactions themselves, never kept as separate counters.
type Stats struct {
	TotalEarned int64
	TotalSpent  int64
	CountByType map[models.TransactionType]int
}

// Stats computes summary statistics over the current log.
func (w *Wallet) Stats() Stats {
	s := Stats{CountByType: make(map[models.TransactionType]int)}
	for _, tx := range w.log {
		if tx.Amount > 0 {
			s.TotalEarned += tx.Amount
		} else {
			s.TotalSpent += -tx.Amount
		}
		s.CountByType[tx.Type]++
	}
	return s
}
