package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/storage"
	"github.com/google/uuid"
)

// ErrInvalidAmount is returned when an operation is called with a
// non-positive amount.
var ErrInvalidAmount = errors.New("amount must be positive")

// Service manages one wallet per user, loading persisted history on first
// touch and writing accepted transactions through the store. A transaction
// that is accepted locally but fails to persist is logged and left for the
// sync pass to repair; the local wallet remains the session's source of
// truth.
type Service struct {
	store  storage.TransactionStore
	logger *slog.Logger

	mu      sync.Mutex
	wallets map[string]*Wallet
}

// NewService creates a ledger service backed by the given transaction store.
func NewService(store storage.TransactionStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		logger:  logger,
		wallets: make(map[string]*Wallet),
	}
}

// walletLocked returns the cached wallet for a user, loading and replaying
// persisted history on first access. Callers must hold s.mu.
func (s *Service) walletLocked(ctx context.Context, userID string) (*Wallet, error) {
	if w, ok := s.wallets[userID]; ok {
		return w, nil
	}

	history, err := s.store.ListTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history for %s: %w", userID, err)
	}

	w := Replay(userID, history)
	s.wallets[userID] = w
	return w, nil
}

// Apply validates and records a transaction for a user. The sufficiency
// check happens inside Wallet.Append; Apply adds server-side fields,
// persists the accepted entry and returns it.
func (s *Service) Apply(ctx context.Context, userID string, amount int64, txType models.TransactionType, description string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.walletLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		Id:          uuid.New().String(),
		UserId:      userID,
		Amount:      amount,
		Type:        txType,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := w.Append(tx); err != nil {
		return nil, err
	}

	if _, err := s.store.CreateTransaction(ctx, &tx); err != nil {
		// The local wallet already accepted the entry. The divergence heals
		// on the next sync pass, which pushes the folded balance.
		s.logger.Error("transaction accepted but not persisted",
			"transaction_id", tx.Id, "user_id", userID, "error", err)
	}

	return &tx, nil
}

// Balance returns the user's current derived balance.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.walletLocked(ctx, userID)
	if err != nil {
		return 0, err
	}
	return w.Balance(), nil
}

// Transactions returns the user's transaction log, most recent first.
func (s *Service) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.walletLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return w.Transactions(), nil
}

// Stats returns summary statistics derived from the user's log.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.walletLocked(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return w.Stats(), nil
}

// Deposit credits points to a user.
func (s *Service) Deposit(ctx context.Context, userID string, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, amount, models.TxDeposit, description)
}

// Withdraw debits points from a user. Fails with ErrInsufficientPoints when
// the amount exceeds the balance.
func (s *Service) Withdraw(ctx context.Context, userID string, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, -amount, models.TxWithdrawal, description)
}

// Purchase spends points on an item.
func (s *Service) Purchase(ctx context.Context, userID string, amount int64, item string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, -amount, models.TxPurchase, fmt.Sprintf("Purchase: %s", item))
}

// Refund credits points back for a returned item.
func (s *Service) Refund(ctx context.Context, userID string, amount int64, item string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, amount, models.TxRefund, fmt.Sprintf("Refund: %s", item))
}

// Transfer moves points from one user to another. The debit is accepted
// first; a recipient-side failure after the debit is persisted is logged
// rather than unwound, matching the ledger's append-only contract.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64) (*models.Transaction, error) {
	return s.pairedMove(ctx, fromUserID, toUserID, amount, models.TxTransfer, "Transfer")
}

// Gift moves points from one user to another as a gift.
func (s *Service) Gift(ctx context.Context, fromUserID, toUserID string, amount int64) (*models.Transaction, error) {
	return s.pairedMove(ctx, fromUserID, toUserID, amount, models.TxGift, "Gift")
}

func (s *Service) pairedMove(ctx context.Context, fromUserID, toUserID string, amount int64, txType models.TransactionType, label string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot send points to yourself", ErrInvalidAmount)
	}

	debit, err := s.Apply(ctx, fromUserID, -amount, txType, fmt.Sprintf("%s to %s", label, toUserID))
	if err != nil {
		return nil, err
	}

	if _, err := s.Apply(ctx, toUserID, amount, txType, fmt.Sprintf("%s from %s", label, fromUserID)); err != nil {
		s.logger.Error("credit leg failed after debit was accepted",
			"from", fromUserID, "to", toUserID, "amount", amount, "error", err)
		return debit, fmt.Errorf("failed to credit recipient: %w", err)
	}

	return debit, nil
}

// DailyReward credits the daily login reward.
func (s *Service) DailyReward(ctx context.Context, userID string, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, amount, models.TxDaily, "Daily login reward")
}

// Exchange spends points on a catalog product.
func (s *Service) Exchange(ctx context.Context, userID string, cost int64, product string) (*models.Transaction, error) {
	if cost <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, -cost, models.TxExchange, fmt.Sprintf("Exchange: %s", product))
}

// GrantSystem credits a system-generated reward, e.g. a mini-game payout.
func (s *Service) GrantSystem(ctx context.Context, userID string, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, amount, models.TxSystem, description)
}

// GrantVip credits a VIP-exclusive reward, e.g. a scratch-card payout.
func (s *Service) GrantVip(ctx context.Context, userID string, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.Apply(ctx, userID, amount, models.TxVip, description)
}
