package mapping

import (
	"github.com/chris/loyalty-points/pkg/api"
	"github.com/chris/loyalty-points/pkg/models"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:          tx.Id,
		UserId:      tx.UserId,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}

// ToApiTransactions converts a slice of domain transactions.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiWallet builds the derived wallet view for a user.
func ToApiWallet(userID string, balance int64, transactionCount int) *api.Wallet {
	return &api.Wallet{
		UserId:           userID,
		Balance:          balance,
		TransactionCount: transactionCount,
	}
}

// ToApiProfile converts a domain Profile model to an API Profile model.
func ToApiProfile(p *models.Profile) *api.Profile {
	return &api.Profile{
		Id:       p.Id,
		Username: p.Username,
		Role:     string(p.Role),
		Points:   p.Points,
		VipLevel: p.VipLevel,
		Version:  p.Version,
	}
}

// ToApiSyncStatus converts a domain SyncStatus model to an API model.
func ToApiSyncStatus(s *models.SyncStatus) *api.SyncStatus {
	return &api.SyncStatus{
		UserId:      s.UserId,
		IsOnline:    s.IsOnline,
		LastSyncAt:  s.LastSyncAt,
		SyncVersion: s.SyncVersion,
	}
}

// ToApiTicket converts a domain SupportTicket model to an API Ticket model.
func ToApiTicket(t *models.SupportTicket) *api.Ticket {
	return &api.Ticket{
		Id:            t.Id,
		UserId:        t.UserId,
		Message:       t.Message,
		AdminResponse: t.AdminResponse,
		Resolved:      t.Resolved,
		CreatedAt:     t.CreatedAt,
	}
}

// ToDomainUser converts an admin NewUser request to a domain Profile model.
func ToDomainUser(u *api.NewUser) *models.Profile {
	role := models.Role(u.Role)
	if u.Role == "" {
		role = models.RoleRegular
	}
	return &models.Profile{
		Id:       u.Id,
		Username: u.Username,
		Role:     role,
		VipLevel: u.VipLevel,
	}
}
