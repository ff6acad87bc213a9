// Package api defines the request and response types exposed over HTTP.
// Handlers decode into these and use pkg/mapping to convert to and from the
// domain models.
package api

import "time"

// NewTransaction is the request body for posting a raw transaction.
// Amount and Type are pointers so that absence can be distinguished from a
// zero value and rejected.
type NewTransaction struct {
	Amount      *int64  `json:"amount"`
	Type        *string `json:"type"`
	Description string  `json:"description,omitempty"`
}

// Transaction is the wire representation of a points transaction.
type Transaction struct {
	Id          string    `json:"id"`
	UserId      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Wallet is the derived view of a user's points balance.
type Wallet struct {
	UserId           string `json:"user_id"`
	Balance          int64  `json:"balance"`
	TransactionCount int    `json:"transaction_count"`
}

// AmountRequest is the body for deposit, withdraw and daily-reward calls.
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// PurchaseRequest is the body for spending points on an item.
type PurchaseRequest struct {
	Amount int64  `json:"amount"`
	Item   string `json:"item"`
}

// TransferRequest is the body for transfers and gifts between users.
type TransferRequest struct {
	ToUserId string `json:"to_user_id"`
	Amount   int64  `json:"amount"`
}

// ExchangeRequest is the body for exchanging points for a product.
type ExchangeRequest struct {
	Cost    int64  `json:"cost"`
	Product string `json:"product"`
}

// DartThrowRequest carries the player-chosen position for a dart throw.
type DartThrowRequest struct {
	Position float64 `json:"position"`
}

// RewardResult reports the outcome of a mini-game play.
type RewardResult struct {
	Game        string `json:"game"`
	Reward      int64  `json:"reward"`
	NewBalance  int64  `json:"new_balance"`
	Description string `json:"description"`
}

// Profile is the wire representation of a user profile.
type Profile struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Points   int64  `json:"points"`
	VipLevel int    `json:"vip_level"`
	Version  int64  `json:"version"`
}

// SyncStatus is the wire representation of a user's sync state.
type SyncStatus struct {
	UserId      string    `json:"user_id"`
	IsOnline    bool      `json:"is_online"`
	LastSyncAt  time.Time `json:"last_sync_at"`
	SyncVersion int64     `json:"sync_version"`
}

// NewUser is the admin request body for creating a user.
type NewUser struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
	VipLevel int    `json:"vip_level,omitempty"`
}

// NewAnnouncement is the admin request body for creating an announcement.
type NewAnnouncement struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewTicket is the request body for opening a support ticket.
type NewTicket struct {
	UserId  string `json:"user_id"`
	Message string `json:"message"`
}

// TicketResponse is the admin request body for answering a ticket.
type TicketResponse struct {
	Response string `json:"response"`
	Resolved bool   `json:"resolved"`
}

// Ticket is the wire representation of a support ticket.
type Ticket struct {
	Id            string    `json:"id"`
	UserId        string    `json:"user_id"`
	Message       string    `json:"message"`
	AdminResponse string    `json:"admin_response,omitempty"`
	Resolved      bool      `json:"resolved"`
	CreatedAt     time.Time `json:"created_at"`
}
