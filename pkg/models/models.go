package models

import (
	"time"
)

// Role defines the access level of a user.
type Role string

const (
	RoleRegular Role = "regular"
	RoleVip     Role = "vip"
	RoleAdmin   Role = "admin"
)

// TransactionType classifies a points transaction.
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
	TxPurchase   TransactionType = "purchase"
	TxRefund     TransactionType = "refund"
	TxReward     TransactionType = "reward"
	TxTransfer   TransactionType = "transfer"
	TxGift       TransactionType = "gift"
	TxDaily      TransactionType = "daily"
	TxExchange   TransactionType = "exchange"
	TxSystem     TransactionType = "system"
	TxVip        TransactionType = "vip"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxPurchase, TxRefund, TxReward,
		TxTransfer, TxGift, TxDaily, TxExchange, TxSystem, TxVip:
		return true
	}
	return false
}

// Transaction represents the internal domain model for a single
// points-affecting transaction. It includes dynamodbav tags for marshalling.
type Transaction struct {
	Id          string          `dynamodbav:"id"`
	UserId      string          `dynamodbav:"user_id"`
	Amount      int64           `dynamodbav:"amount"`
	Type        TransactionType `dynamodbav:"transaction_type"`
	Description string          `dynamodbav:"description"`
	CreatedBy   string          `dynamodbav:"created_by,omitempty"`
	CreatedAt   time.Time       `dynamodbav:"created_at"`
}

// Profile is the server-authoritative copy of a user's profile.
// Version is bumped on every accepted write and checked by the store
// before overwriting.
type Profile struct {
	Id        string    `json:"id" dynamodbav:"id"`
	Username  string    `json:"username" dynamodbav:"username"`
	Role      Role      `json:"role" dynamodbav:"role"`
	Points    int64     `json:"points" dynamodbav:"points"`
	VipLevel  int       `json:"vip_level" dynamodbav:"vip_level"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// SyncStatus tracks the last successful push for a user.
type SyncStatus struct {
	UserId      string    `dynamodbav:"user_id"`
	IsOnline    bool      `dynamodbav:"is_online"`
	LastSyncAt  time.Time `dynamodbav:"last_sync_at"`
	SyncVersion int64     `dynamodbav:"sync_version"`
}

// SupportTicket is a customer support message with an optional admin response.
type SupportTicket struct {
	Id            string    `dynamodbav:"id"`
	UserId        string    `dynamodbav:"user_id"`
	Message       string    `dynamodbav:"message"`
	AdminResponse string    `dynamodbav:"admin_response,omitempty"`
	Resolved      bool      `dynamodbav:"resolved"`
	CreatedAt     time.Time `dynamodbav:"created_at"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
}

// Announcement is an admin-authored broadcast shown to all users.
type Announcement struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Connection records a live websocket connection and the user behind it.
type Connection struct {
	ConnectionId string    `dynamodbav:"connection_id"`
	UserId       string    `dynamodbav:"user_id"`
	ConnectedAt  time.Time `dynamodbav:"connected_at"`
}

// Novel is a catalog entry mapped from the external book-metadata API.
// Rating, views, likes and chapter count are synthesized locally since the
// upstream API carries no such data.
type Novel struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	CoverURL string  `json:"cover_url"`
	Subject  string  `json:"subject"`
	Rating   float64 `json:"rating"`
	Views    int     `json:"views"`
	Likes    int     `json:"likes"`
	Chapters int     `json:"chapters"`
}

// WeatherReport is the flattened view of one location from the weather API.
type WeatherReport struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Alert       string  `json:"alert,omitempty"`
}
