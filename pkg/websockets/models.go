package websockets

// MessageType defines the type of a websocket message.
type MessageType string

const (
	// MessageTypeWalletUpdate is for messages that update wallet balances.
	MessageTypeWalletUpdate MessageType = "walletUpdate"

	// MessageTypeProfileUpdate is for messages announcing a synced profile.
	MessageTypeProfileUpdate MessageType = "profileUpdate"

	// MessageTypePresence is for messages announcing users going on/offline.
	MessageTypePresence MessageType = "presence"
)

// Message represents a generic websocket message.
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// WalletUpdatePayload is the payload for a walletUpdate message.
type WalletUpdatePayload struct {
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	Change        int64  `json:"change"`
	NewBalance    int64  `json:"new_balance"`
}

// ProfileUpdatePayload is the payload for a profileUpdate message.
type ProfileUpdatePayload struct {
	UserID      string `json:"user_id"`
	Points      int64  `json:"points"`
	VipLevel    int    `json:"vip_level"`
	SyncVersion int64  `json:"sync_version"`
}

// PresencePayload is the payload for a presence message.
type PresencePayload struct {
	UserID string `json:"user_id"`
	Online bool   `json:"online"`
}
