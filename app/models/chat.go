package models

import "time"

// ChatContext identifies the counterpart of the open chat overlay.
// At most one exists per device.
type ChatContext struct {
	MerchantID string        `json:"merchant_id"`
	BuyerName  string        `json:"buyer_name,omitempty"`
	Post       *Post         `json:"post,omitempty"`
	OpenedAt   time.Time     `json:"opened_at"`
	Messages   []ChatMessage `json:"messages"`
}

// Sender marks which side of a chat wrote a message.
type Sender string

const (
	SenderMe    Sender = "me"
	SenderOther Sender = "other"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}
