package models

import "time"

// Message is an immutable direct message between two users.
type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Counterparty returns the participant of m that is not userID.
func (m Message) Counterparty(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// LastMessage is the preview carried by a conversation summary.
type LastMessage struct {
	Text      string    `json:"text"`
	SenderID  string    `json:"sender_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSummary describes the latest exchange with one counterparty.
// UnreadCount is always zero: messages carry no read state.
type ConversationSummary struct {
	OtherUser   UserRef     `json:"other_user"`
	LastMessage LastMessage `json:"last_message"`
	UnreadCount int         `json:"unread_count"`
}

// Push event types sent over live connections.
const (
	EventMessage      = "message"
	EventNotification = "notification"
	EventRegistered   = "registered"
	EventError        = "error"
)

// PushEvent is the envelope written to a websocket connection.
type PushEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
