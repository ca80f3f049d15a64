package models

import "time"

// NotificationKind enumerates the addressed events a user can receive.
// Values are persisted verbatim; add new kinds, never remove one.
type NotificationKind string

const (
	KindPartnerRequest NotificationKind = "partner_request"
	KindTradeOffer     NotificationKind = "trade_offer"
	KindTradeAccepted  NotificationKind = "trade_accepted"
	KindTradeRejected  NotificationKind = "trade_rejected"
)

// TradeKinds are the kinds attached to a trade's event stream.
var TradeKinds = []NotificationKind{KindTradeOffer, KindTradeAccepted, KindTradeRejected}

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindPartnerRequest, KindTradeOffer, KindTradeAccepted, KindTradeRejected:
		return true
	}
	return false
}

// Notification is an event delivered to Recipient's inbox. For trade events
// Kind is rewritten in place as the trade moves, so there is one record per trade.
type Notification struct {
	ID          string           `db:"id" json:"id"`
	RecipientID string           `db:"recipient_id" json:"recipient_id"`
	SenderID    string           `db:"sender_id" json:"sender_id"`
	Kind        NotificationKind `db:"kind" json:"kind"`
	Message     string           `db:"message" json:"message"`
	TradeID     *string          `db:"trade_id" json:"trade_id,omitempty"`
	IsRead      bool             `db:"is_read" json:"is_read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`

	Sender *UserRef `db:"-" json:"sender,omitempty"`
}
