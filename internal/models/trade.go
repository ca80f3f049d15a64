package models

import (
	"time"

	"trade-service/internal/apperr"
)

// TradeStatus is the persisted state of a trade offer.
type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeAccepted  TradeStatus = "accepted"
	TradeRejected  TradeStatus = "rejected"
	TradeCompleted TradeStatus = "completed"
)

// tradeTransitions lists every legal edge. Rejected and completed are terminal.
var tradeTransitions = map[TradeStatus][]TradeStatus{
	TradePending:  {TradeAccepted, TradeRejected},
	TradeAccepted: {TradeCompleted},
}

// Valid reports whether s is a known status.
func (s TradeStatus) Valid() bool {
	switch s {
	case TradePending, TradeAccepted, TradeRejected, TradeCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s TradeStatus) CanTransitionTo(next TradeStatus) bool {
	for _, to := range tradeTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Transition returns next if the edge s -> next is legal, or an ErrInvalidState.
func (s TradeStatus) Transition(next TradeStatus) (TradeStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, apperr.InvalidState("trade cannot move from %s to %s", s, next)
	}
	return next, nil
}

// TradeDecision is the target owner's answer to a pending offer.
type TradeDecision string

const (
	DecisionAccept TradeDecision = "accept"
	DecisionReject TradeDecision = "reject"
)

// Status returns the trade status a decision leads to.
func (d TradeDecision) Status() (TradeStatus, error) {
	switch d {
	case DecisionAccept:
		return TradeAccepted, nil
	case DecisionReject:
		return TradeRejected, nil
	}
	return "", apperr.Validation("unknown trade decision %q", string(d))
}

// NotificationKind returns the kind the trade's notification is rewritten to.
func (d TradeDecision) NotificationKind() NotificationKind {
	if d == DecisionAccept {
		return KindTradeAccepted
	}
	return KindTradeRejected
}

// Trade is an offer to exchange OfferedItemID for TargetItemID. TargetOwner is
// captured when the offer is made and never follows later ownership changes.
type Trade struct {
	ID            string      `db:"id" json:"id"`
	OfferedItemID string      `db:"offered_item_id" json:"offered_item_id"`
	TargetItemID  string      `db:"target_item_id" json:"target_item_id"`
	OfferedBy     string      `db:"offered_by" json:"offered_by"`
	TargetOwner   string      `db:"target_owner" json:"target_owner"`
	Status        TradeStatus `db:"status" json:"status"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}
