package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/observability"
	"trade-service/internal/repositories"
)

// TradeService drives the trade lifecycle.
type TradeService struct {
	trades        repositories.TradeRepository
	items         repositories.ItemRepository
	users         repositories.UserRepository
	notifications *NotificationService
	publisher     Publisher
	now           func() time.Time
}

// NewTradeService builds a TradeService. publisher may be nil.
func NewTradeService(trades repositories.TradeRepository, items repositories.ItemRepository, users repositories.UserRepository, notifications *NotificationService, publisher Publisher) *TradeService {
	return &TradeService{
		trades:        trades,
		items:         items,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		now:           utcNow,
	}
}

// CreateTrade offers offeredItemID in exchange for targetItemID and notifies
// the target owner. If the notification cannot be stored the trade is removed
// and the error returned.
func (s *TradeService) CreateTrade(ctx context.Context, offeredItemID, targetItemID, offeringUserID string) (trade models.Trade, err error) {
	ctx, span := startSpan(ctx, "TradeService.CreateTrade")
	defer func() { endSpan(span, err) }()

	if err := required(param{"offered item", offeredItemID}, param{"target item", targetItemID}, param{"offering user", offeringUserID}); err != nil {
		return models.Trade{}, err
	}

	offered, err := s.items.GetItem(ctx, offeredItemID)
	if err != nil {
		return models.Trade{}, err
	}
	target, err := s.items.GetItem(ctx, targetItemID)
	if err != nil {
		return models.Trade{}, err
	}
	if offered.OwnerID != offeringUserID {
		return models.Trade{}, apperr.Validation("item %s is not owned by %s", offered.ID, offeringUserID)
	}
	if offered.OwnerID == target.OwnerID {
		return models.Trade{}, apperr.Validation("items %s and %s have the same owner", offered.ID, target.ID)
	}
	offerer, err := s.users.GetUser(ctx, offeringUserID)
	if err != nil {
		return models.Trade{}, err
	}

	now := s.now()
	trade = models.Trade{
		ID:            uuid.NewString(),
		OfferedItemID: offered.ID,
		TargetItemID:  target.ID,
		OfferedBy:     offeringUserID,
		TargetOwner:   target.OwnerID,
		Status:        models.TradePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.trades.CreateTrade(ctx, trade); err != nil {
		return models.Trade{}, err
	}

	tradeID := trade.ID
	_, err = s.notifications.Create(ctx, NewNotification{
		RecipientID: trade.TargetOwner,
		SenderID:    offeringUserID,
		Kind:        models.KindTradeOffer,
		Message:     fmt.Sprintf("%s wants to trade their %q for your %q", offerer.Username, offered.Name, target.Name),
		TradeID:     &tradeID,
	})
	if err != nil {
		if delErr := s.trades.DeleteTrade(context.WithoutCancel(ctx), trade.ID); delErr != nil {
			log.Printf("trade: compensation failed trade_id=%s: %v", trade.ID, delErr)
		}
		return models.Trade{}, fmt.Errorf("notify trade offer: %w", err)
	}

	observability.IncTradeTransition(string(trade.Status))
	publish(ctx, s.publisher, EventTradeCreated, trade)
	return trade, nil
}

// RespondToTrade applies decision to a pending trade.
func (s *TradeService) RespondToTrade(ctx context.Context, tradeID string, decision models.TradeDecision) (models.Trade, error) {
	if err := required(param{"trade id", tradeID}); err != nil {
		return models.Trade{}, err
	}
	trade, err := s.trades.GetTrade(ctx, tradeID)
	if err != nil {
		return models.Trade{}, err
	}
	return s.respond(ctx, trade, decision)
}

// RespondAsOwner is RespondToTrade restricted to the trade's target owner.
func (s *TradeService) RespondAsOwner(ctx context.Context, tradeID, userID string, decision models.TradeDecision) (models.Trade, error) {
	if err := required(param{"trade id", tradeID}, param{"user", userID}); err != nil {
		return models.Trade{}, err
	}
	trade, err := s.trades.GetTrade(ctx, tradeID)
	if err != nil {
		return models.Trade{}, err
	}
	if trade.TargetOwner != userID {
		return models.Trade{}, apperr.Forbidden("trade %s is not addressed to %s", tradeID, userID)
	}
	return s.respond(ctx, trade, decision)
}

// respond moves the trade and rewrites its notification. The notification
// rewrite is best effort once the new status is durable.
func (s *TradeService) respond(ctx context.Context, trade models.Trade, decision models.TradeDecision) (updated models.Trade, err error) {
	ctx, span := startSpan(ctx, "TradeService.RespondToTrade")
	defer func() { endSpan(span, err) }()

	next, err := decision.Status()
	if err != nil {
		return models.Trade{}, err
	}
	if _, err := trade.Status.Transition(next); err != nil {
		return models.Trade{}, err
	}
	updated, err = s.trades.UpdateStatus(ctx, trade.ID, trade.Status, next)
	if err != nil {
		return models.Trade{}, err
	}
	observability.IncTradeTransition(string(next))

	if _, _, err := s.notifications.RewriteKindByTrade(ctx, trade.ID, decision.NotificationKind()); err != nil {
		log.Printf("trade: notification rewrite failed trade_id=%s kind=%s: %v", trade.ID, decision.NotificationKind(), err)
	}

	event := EventTradeAccepted
	if next == models.TradeRejected {
		event = EventTradeRejected
	}
	publish(ctx, s.publisher, event, updated)
	return updated, nil
}

// ListTrades returns the trades the user offered or is asked to decide.
func (s *TradeService) ListTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	if err := required(param{"user", userID}); err != nil {
		return nil, err
	}
	return s.trades.ListTradesForUser(ctx, userID)
}
