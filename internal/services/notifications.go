package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/observability"
	"trade-service/internal/repositories"
)

// TradeFeedLimit caps the trade notifications feed.
const TradeFeedLimit = 20

// NewNotification is the input to NotificationService.Create.
type NewNotification struct {
	RecipientID string
	SenderID    string
	Kind        models.NotificationKind
	Message     string
	TradeID     *string
}

// NotificationService is the notification store.
type NotificationService struct {
	repo     repositories.NotificationRepository
	users    repositories.UserRepository
	presence Presence
	now      func() time.Time
}

// NewNotificationService builds a NotificationService. users populates senders
// on listings and may be nil.
func NewNotificationService(repo repositories.NotificationRepository, users repositories.UserRepository, presence Presence) *NotificationService {
	return &NotificationService{repo: repo, users: users, presence: presence, now: utcNow}
}

// Create stores a notification and pushes it to a connected recipient.
func (s *NotificationService) Create(ctx context.Context, in NewNotification) (n models.Notification, err error) {
	ctx, span := startSpan(ctx, "NotificationService.Create")
	defer func() { endSpan(span, err) }()

	if err := required(param{"recipient", in.RecipientID}, param{"sender", in.SenderID}, param{"message", in.Message}); err != nil {
		return models.Notification{}, err
	}
	if !in.Kind.Valid() {
		return models.Notification{}, apperr.Validation("unknown notification kind %q", string(in.Kind))
	}

	n = models.Notification{
		ID:          uuid.NewString(),
		RecipientID: in.RecipientID,
		SenderID:    in.SenderID,
		Kind:        in.Kind,
		Message:     in.Message,
		TradeID:     in.TradeID,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return models.Notification{}, err
	}
	observability.IncNotificationCreated(string(n.Kind))
	push(s.presence, n.RecipientID, models.EventNotification, n)
	return n, nil
}

// ListForUser returns every notification addressed to userID, newest first,
// with senders populated.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.list(ctx, userID, nil, 0)
}

// ListTradeNotifications returns the newest trade-related notifications for userID.
func (s *NotificationService) ListTradeNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.list(ctx, userID, models.TradeKinds, TradeFeedLimit)
}

func (s *NotificationService) list(ctx context.Context, userID string, kinds []models.NotificationKind, limit int) (list []models.Notification, err error) {
	ctx, span := startSpan(ctx, "NotificationService.List")
	defer func() { endSpan(span, err) }()

	if err := required(param{"user", userID}); err != nil {
		return nil, err
	}
	list, err = s.repo.ListForUser(ctx, userID, kinds, limit)
	if err != nil {
		return nil, err
	}
	if err := s.populateSenders(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// populateSenders resolves each distinct sender once. Senders that no longer
// exist stay nil.
func (s *NotificationService) populateSenders(ctx context.Context, list []models.Notification) error {
	if s.users == nil || len(list) == 0 {
		return nil
	}
	var senders []string
	bySender := make(map[string][]int)
	for i, n := range list {
		if n.SenderID == "" {
			continue
		}
		if _, ok := bySender[n.SenderID]; !ok {
			senders = append(senders, n.SenderID)
		}
		bySender[n.SenderID] = append(bySender[n.SenderID], i)
	}

	refs := make([]*models.UserRef, len(senders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userLookups)
	for i, id := range senders {
		g.Go(func() error {
			user, err := s.users.GetUser(gctx, id)
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			ref := user.Ref()
			refs[i] = &ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, id := range senders {
		if refs[i] == nil {
			continue
		}
		for _, idx := range bySender[id] {
			sender := *refs[i]
			list[idx].Sender = &sender
		}
	}
	return nil
}

func (s *NotificationService) Get(ctx context.Context, id string) (models.Notification, error) {
	if err := required(param{"notification id", id}); err != nil {
		return models.Notification{}, err
	}
	return s.repo.GetNotification(ctx, id)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	if err := required(param{"notification id", id}); err != nil {
		return models.Notification{}, err
	}
	return s.repo.MarkRead(ctx, id)
}

// RewriteKindByTrade moves the trade's notification to kind and flags it
// unread. A trade without a notification is left alone.
func (s *NotificationService) RewriteKindByTrade(ctx context.Context, tradeID string, kind models.NotificationKind) (n models.Notification, found bool, err error) {
	ctx, span := startSpan(ctx, "NotificationService.RewriteKindByTrade")
	defer func() { endSpan(span, err) }()

	if err := required(param{"trade id", tradeID}); err != nil {
		return models.Notification{}, false, err
	}
	if !kind.Valid() {
		return models.Notification{}, false, apperr.Validation("unknown notification kind %q", string(kind))
	}
	n, found, err = s.repo.RewriteKindByTrade(ctx, tradeID, kind)
	if err != nil || !found {
		return models.Notification{}, false, err
	}
	push(s.presence, n.RecipientID, models.EventNotification, n)
	return n, true, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := required(param{"notification id", id}); err != nil {
		return err
	}
	return s.repo.DeleteNotification(ctx, id)
}
