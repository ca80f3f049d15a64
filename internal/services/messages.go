package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/repositories"
)

// userLookups bounds concurrent user lookups while resolving display names.
const userLookups = 8

// MessageService is the message delivery engine and conversation index.
type MessageService struct {
	messages  repositories.MessageRepository
	users     repositories.UserRepository
	presence  Presence
	publisher Publisher
	now       func() time.Time
}

// NewMessageService builds a MessageService. publisher may be nil.
func NewMessageService(messages repositories.MessageRepository, users repositories.UserRepository, presence Presence, publisher Publisher) *MessageService {
	return &MessageService{
		messages:  messages,
		users:     users,
		presence:  presence,
		publisher: publisher,
		now:       utcNow,
	}
}

// SendMessage persists the message, then pushes it to the receiver if they are
// connected. A failed push does not fail the send.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID, text string) (msg models.Message, err error) {
	ctx, span := startSpan(ctx, "MessageService.SendMessage")
	defer func() { endSpan(span, err) }()

	if err := required(param{"sender", senderID}, param{"receiver", receiverID}, param{"text", text}); err != nil {
		return models.Message{}, err
	}

	msg = models.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  s.now(),
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return models.Message{}, err
	}

	push(s.presence, receiverID, models.EventMessage, msg)
	publish(ctx, s.publisher, EventMessageSent, msg)
	return msg, nil
}

// ListConversations returns one summary per counterparty, most recent activity first.
func (s *MessageService) ListConversations(ctx context.Context, userID string) (list []models.ConversationSummary, err error) {
	ctx, span := startSpan(ctx, "MessageService.ListConversations")
	defer func() { endSpan(span, err) }()

	if err := required(param{"user", userID}); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListMessagesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	list = buildConversations(userID, msgs)
	if err := s.resolveNames(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// History returns the messages exchanged by two users, oldest first.
func (s *MessageService) History(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	if err := required(param{"user", userID}, param{"other user", otherID}); err != nil {
		return nil, err
	}
	return s.messages.ListMessagesBetween(ctx, userID, otherID)
}

// resolveNames fills in counterparty display names. Users that no longer exist
// keep an empty name.
func (s *MessageService) resolveNames(ctx context.Context, list []models.ConversationSummary) error {
	if s.users == nil || len(list) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userLookups)
	for i := range list {
		g.Go(func() error {
			user, err := s.users.GetUser(gctx, list[i].OtherUser.ID)
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			list[i].OtherUser.Username = user.Username
			return nil
		})
	}
	return g.Wait()
}

// buildConversations groups a newest-first message scan by counterparty. Each
// counterparty keeps its first (newest) message and its first-seen position.
func buildConversations(userID string, msgs []models.Message) []models.ConversationSummary {
	seen := make(map[string]struct{}, len(msgs))
	list := []models.ConversationSummary{}
	for _, m := range msgs {
		other := m.Counterparty(userID)
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		list = append(list, models.ConversationSummary{
			OtherUser: models.UserRef{ID: other},
			LastMessage: models.LastMessage{
				Text:      m.Text,
				SenderID:  m.SenderID,
				CreatedAt: m.CreatedAt,
			},
		})
	}
	return list
}
