package services

import (
	"context"
	"fmt"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/repositories"
)

// PartnerService handles partner requests, which travel as notifications.
type PartnerService struct {
	users         repositories.UserRepository
	notifications *NotificationService
	publisher     Publisher
}

// NewPartnerService builds a PartnerService. publisher may be nil.
func NewPartnerService(users repositories.UserRepository, notifications *NotificationService, publisher Publisher) *PartnerService {
	return &PartnerService{users: users, notifications: notifications, publisher: publisher}
}

// PartnerLink is the outcome of an accepted request.
type PartnerLink struct {
	Sender    models.User `json:"sender"`
	Recipient models.User `json:"recipient"`
}

// SendRequest asks recipientID to become senderID's partner.
func (s *PartnerService) SendRequest(ctx context.Context, senderID, recipientID string) (models.Notification, error) {
	if err := required(param{"sender", senderID}, param{"recipient", recipientID}); err != nil {
		return models.Notification{}, err
	}
	if senderID == recipientID {
		return models.Notification{}, apperr.Validation("cannot partner with yourself")
	}

	sender, err := s.users.GetUser(ctx, senderID)
	if err != nil {
		return models.Notification{}, err
	}
	if _, err := s.users.GetUser(ctx, recipientID); err != nil {
		return models.Notification{}, err
	}
	linked, err := s.users.ArePartners(ctx, senderID, recipientID)
	if err != nil {
		return models.Notification{}, err
	}
	if linked {
		return models.Notification{}, apperr.InvalidState("%s and %s are already partners", senderID, recipientID)
	}

	return s.notifications.Create(ctx, NewNotification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        models.KindPartnerRequest,
		Message:     fmt.Sprintf("%s wants to be your trading partner", sender.Username),
	})
}

// SendRequestByContact resolves the recipient by contact key, then sends the request.
func (s *PartnerService) SendRequestByContact(ctx context.Context, senderID, email string) (models.Notification, error) {
	if err := required(param{"recipient email", email}); err != nil {
		return models.Notification{}, err
	}
	recipient, err := s.users.FindUserByContactKey(ctx, email)
	if err != nil {
		return models.Notification{}, err
	}
	return s.SendRequest(ctx, senderID, recipient.ID)
}

// Accept links both users and consumes the request. The link is written in
// both directions atomically and is idempotent, so retrying after a failed
// delete converges.
func (s *PartnerService) Accept(ctx context.Context, notificationID, userID string) (link PartnerLink, err error) {
	ctx, span := startSpan(ctx, "PartnerService.Accept")
	defer func() { endSpan(span, err) }()

	n, err := s.request(ctx, notificationID, userID)
	if err != nil {
		return PartnerLink{}, err
	}

	sender, err := s.users.GetUser(ctx, n.SenderID)
	if err != nil {
		return PartnerLink{}, err
	}
	recipient, err := s.users.GetUser(ctx, n.RecipientID)
	if err != nil {
		return PartnerLink{}, err
	}
	if err := s.users.AddPartners(ctx, sender.ID, recipient.ID); err != nil {
		return PartnerLink{}, err
	}
	sender.AddPartner(recipient.ID)
	recipient.AddPartner(sender.ID)

	if err := s.notifications.Delete(ctx, n.ID); err != nil {
		return PartnerLink{}, err
	}

	publish(ctx, s.publisher, EventPartnerLinked, map[string]string{
		"sender_id":    sender.ID,
		"recipient_id": recipient.ID,
	})
	return PartnerLink{Sender: sender, Recipient: recipient}, nil
}

// Reject consumes the request without linking anyone.
func (s *PartnerService) Reject(ctx context.Context, notificationID, userID string) error {
	n, err := s.request(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	return s.notifications.Delete(ctx, n.ID)
}

func (s *PartnerService) request(ctx context.Context, notificationID, userID string) (models.Notification, error) {
	if err := required(param{"notification id", notificationID}, param{"user", userID}); err != nil {
		return models.Notification{}, err
	}
	n, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return models.Notification{}, err
	}
	if n.Kind != models.KindPartnerRequest {
		return models.Notification{}, apperr.InvalidState("notification %s is not a partner request", n.ID)
	}
	if n.RecipientID != userID {
		return models.Notification{}, apperr.Forbidden("partner request %s is not addressed to %s", n.ID, userID)
	}
	return n, nil
}
