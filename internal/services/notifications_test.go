package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/services"
)

func TestCreateNotificationStoresAndPushes(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	conn := connect(f.registry, "bob", "c1")

	f.notifications.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.RecipientID == "bob" && n.SenderID == "alice" && n.Kind == models.KindPartnerRequest && !n.IsRead && n.ID != ""
	})).Return(nil).Once()
	conn.On("Send", models.EventNotification, mock.AnythingOfType("models.Notification")).Return(nil).Once()

	n, err := svc.Create(context.Background(), services.NewNotification{
		RecipientID: "bob",
		SenderID:    "alice",
		Kind:        models.KindPartnerRequest,
		Message:     "hello",
	})
	require.NoError(t, err)
	assert.Nil(t, n.TradeID)
	f.assertExpectations(t)
	conn.AssertExpectations(t)
}

func TestCreateNotificationValidation(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)

	cases := []services.NewNotification{
		{SenderID: "a", Kind: models.KindTradeOffer, Message: "m"},
		{RecipientID: "b", Kind: models.KindTradeOffer, Message: "m"},
		{RecipientID: "b", SenderID: "a", Kind: models.KindTradeOffer},
		{RecipientID: "b", SenderID: "a", Kind: "gossip", Message: "m"},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		require.ErrorIs(t, err, apperr.ErrValidation, "%+v", in)
	}
	f.notifications.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestListTradeNotificationsUsesTradeKindsAndLimit(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	want := []models.Notification{{ID: "n1", Kind: models.KindTradeOffer}}
	f.notifications.On("ListForUser", mock.Anything, "bob", models.TradeKinds, services.TradeFeedLimit).Return(want, nil).Once()
	f.notifications.On("ListForUser", mock.Anything, "bob", []models.NotificationKind(nil), 0).Return(want, nil).Once()

	got, err := svc.ListTradeNotifications(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = svc.ListForUser(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	f.assertExpectations(t)
}

func TestMarkReadAndDeleteNotFound(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	f.notifications.On("MarkRead", mock.Anything, "missing").Return(models.Notification{}, apperr.NotFound("notification", "missing")).Once()
	f.notifications.On("DeleteNotification", mock.Anything, "missing").Return(apperr.NotFound("notification", "missing")).Once()

	_, err := svc.MarkRead(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), "missing"), apperr.ErrNotFound)
	f.assertExpectations(t)
}

func TestRewriteKindByTradeWithoutNotificationIsNoop(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	f.notifications.On("RewriteKindByTrade", mock.Anything, "t1", models.KindTradeAccepted).Return(nil, false, nil).Once()

	_, found, err := svc.RewriteKindByTrade(context.Background(), "t1", models.KindTradeAccepted)
	require.NoError(t, err)
	assert.False(t, found)
	f.assertExpectations(t)
}

func TestRewriteKindByTradePushesUpdatedNotification(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	conn := connect(f.registry, "bob", "c1")
	rewritten := models.Notification{ID: "n1", RecipientID: "bob", Kind: models.KindTradeRejected}
	f.notifications.On("RewriteKindByTrade", mock.Anything, "t1", models.KindTradeRejected).Return(rewritten, true, nil).Once()
	conn.On("Send", models.EventNotification, rewritten).Return(nil).Once()

	n, found, err := svc.RewriteKindByTrade(context.Background(), "t1", models.KindTradeRejected)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rewritten, n)
	conn.AssertExpectations(t)
}

func TestListNotificationsPopulatesSenders(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	f.notifications.On("ListForUser", mock.Anything, "bob", []models.NotificationKind(nil), 0).Return([]models.Notification{
		{ID: "n3", SenderID: "alice", Kind: models.KindTradeOffer},
		{ID: "n2", SenderID: "ghost", Kind: models.KindPartnerRequest},
		{ID: "n1", SenderID: "alice", Kind: models.KindPartnerRequest},
	}, nil).Once()
	f.users.On("GetUser", mock.Anything, "alice").Return(models.User{ID: "alice", Username: "Alice", Email: "alice@example.com"}, nil).Once()
	f.users.On("GetUser", mock.Anything, "ghost").Return(models.User{}, apperr.NotFound("user", "ghost")).Once()

	list, err := svc.ListForUser(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, &models.UserRef{ID: "alice", Username: "Alice"}, list[0].Sender)
	assert.Nil(t, list[1].Sender)
	assert.Equal(t, &models.UserRef{ID: "alice", Username: "Alice"}, list[2].Sender)
	assert.NotSame(t, list[0].Sender, list[2].Sender)
	f.assertExpectations(t)
}

func TestListTradeNotificationsPopulatesSenders(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	f.notifications.On("ListForUser", mock.Anything, "bob", models.TradeKinds, services.TradeFeedLimit).
		Return([]models.Notification{{ID: "n1", SenderID: "alice", Kind: models.KindTradeOffer}}, nil).Once()
	f.users.On("GetUser", mock.Anything, "alice").Return(models.User{ID: "alice", Username: "Alice"}, nil).Once()

	list, err := svc.ListTradeNotifications(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0].Sender.Username)
	f.assertExpectations(t)
}

func TestListNotificationsSenderLookupFailure(t *testing.T) {
	f := newFixture()
	svc := services.NewNotificationService(f.notifications, f.users, f.registry)
	f.notifications.On("ListForUser", mock.Anything, "bob", []models.NotificationKind(nil), 0).
		Return([]models.Notification{{ID: "n1", SenderID: "alice"}}, nil).Once()
	f.users.On("GetUser", mock.Anything, "alice").Return(models.User{}, apperr.ErrStorage).Once()

	_, err := svc.ListForUser(context.Background(), "bob")
	require.ErrorIs(t, err, apperr.ErrStorage)
}
