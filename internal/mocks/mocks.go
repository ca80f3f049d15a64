package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trade-service/internal/models"
	"trade-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FindUserByContactKey(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ArePartners(ctx context.Context, userID string, partnerID string) (bool, error) {
	args := m.Called(ctx, userID, partnerID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) AddPartners(ctx context.Context, userID string, partnerID string) error {
	args := m.Called(ctx, userID, partnerID)
	return args.Error(0)
}

type ItemRepositoryMock struct {
	mock.Mock
}

func (m *ItemRepositoryMock) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	args := m.Called(ctx, itemID)
	var item models.Item
	if val := args.Get(0); val != nil {
		item = val.(models.Item)
	}
	return item, args.Error(1)
}

func (m *ItemRepositoryMock) ToggleStar(ctx context.Context, itemID string, userID string) (models.Item, error) {
	args := m.Called(ctx, itemID, userID)
	var item models.Item
	if val := args.Get(0); val != nil {
		item = val.(models.Item)
	}
	return item, args.Error(1)
}

type TradeRepositoryMock struct {
	mock.Mock
}

func (m *TradeRepositoryMock) CreateTrade(ctx context.Context, trade models.Trade) error {
	args := m.Called(ctx, trade)
	return args.Error(0)
}

func (m *TradeRepositoryMock) GetTrade(ctx context.Context, tradeID string) (models.Trade, error) {
	args := m.Called(ctx, tradeID)
	var trade models.Trade
	if val := args.Get(0); val != nil {
		trade = val.(models.Trade)
	}
	return trade, args.Error(1)
}

func (m *TradeRepositoryMock) UpdateStatus(ctx context.Context, tradeID string, from, to models.TradeStatus) (models.Trade, error) {
	args := m.Called(ctx, tradeID, from, to)
	var trade models.Trade
	if val := args.Get(0); val != nil {
		trade = val.(models.Trade)
	}
	return trade, args.Error(1)
}

func (m *TradeRepositoryMock) DeleteTrade(ctx context.Context, tradeID string) error {
	args := m.Called(ctx, tradeID)
	return args.Error(0)
}

func (m *TradeRepositoryMock) ListTradesForUser(ctx context.Context, userID string) ([]models.Trade, error) {
	args := m.Called(ctx, userID)
	var trades []models.Trade
	if val := args.Get(0); val != nil {
		trades = val.([]models.Trade)
	}
	return trades, args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, n models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) GetNotification(ctx context.Context, id string) (models.Notification, error) {
	args := m.Called(ctx, id)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) ListForUser(ctx context.Context, userID string, kinds []models.NotificationKind, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, kinds, limit)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	args := m.Called(ctx, id)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) RewriteKindByTrade(ctx context.Context, tradeID string, kind models.NotificationKind) (models.Notification, bool, error) {
	args := m.Called(ctx, tradeID, kind)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Bool(1), args.Error(2)
}

func (m *NotificationRepositoryMock) DeleteNotification(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) ListMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessagesBetween(ctx context.Context, userID string, otherID string) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

var (
	_ repositories.UserRepository         = (*UserRepositoryMock)(nil)
	_ repositories.ItemRepository         = (*ItemRepositoryMock)(nil)
	_ repositories.TradeRepository        = (*TradeRepositoryMock)(nil)
	_ repositories.NotificationRepository = (*NotificationRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
)
