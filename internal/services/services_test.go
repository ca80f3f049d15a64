package services_test

import (
	"testing"

	"trade-service/internal/mocks"
	"trade-service/internal/presence"
)

type fixture struct {
	users         *mocks.UserRepositoryMock
	items         *mocks.ItemRepositoryMock
	trades        *mocks.TradeRepositoryMock
	notifications *mocks.NotificationRepositoryMock
	messages      *mocks.MessageRepositoryMock
	publisher     *mocks.PublisherMock
	registry      *presence.Registry
}

func newFixture() *fixture {
	return &fixture{
		users:         new(mocks.UserRepositoryMock),
		items:         new(mocks.ItemRepositoryMock),
		trades:        new(mocks.TradeRepositoryMock),
		notifications: new(mocks.NotificationRepositoryMock),
		messages:      new(mocks.MessageRepositoryMock),
		publisher:     new(mocks.PublisherMock),
		registry:      presence.NewRegistry(),
	}
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.users.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.trades.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	f.messages.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func connect(reg *presence.Registry, userID, connID string) *mocks.ConnMock {
	conn := &mocks.ConnMock{ConnID: connID}
	reg.Register(userID, conn)
	return conn
}
