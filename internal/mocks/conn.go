package mocks

import (
	"github.com/stretchr/testify/mock"

	"trade-service/internal/presence"
)

// ConnMock is a live connection handle.
type ConnMock struct {
	mock.Mock
	ConnID string
}

func (m *ConnMock) ID() string {
	return m.ConnID
}

func (m *ConnMock) Send(event string, payload any) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

var _ presence.Conn = (*ConnMock)(nil)
