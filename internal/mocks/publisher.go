package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trade-service/internal/observability"
)

// PublisherMock records events sent to the AMQP exchange.
type PublisherMock struct {
	mock.Mock
}

var _ observability.Publisher = (*PublisherMock)(nil)

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

// ExpectDomainEvent expects one domain event routed under its own name. A
// non-nil payload func must also accept the event payload.
func (m *PublisherMock) ExpectDomainEvent(name string, payload func(any) bool) *mock.Call {
	return m.On("Publish", mock.Anything, name, mock.MatchedBy(func(env observability.EventEnvelope) bool {
		if env.EventType != "domain_events" || env.EventName != name {
			return false
		}
		return payload == nil || payload(env.Payload)
	})).Return(nil).Once()
}
