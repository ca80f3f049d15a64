package observability

import (
	"context"
	"log"
)

// Publisher is satisfied by the rabbitmq publisher.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

var defaultPublisher Publisher

// SetPublisher installs the publisher used for websocket lifecycle events.
func SetPublisher(publisher Publisher) {
	defaultPublisher = publisher
}

// PublishEvent sends an event through the installed publisher. Without one it
// is a no-op.
func PublishEvent(ctx context.Context, routingKey string, event EventEnvelope) error {
	if defaultPublisher == nil {
		return nil
	}
	return Publish(ctx, defaultPublisher, routingKey, event)
}

// Publish sends event through p, counting and logging failures. A nil p is a no-op.
func Publish(ctx context.Context, p Publisher, routingKey string, event EventEnvelope) error {
	if p == nil {
		return nil
	}
	err := p.Publish(ctx, routingKey, event)
	if err != nil {
		IncAMQPPublishError()
		log.Printf("event publish failed routing_key=%s event=%s: %v", routingKey, event.EventName, err)
	}
	return err
}
