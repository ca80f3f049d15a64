package rabbitmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-service/internal/observability"
	"trade-service/internal/telemetry"
)

func TestNewPublisherWithoutURLIsNoop(t *testing.T) {
	p := NewPublisher("", "trade.events")
	assert.Equal(t, "noop", PublisherMode(p))
	assert.Equal(t, "empty amqp url", PublisherNoopReason(p))

	ctx := context.Background()
	require.NoError(t, p.Publish(ctx, "trade.created", observability.NewDomainEvent("trade.created", nil)))
	require.NoError(t, p.Publish(ctx, "audit", telemetry.AuditEnvelope{EventType: "audit_log"}))
	require.NoError(t, p.Publish(ctx, "other", map[string]string{}))
	require.NoError(t, p.Close())
}

func TestPublisherModeUnknown(t *testing.T) {
	assert.Equal(t, "unknown", PublisherMode(nil))
	assert.Equal(t, "", PublisherNoopReason(nil))
}
