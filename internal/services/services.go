// Package services implements the trading core: message delivery, the
// conversation index, the notification store, the trade lifecycle and the
// partner flow.
package services

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trade-service/internal/apperr"
	"trade-service/internal/observability"
	"trade-service/internal/presence"
)

var tracer = otel.Tracer("trade-service/services")

// Presence is the lookup side of the presence registry.
type Presence interface {
	Lookup(userID string) (presence.Conn, bool)
}

// Publisher receives domain events. A nil Publisher disables publishing.
type Publisher = observability.Publisher

// Domain event routing keys.
const (
	EventTradeCreated  = "trade.created"
	EventTradeAccepted = "trade.accepted"
	EventTradeRejected = "trade.rejected"
	EventMessageSent   = "message.sent"
	EventPartnerLinked = "partner.linked"
)

// push delivers payload to the user's live connection if there is one. Failure
// is logged and counted, never returned: persisted state is the fallback.
func push(p Presence, userID, event string, payload any) bool {
	if p == nil {
		return false
	}
	conn, ok := p.Lookup(userID)
	if !ok {
		observability.IncPush(event, "offline")
		return false
	}
	if err := conn.Send(event, payload); err != nil {
		observability.IncPush(event, "failed")
		log.Printf("push: event=%s user_id=%s conn_id=%s: %v", event, userID, conn.ID(), err)
		return false
	}
	observability.IncPush(event, "delivered")
	return true
}

func publish(ctx context.Context, p Publisher, name string, payload any) {
	_ = observability.Publish(ctx, p, name, observability.NewDomainEvent(name, payload))
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type param struct {
	name  string
	value string
}

// required fails with a validation error on the first empty param. Whitespace
// counts as present.
func required(params ...param) error {
	for _, p := range params {
		if p.value == "" {
			return apperr.Validation("%s is required", p.name)
		}
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
