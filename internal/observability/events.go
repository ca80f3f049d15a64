package observability

import "time"

type EventEnvelope struct {
	EventType  string            `json:"event_type"`
	EventName  string            `json:"event_name"`
	OccurredAt time.Time         `json:"occurred_at"`
	Headers    map[string]string `json:"headers,omitempty"`
	Payload    interface{}       `json:"payload"`
}

// NewDomainEvent wraps a payload emitted by a core operation.
func NewDomainEvent(name string, payload interface{}) EventEnvelope {
	return EventEnvelope{
		EventType:  "domain_events",
		EventName:  name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
