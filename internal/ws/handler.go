package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"trade-service/internal/models"
	"trade-service/internal/observability"
	"trade-service/internal/presence"
)

const routingKey = "ws_events.presence"

// Inbound frame types.
const (
	frameRegister    = "register"
	frameSendMessage = "send_message"
)

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// MessageSender is the message delivery entry point used by send_message frames.
type MessageSender interface {
	SendMessage(ctx context.Context, senderID, receiverID, text string) (models.Message, error)
}

type inboundFrame struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
}

// Handler upgrades authenticated requests and owns the presence entries of the
// connections it accepts.
type Handler struct {
	registry *presence.Registry
	messages MessageSender
	auth     TokenValidator
}

// NewHandler builds a Handler.
func NewHandler(registry *presence.Registry, messages MessageSender, auth TokenValidator) *Handler {
	return &Handler{registry: registry, messages: messages, auth: auth}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates, upgrades and serves one connection until it closes.
func (h *Handler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("trade-service/ws").Start(c.Request.Context(), "ws.handshake")
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		token = c.Query("token")
	}
	userID, err := h.auth.ValidateToken(ctx, token)
	if err != nil || userID == "" {
		span.End()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.End()
		return
	}
	info := ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	span.End()

	client := newClient(conn, info)
	eventCtx := context.WithoutCancel(ctx)
	observability.IncWSActive()
	h.lifecycle(eventCtx, "ws_connect", info, "")

	go client.writePump()
	h.register(eventCtx, client)

	reason := client.readPump(func(frame []byte) {
		h.handleFrame(c.Request.Context(), client, frame)
	})

	client.close()
	if _, offline := h.registry.Unregister(client.ID()); offline {
		observability.IncWSEvent("ws_offline")
	}
	observability.DecWSActive()
	h.lifecycle(eventCtx, "ws_disconnect", info, reason)
}

func (h *Handler) register(ctx context.Context, client *Client) {
	h.registry.Register(client.UserID(), client)
	_ = client.Send(models.EventRegistered, gin.H{"user_id": client.UserID(), "conn_id": client.ID()})
	h.lifecycle(ctx, "ws_register", client.info, "")
}

func (h *Handler) handleFrame(ctx context.Context, client *Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		_ = client.Send(models.EventError, gin.H{"error": "malformed frame"})
		return
	}

	switch frame.Type {
	case frameRegister:
		h.register(context.WithoutCancel(ctx), client)
	case frameSendMessage:
		msg, err := h.messages.SendMessage(ctx, client.UserID(), frame.ReceiverID, frame.Text)
		if err != nil {
			_ = client.Send(models.EventError, gin.H{"error": err.Error()})
			return
		}
		_ = client.Send(models.EventMessage, msg)
	default:
		_ = client.Send(models.EventError, gin.H{"error": "unknown frame type " + frame.Type})
	}
}

func (h *Handler) lifecycle(ctx context.Context, event string, info ConnInfo, reason string) {
	observability.IncWSEvent(event)
	_ = observability.PublishEvent(ctx, routingKey, observability.EventEnvelope{
		EventType:  "ws_events",
		EventName:  event,
		OccurredAt: time.Now().UTC(),
		Headers:    observability.BuildHeaders(info.RequestID, info.TraceID),
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
