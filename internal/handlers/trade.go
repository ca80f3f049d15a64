package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-service/internal/models"
	"trade-service/internal/services"
	"trade-service/internal/telemetry"
)

// TradeHandler serves trade offers and their decisions.
type TradeHandler struct {
	trades        *services.TradeService
	notifications *services.NotificationService
	audit         *telemetry.AuditEmitter
}

// NewTradeHandler builds a TradeHandler. audit may be nil.
func NewTradeHandler(trades *services.TradeService, notifications *services.NotificationService, audit *telemetry.AuditEmitter) *TradeHandler {
	return &TradeHandler{trades: trades, notifications: notifications, audit: audit}
}

// CreateTrade offers one of the caller's items for another user's item.
func (h *TradeHandler) CreateTrade(c *gin.Context) {
	var req struct {
		OfferedItemID string `json:"offered_item_id" binding:"required"`
		TargetItemID  string `json:"target_item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.trades.CreateTrade(c.Request.Context(), req.OfferedItemID, req.TargetItemID, currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trade)
}

// ListTrades returns trades the caller offered or received.
func (h *TradeHandler) ListTrades(c *gin.Context) {
	trades, err := h.trades.ListTrades(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades})
}

// ListTradeNotifications returns the caller's recent trade notifications.
func (h *TradeHandler) ListTradeNotifications(c *gin.Context) {
	list, err := h.notifications.ListTradeNotifications(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *TradeHandler) AcceptTrade(c *gin.Context) {
	h.respond(c, models.DecisionAccept)
}

func (h *TradeHandler) RejectTrade(c *gin.Context) {
	h.respond(c, models.DecisionReject)
}

func (h *TradeHandler) respond(c *gin.Context, decision models.TradeDecision) {
	tradeID := c.Param("trade_id")
	trade, err := h.trades.RespondAsOwner(c.Request.Context(), tradeID, currentUserID(c), decision)
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.EmitFields(c.Request.Context(), "INFO", "trade "+string(trade.Status), requestIDFromContext(c), userIDFromContext(c), map[string]string{
		"trade_id": trade.ID,
		"decision": string(decision),
	})
	c.JSON(http.StatusOK, trade)
}
