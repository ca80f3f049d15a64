package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-service/internal/models"
	"trade-service/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	// Emits a sample trade decision audit record so the audit pipeline can be
	// checked end to end without touching a real trade.
	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		decision := models.TradeDecision(c.DefaultQuery("decision", string(models.DecisionAccept)))
		if decision != models.DecisionAccept && decision != models.DecisionReject {
			c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be accept or reject"})
			return
		}
		fields := map[string]string{
			"trade_id": c.DefaultQuery("trade_id", "debug"),
			"decision": string(decision),
		}
		emitter.EmitFields(c.Request.Context(), "INFO", "audit test: trade "+string(decision), requestIDFromContext(c), userIDFromContext(c), fields)
		c.JSON(http.StatusOK, gin.H{"status": "ok", "fields": fields})
	})
}
