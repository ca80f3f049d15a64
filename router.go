package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"trade-service/internal/handlers"
	"trade-service/internal/middleware"
	"trade-service/internal/observability"
	"trade-service/internal/telemetry"
	"trade-service/internal/ws"
)

type routes struct {
	serviceName   string
	auth          gin.HandlerFunc
	trades        *handlers.TradeHandler
	messages      *handlers.MessageHandler
	notifications *handlers.NotificationHandler
	items         *handlers.ItemHandler
	ws            *ws.Handler
	ping          func(context.Context) error
	audit         *telemetry.AuditEmitter
	debugRoutes   bool
}

func newRouter(r routes) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		middleware.RequestID(),
		otelgin.Middleware(r.serviceName),
		observability.HTTPMetricsMiddleware(),
	)

	router.GET("/healthz", healthz(r.ping))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", r.ws.Handle)

	api := router.Group("/", r.auth)

	api.POST("/trades", r.trades.CreateTrade)
	api.GET("/trades", r.trades.ListTrades)
	api.GET("/trades/notifications", r.trades.ListTradeNotifications)
	api.PUT("/trades/:trade_id/accept", r.trades.AcceptTrade)
	api.PUT("/trades/:trade_id/reject", r.trades.RejectTrade)

	api.POST("/messages", r.messages.SendMessage)
	api.GET("/messages/conversations", r.messages.ListConversations)
	api.GET("/messages/with/:user_id", r.messages.History)

	api.GET("/notifications", r.notifications.ListNotifications)
	api.PUT("/notifications/:id/read", r.notifications.MarkRead)
	api.PUT("/notifications/:id/accept", r.notifications.AcceptPartnerRequest)
	api.DELETE("/notifications/:id", r.notifications.DeleteNotification)

	api.POST("/partners/requests", r.notifications.SendPartnerRequest)
	api.DELETE("/partners/requests/:id", r.notifications.RejectPartnerRequest)

	api.POST("/items/:item_id/star", r.items.ToggleStar)

	handlers.RegisterDebugRoutes(router, r.audit, r.debugRoutes)
	return router
}

func healthz(ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
