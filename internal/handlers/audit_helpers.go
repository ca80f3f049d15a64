package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trade-service/internal/middleware"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func userIDFromContext(c *gin.Context) *string {
	if userID := currentUserID(c); userID != "" {
		return &userID
	}
	if header := c.GetHeader("X-User-ID"); header != "" {
		return &header
	}
	return nil
}
