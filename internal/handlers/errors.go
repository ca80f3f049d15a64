package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-service/internal/apperr"
)

// statusFor maps an error kind to the HTTP status the client sees.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("handler error method=%s route=%s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": http.StatusText(status), "retryable": apperr.Retryable(err)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
