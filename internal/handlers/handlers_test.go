package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-service/internal/apperr"
	"trade-service/internal/middleware"
	"trade-service/internal/mocks"
	"trade-service/internal/presence"
	"trade-service/internal/services"
)

type deps struct {
	users         *mocks.UserRepositoryMock
	items         *mocks.ItemRepositoryMock
	trades        *mocks.TradeRepositoryMock
	notifications *mocks.NotificationRepositoryMock
	messages      *mocks.MessageRepositoryMock
	registry      *presence.Registry
}

func newDeps() *deps {
	return &deps{
		users:         new(mocks.UserRepositoryMock),
		items:         new(mocks.ItemRepositoryMock),
		trades:        new(mocks.TradeRepositoryMock),
		notifications: new(mocks.NotificationRepositoryMock),
		messages:      new(mocks.MessageRepositoryMock),
		registry:      presence.NewRegistry(),
	}
}

func (d *deps) notificationService() *services.NotificationService {
	return services.NewNotificationService(d.notifications, d.users, d.registry)
}

func setupRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validation("x"), http.StatusBadRequest},
		{apperr.NotFound("trade", "t1"), http.StatusNotFound},
		{apperr.Forbidden("x"), http.StatusForbidden},
		{apperr.InvalidState("x"), http.StatusConflict},
		{fmt.Errorf("get trade: %w", apperr.ErrTimeout), http.StatusGatewayTimeout},
		{fmt.Errorf("get trade: %w", apperr.ErrStorage), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, statusFor(tc.err), tc.err.Error())
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	r := setupRouter("alice")
	r.GET("/boom", func(c *gin.Context) {
		writeError(c, fmt.Errorf("select: %w: pq: connection refused", apperr.ErrStorage))
	})

	rec := do(r, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "Internal Server Error", resp["error"])
	assert.Equal(t, true, resp["retryable"])
}
