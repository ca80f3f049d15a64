package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trade-service/internal/mocks"
	"trade-service/internal/telemetry"
)

func TestDebugRoutesDisabled(t *testing.T) {
	router := setupRouter("alice")
	RegisterDebugRoutes(router, nil, false)

	rec := do(router, http.MethodGet, "/debug/audit-test", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebugAuditTest(t *testing.T) {
	pub := new(mocks.PublisherMock)
	router := setupRouter("alice")
	RegisterDebugRoutes(router, telemetry.NewAuditEmitter(pub, "audit", "trade-service", "test"), true)
	pub.On("Publish", mock.Anything, "audit", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Fields["trade_id"] == "t1" && env.Payload.Fields["decision"] == "reject"
	})).Return(nil).Once()

	rec := do(router, http.MethodGet, "/debug/audit-test?trade_id=t1&decision=reject", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pub.AssertExpectations(t)
}

func TestDebugAuditTestDefaultsAndValidation(t *testing.T) {
	pub := new(mocks.PublisherMock)
	router := setupRouter("alice")
	RegisterDebugRoutes(router, telemetry.NewAuditEmitter(pub, "audit", "trade-service", "test"), true)
	pub.On("Publish", mock.Anything, "audit", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Fields["decision"] == "accept" && env.Payload.Fields["trade_id"] == "debug"
	})).Return(nil).Once()

	rec := do(router, http.MethodGet, "/debug/audit-test", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/debug/audit-test?decision=maybe", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	pub.AssertExpectations(t)
}

func TestDebugAuditTestWithoutEmitter(t *testing.T) {
	router := setupRouter("alice")
	RegisterDebugRoutes(router, nil, true)

	rec := do(router, http.MethodGet, "/debug/audit-test", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
