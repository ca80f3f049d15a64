package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/services"
)

func TestToggleStarHandler(t *testing.T) {
	d := newDeps()
	handler := NewItemHandler(services.NewItemService(d.items))
	router := setupRouter("u2")
	router.POST("/items/:item_id/star", handler.ToggleStar)

	d.items.On("ToggleStar", mock.Anything, "x", "u2").Return(models.Item{ID: "x", Stars: 1, StarredBy: []string{"u2"}}, nil).Once()
	d.items.On("ToggleStar", mock.Anything, "missing", "u2").Return(models.Item{}, apperr.NotFound("item", "missing")).Once()

	rec := do(router, http.MethodPost, "/items/x/star", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["stars"])

	rec = do(router, http.MethodPost, "/items/missing/star", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
