package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-service/internal/services"
)

type ItemHandler struct {
	items *services.ItemService
}

func NewItemHandler(items *services.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// ToggleStar stars or un-stars the item for the caller.
func (h *ItemHandler) ToggleStar(c *gin.Context) {
	item, err := h.items.ToggleStar(c.Request.Context(), c.Param("item_id"), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
