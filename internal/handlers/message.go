package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-service/internal/services"
)

// MessageHandler serves direct messages and the conversation index.
type MessageHandler struct {
	messages *services.MessageService
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessage stores a message and pushes it to the receiver if online.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req struct {
		ReceiverID string `json:"receiver_id"`
		Text       string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), currentUserID(c), req.ReceiverID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	list, err := h.messages.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// History returns the caller's conversation with one user, oldest first.
func (h *MessageHandler) History(c *gin.Context) {
	msgs, err := h.messages.History(c.Request.Context(), currentUserID(c), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
