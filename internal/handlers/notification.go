package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
	"trade-service/internal/services"
	"trade-service/internal/telemetry"
)

// NotificationHandler serves the caller's inbox and partner requests.
type NotificationHandler struct {
	notifications *services.NotificationService
	partners      *services.PartnerService
	audit         *telemetry.AuditEmitter
}

// NewNotificationHandler builds a NotificationHandler. audit may be nil.
func NewNotificationHandler(notifications *services.NotificationService, partners *services.PartnerService, audit *telemetry.AuditEmitter) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, partners: partners, audit: audit}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.ensureRecipient(c.Request.Context(), id, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	n, err := h.notifications.MarkRead(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id := c.Param("id")
	if err := h.ensureRecipient(c.Request.Context(), id, currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptPartnerRequest links the caller with the request's sender.
func (h *NotificationHandler) AcceptPartnerRequest(c *gin.Context) {
	link, err := h.partners.Accept(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	h.audit.EmitFields(c.Request.Context(), "INFO", "partner request accepted", requestIDFromContext(c), userIDFromContext(c), map[string]string{
		"partner_id": link.Sender.ID,
	})
	c.JSON(http.StatusOK, link)
}

// SendPartnerRequest asks another user to become the caller's partner.
func (h *NotificationHandler) SendPartnerRequest(c *gin.Context) {
	var req struct {
		RecipientID    string `json:"recipient_id"`
		RecipientEmail string `json:"recipient_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		n   models.Notification
		err error
	)
	switch {
	case req.RecipientID != "":
		n, err = h.partners.SendRequest(c.Request.Context(), currentUserID(c), req.RecipientID)
	case req.RecipientEmail != "":
		n, err = h.partners.SendRequestByContact(c.Request.Context(), currentUserID(c), req.RecipientEmail)
	default:
		err = apperr.Validation("recipient_id or recipient_email is required")
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// RejectPartnerRequest drops a partner request addressed to the caller.
func (h *NotificationHandler) RejectPartnerRequest(c *gin.Context) {
	if err := h.partners.Reject(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) ensureRecipient(ctx context.Context, id, userID string) error {
	n, err := h.notifications.Get(ctx, id)
	if err != nil {
		return err
	}
	return checkRecipient(n, userID)
}

func checkRecipient(n models.Notification, userID string) error {
	if n.RecipientID != userID {
		return apperr.Forbidden("notification %s is not addressed to %s", n.ID, userID)
	}
	return nil
}
