package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
)

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) error
	GetNotification(ctx context.Context, id string) (models.Notification, error)
	ListForUser(ctx context.Context, userID string, kinds []models.NotificationKind, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) (models.Notification, error)
	RewriteKindByTrade(ctx context.Context, tradeID string, kind models.NotificationKind) (models.Notification, bool, error)
	DeleteNotification(ctx context.Context, id string) error
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB, timeout time.Duration) *NotificationRepo {
	return &NotificationRepo{db: db, timeout: timeout}
}

const notificationColumns = `id, recipient_id, sender_id, kind, message, trade_id, is_read, created_at`

// CreateNotification inserts a notification.
func (r *NotificationRepo) CreateNotification(ctx context.Context, n models.Notification) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO notifications (`+notificationColumns+`)
        VALUES (:id, :recipient_id, :sender_id, :kind, :message, :trade_id, :is_read, :created_at)`, n)
	return storeErr("create notification", err)
}

// GetNotification fetches a notification by id.
func (r *NotificationRepo) GetNotification(ctx context.Context, id string) (models.Notification, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n models.Notification
	err := r.db.GetContext(ctx, &n, `SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, apperr.NotFound("notification", id)
	}
	if err != nil {
		return models.Notification{}, storeErr("get notification", err)
	}
	return n, nil
}

// ListForUser returns the recipient's notifications newest first. An empty
// kinds slice means every kind; a non-positive limit means no limit.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, kinds []models.NotificationKind, limit int) ([]models.Notification, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	kindFilter := make([]string, 0, len(kinds))
	for _, k := range kinds {
		kindFilter = append(kindFilter, string(k))
	}
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	list := []models.Notification{}
	err := r.db.SelectContext(ctx, &list, `SELECT `+notificationColumns+` FROM notifications
        WHERE recipient_id=$1 AND (cardinality($2::text[]) = 0 OR kind = ANY($2))
        ORDER BY created_at DESC, id DESC
        LIMIT $3`, userID, pq.Array(kindFilter), limitArg)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	return list, nil
}

// MarkRead sets the read flag.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n models.Notification
	err := r.db.GetContext(ctx, &n, `UPDATE notifications SET is_read=TRUE WHERE id=$1 RETURNING `+notificationColumns, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, apperr.NotFound("notification", id)
	}
	if err != nil {
		return models.Notification{}, storeErr("mark notification read", err)
	}
	return n, nil
}

// RewriteKindByTrade replaces the kind of the trade's notification and marks it
// unread. The bool is false when the trade has no notification.
func (r *NotificationRepo) RewriteKindByTrade(ctx context.Context, tradeID string, kind models.NotificationKind) (models.Notification, bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n models.Notification
	err := r.db.GetContext(ctx, &n, `UPDATE notifications SET kind=$1, is_read=FALSE
        WHERE id = (SELECT id FROM notifications WHERE trade_id=$2 ORDER BY created_at ASC LIMIT 1)
        RETURNING `+notificationColumns, kind, tradeID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, false, nil
	}
	if err != nil {
		return models.Notification{}, false, storeErr("rewrite notification kind", err)
	}
	return n, true, nil
}

// DeleteNotification removes a notification.
func (r *NotificationRepo) DeleteNotification(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id=$1`, id)
	if err != nil {
		return storeErr("delete notification", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete notification", err)
	}
	if count == 0 {
		return apperr.NotFound("notification", id)
	}
	return nil
}
