package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"trade-service/internal/models"
)

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) error
	ListMessagesForUser(ctx context.Context, userID string) ([]models.Message, error)
	ListMessagesBetween(ctx context.Context, userID string, otherID string) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB, timeout time.Duration) *MessageRepo {
	return &MessageRepo{db: db, timeout: timeout}
}

const messageColumns = `id, sender_id, receiver_id, text, created_at`

// CreateMessage stores a message.
func (r *MessageRepo) CreateMessage(ctx context.Context, msg models.Message) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO messages (`+messageColumns+`)
        VALUES (:id, :sender_id, :receiver_id, :text, :created_at)`, msg)
	return storeErr("create message", err)
}

// ListMessagesForUser returns every message the user sent or received, newest
// first. Insertion order breaks timestamp ties.
func (r *MessageRepo) ListMessagesForUser(ctx context.Context, userID string) ([]models.Message, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages
        WHERE sender_id=$1 OR receiver_id=$1
        ORDER BY created_at DESC, seq DESC`, userID)
	if err != nil {
		return nil, storeErr("list messages", err)
	}
	return msgs, nil
}

// ListMessagesBetween returns the conversation between two users, oldest first.
func (r *MessageRepo) ListMessagesBetween(ctx context.Context, userID string, otherID string) ([]models.Message, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
        ORDER BY created_at ASC, seq ASC`, userID, otherID)
	if err != nil {
		return nil, storeErr("list conversation", err)
	}
	return msgs, nil
}
