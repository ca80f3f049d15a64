package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"trade-service/internal/apperr"
	"trade-service/internal/models"
)

// TradeRepository abstracts trade persistence.
type TradeRepository interface {
	CreateTrade(ctx context.Context, trade models.Trade) error
	GetTrade(ctx context.Context, tradeID string) (models.Trade, error)
	UpdateStatus(ctx context.Context, tradeID string, from, to models.TradeStatus) (models.Trade, error)
	DeleteTrade(ctx context.Context, tradeID string) error
	ListTradesForUser(ctx context.Context, userID string) ([]models.Trade, error)
}

// TradeRepo is a sqlx implementation of TradeRepository.
type TradeRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewTradeRepo constructs a TradeRepo.
func NewTradeRepo(db *sqlx.DB, timeout time.Duration) *TradeRepo {
	return &TradeRepo{db: db, timeout: timeout}
}

const tradeColumns = `id, offered_item_id, target_item_id, offered_by, target_owner, status, created_at, updated_at`

// CreateTrade inserts a new trade.
func (r *TradeRepo) CreateTrade(ctx context.Context, trade models.Trade) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `INSERT INTO trades (`+tradeColumns+`)
        VALUES (:id, :offered_item_id, :target_item_id, :offered_by, :target_owner, :status, :created_at, :updated_at)`, trade)
	return storeErr("create trade", err)
}

// GetTrade fetches a trade by id.
func (r *TradeRepo) GetTrade(ctx context.Context, tradeID string) (models.Trade, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var trade models.Trade
	err := r.db.GetContext(ctx, &trade, `SELECT `+tradeColumns+` FROM trades WHERE id=$1`, tradeID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trade{}, apperr.NotFound("trade", tradeID)
	}
	if err != nil {
		return models.Trade{}, storeErr("get trade", err)
	}
	return trade, nil
}

// UpdateStatus moves a trade from one status to another. The write only lands
// if the stored status still equals from, so two concurrent decisions cannot
// both succeed.
func (r *TradeRepo) UpdateStatus(ctx context.Context, tradeID string, from, to models.TradeStatus) (models.Trade, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var trade models.Trade
	err := r.db.GetContext(ctx, &trade, `UPDATE trades SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3 RETURNING `+tradeColumns, to, tradeID, from)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trade{}, apperr.InvalidState("trade %s is no longer %s", tradeID, from)
	}
	if err != nil {
		return models.Trade{}, storeErr("update trade status", err)
	}
	return trade, nil
}

// DeleteTrade removes a trade. Deleting a missing trade is not an error.
func (r *TradeRepo) DeleteTrade(ctx context.Context, tradeID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id=$1`, tradeID)
	return storeErr("delete trade", err)
}

// ListTradesForUser returns trades offered by or targeting the user, newest first.
func (r *TradeRepo) ListTradesForUser(ctx context.Context, userID string) ([]models.Trade, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	trades := []models.Trade{}
	err := r.db.SelectContext(ctx, &trades, `SELECT `+tradeColumns+` FROM trades
        WHERE offered_by=$1 OR target_owner=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, storeErr("list trades", err)
	}
	return trades, nil
}
