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

// ItemRepository is the item-lookup collaborator plus the star toggle.
type ItemRepository interface {
	GetItem(ctx context.Context, itemID string) (models.Item, error)
	ToggleStar(ctx context.Context, itemID string, userID string) (models.Item, error)
}

// ItemRepo is a sqlx implementation of ItemRepository.
type ItemRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewItemRepo constructs an ItemRepo.
func NewItemRepo(db *sqlx.DB, timeout time.Duration) *ItemRepo {
	return &ItemRepo{db: db, timeout: timeout}
}

type itemRow struct {
	models.Item
	OwnerUsername sql.NullString `db:"owner_username"`
}

func (row itemRow) toModel(starredBy []string) models.Item {
	item := row.Item
	item.StarredBy = starredBy
	item.Owner = &models.UserRef{ID: item.OwnerID, Username: row.OwnerUsername.String}
	return item
}

const itemSelect = `SELECT i.id, i.name, i.description, i.image, i.owner_id, i.stars, i.created_at, u.username AS owner_username
        FROM items i LEFT JOIN users u ON u.id = i.owner_id`

// GetItem fetches an item with its owner populated.
func (r *ItemRepo) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var row itemRow
	err := r.db.GetContext(ctx, &row, itemSelect+` WHERE i.id=$1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, apperr.NotFound("item", itemID)
	}
	if err != nil {
		return models.Item{}, storeErr("get item", err)
	}

	starredBy := []string{}
	if err := r.db.SelectContext(ctx, &starredBy, `SELECT user_id FROM item_stars WHERE item_id=$1 ORDER BY user_id`, itemID); err != nil {
		return models.Item{}, storeErr("list stars", err)
	}
	return row.toModel(starredBy), nil
}

// ToggleStar flips userID's star on the item. The item row is locked so the
// counter and the starring set are updated together.
func (r *ItemRepo) ToggleStar(ctx context.Context, itemID string, userID string) (item models.Item, err error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Item{}, storeErr("begin toggle star", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var row itemRow
	err = tx.GetContext(ctx, &row, itemSelect+` WHERE i.id=$1 FOR UPDATE OF i`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, apperr.NotFound("item", itemID)
	}
	if err != nil {
		return models.Item{}, storeErr("lock item", err)
	}

	starredBy := []string{}
	if err = tx.SelectContext(ctx, &starredBy, `SELECT user_id FROM item_stars WHERE item_id=$1 ORDER BY user_id`, itemID); err != nil {
		return models.Item{}, storeErr("list stars", err)
	}
	item = row.toModel(starredBy)

	if item.ToggleStar(userID) {
		_, err = tx.ExecContext(ctx, `INSERT INTO item_stars (item_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, itemID, userID)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM item_stars WHERE item_id=$1 AND user_id=$2`, itemID, userID)
	}
	if err != nil {
		return models.Item{}, storeErr("write star", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE items SET stars=$1 WHERE id=$2`, item.Stars, itemID); err != nil {
		return models.Item{}, storeErr("update stars", err)
	}
	if err = tx.Commit(); err != nil {
		return models.Item{}, storeErr("commit toggle star", err)
	}
	return item, nil
}
