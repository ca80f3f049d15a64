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

// UserRepository is the user-lookup collaborator plus the partner-set writes.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
	FindUserByContactKey(ctx context.Context, email string) (models.User, error)
	ArePartners(ctx context.Context, userID string, partnerID string) (bool, error)
	AddPartners(ctx context.Context, userID string, partnerID string) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB, timeout time.Duration) *UserRepo {
	return &UserRepo{db: db, timeout: timeout}
}

const userColumns = `id, username, email, password_hash, profile_image, created_at`

// GetUser fetches a user with its partner set.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user", userID)
	}
	if err != nil {
		return models.User{}, storeErr("get user", err)
	}
	if user.Partners, err = r.partners(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindUserByContactKey fetches a user by its unique email.
func (r *UserRepo) FindUserByContactKey(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.NotFound("user", email)
	}
	if err != nil {
		return models.User{}, storeErr("find user", err)
	}
	if user.Partners, err = r.partners(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ArePartners reports whether partnerID is in userID's partner set.
func (r *UserRepo) ArePartners(ctx context.Context, userID string, partnerID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var linked bool
	err := r.db.GetContext(ctx, &linked, `SELECT EXISTS (SELECT 1 FROM user_partners WHERE user_id=$1 AND partner_id=$2)`, userID, partnerID)
	if err != nil {
		return false, storeErr("check partners", err)
	}
	return linked, nil
}

// AddPartners links both users in one transaction. Each direction is an
// add-if-absent, so repeating the call changes nothing.
func (r *UserRepo) AddPartners(ctx context.Context, userID string, partnerID string) (err error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr("begin add partners", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const link = `INSERT INTO user_partners (user_id, partner_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err = tx.ExecContext(ctx, link, userID, partnerID); err != nil {
		return storeErr("add partner", err)
	}
	if _, err = tx.ExecContext(ctx, link, partnerID, userID); err != nil {
		return storeErr("add partner", err)
	}
	if err = tx.Commit(); err != nil {
		return storeErr("commit add partners", err)
	}
	return nil
}

func (r *UserRepo) partners(ctx context.Context, userID string) ([]string, error) {
	partners := []string{}
	err := r.db.SelectContext(ctx, &partners, `SELECT partner_id FROM user_partners WHERE user_id=$1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, storeErr("list partners", err)
	}
	return partners, nil
}
