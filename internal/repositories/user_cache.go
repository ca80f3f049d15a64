package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"trade-service/internal/models"
)

type cachedUser struct {
	user    models.User
	expires time.Time
}

// CachedUserRepo keeps recently resolved users in an LRU for display-name
// lookups. Entries expire after ttl so profile changes made elsewhere show up.
// Partner writes evict both sides, and a read that raced a partner write is
// not cached. ArePartners is never served from the cache.
type CachedUserRepo struct {
	UserRepository
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time

	mu sync.Mutex
	// writes counts partner writes; a GetUser that saw it change drops its result.
	writes uint64
}

// NewCachedUserRepo wraps inner with an LRU of the given size and entry ttl.
func NewCachedUserRepo(inner UserRepository, size int, ttl time.Duration) (*CachedUserRepo, error) {
	if ttl <= 0 {
		return nil, errors.New("create user cache: ttl must be positive")
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create user cache: %w", err)
	}
	return &CachedUserRepo{UserRepository: inner, cache: cache, ttl: ttl, now: time.Now}, nil
}

// GetUser serves from the cache, falling back to the wrapped repository.
func (r *CachedUserRepo) GetUser(ctx context.Context, userID string) (models.User, error) {
	if val, ok := r.cache.Get(userID); ok {
		entry := val.(cachedUser)
		if r.now().Before(entry.expires) {
			user := entry.user
			user.Partners = slices.Clone(user.Partners)
			return user, nil
		}
		r.cache.Remove(userID)
	}

	r.mu.Lock()
	seen := r.writes
	r.mu.Unlock()

	user, err := r.UserRepository.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writes == seen {
		cached := user
		cached.Partners = slices.Clone(user.Partners)
		r.cache.Add(userID, cachedUser{user: cached, expires: r.now().Add(r.ttl)})
	}
	return user, nil
}

// AddPartners writes through and evicts both users.
func (r *CachedUserRepo) AddPartners(ctx context.Context, userID string, partnerID string) error {
	err := r.UserRepository.AddPartners(ctx, userID, partnerID)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes++
	r.cache.Remove(userID)
	r.cache.Remove(partnerID)
	return err
}
