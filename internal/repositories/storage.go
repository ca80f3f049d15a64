package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trade-service/internal/apperr"
)

// DefaultTimeout bounds a persistence call when a repository is built with a
// non-positive timeout.
const DefaultTimeout = 5 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeErr classifies a driver error as ErrTimeout or ErrStorage.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrStorage, err)
}
