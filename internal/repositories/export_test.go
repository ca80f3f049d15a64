package repositories

import "time"

func (r *CachedUserRepo) SetClock(now func() time.Time) {
	r.now = now
}
