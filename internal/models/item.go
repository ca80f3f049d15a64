package models

import "time"

// Item is a listing that can be offered or targeted in a trade.
// Stars always equals len(StarredBy).
type Item struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	Stars       int       `db:"stars" json:"stars"`
	StarredBy   []string  `db:"-" json:"starred_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	Owner *UserRef `db:"-" json:"owner,omitempty"`
}

// ToggleStar flips userID's membership in the starring set and recomputes the
// counter. It returns true if the user now stars the item.
func (i *Item) ToggleStar(userID string) bool {
	for idx, id := range i.StarredBy {
		if id == userID {
			i.StarredBy = append(i.StarredBy[:idx], i.StarredBy[idx+1:]...)
			i.Stars = len(i.StarredBy)
			return false
		}
	}
	i.StarredBy = append(i.StarredBy, userID)
	i.Stars = len(i.StarredBy)
	return true
}
