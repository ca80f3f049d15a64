package models

import "time"

// User is a registered trader. Partners is symmetric: if A lists B, B lists A.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ProfileImage string    `db:"profile_image" json:"profile_image"`
	Partners     []string  `db:"-" json:"partners"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserRef is the public projection of a user embedded in other responses.
type UserRef struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// HasPartner reports whether id is in the user's partner set.
func (u User) HasPartner(id string) bool {
	for _, p := range u.Partners {
		if p == id {
			return true
		}
	}
	return false
}

// AddPartner adds id to the partner set unless already present.
// It returns false when nothing changed.
func (u *User) AddPartner(id string) bool {
	if u.HasPartner(id) {
		return false
	}
	u.Partners = append(u.Partners, id)
	return true
}

// Ref returns the public projection of the user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}
