package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemStarToggleScenario(t *testing.T) {
	item := Item{ID: "x", OwnerID: "u1"}
	assert.Equal(t, 0, item.Stars)

	assert.True(t, item.ToggleStar("u2"))
	assert.Equal(t, 1, item.Stars)
	assert.Equal(t, []string{"u2"}, item.StarredBy)

	assert.False(t, item.ToggleStar("u2"))
	assert.Equal(t, 0, item.Stars)
	assert.Empty(t, item.StarredBy)

	assert.True(t, item.ToggleStar("u2"))
	assert.Equal(t, 1, item.Stars)
	assert.Equal(t, len(item.StarredBy), item.Stars)
}

func TestItemStarsTrackMultipleUsers(t *testing.T) {
	item := Item{ID: "x"}
	item.ToggleStar("a")
	item.ToggleStar("b")
	item.ToggleStar("c")
	item.ToggleStar("b")

	assert.Equal(t, []string{"a", "c"}, item.StarredBy)
	assert.Equal(t, 2, item.Stars)
}

func TestUserAddPartnerIsIdempotent(t *testing.T) {
	u := User{ID: "a"}
	assert.True(t, u.AddPartner("b"))
	assert.False(t, u.AddPartner("b"))
	assert.Equal(t, []string{"b"}, u.Partners)
	assert.True(t, u.HasPartner("b"))
	assert.False(t, u.HasPartner("c"))
}

func TestMessageCounterparty(t *testing.T) {
	m := Message{SenderID: "a", ReceiverID: "b"}
	assert.Equal(t, "b", m.Counterparty("a"))
	assert.Equal(t, "a", m.Counterparty("b"))
}
