package services

import (
	"context"

	"trade-service/internal/models"
	"trade-service/internal/repositories"
)

type ItemService struct {
	items repositories.ItemRepository
}

func NewItemService(items repositories.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// ToggleStar stars the item for userID, or removes the star if already set.
func (s *ItemService) ToggleStar(ctx context.Context, itemID, userID string) (models.Item, error) {
	if err := required(param{"item id", itemID}, param{"user", userID}); err != nil {
		return models.Item{}, err
	}
	return s.items.ToggleStar(ctx, itemID, userID)
}
