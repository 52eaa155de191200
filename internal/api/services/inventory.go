package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"avatarshop/internal/domain"
	"avatarshop/internal/repository"
)

type InventoryService struct {
	ownedRepo *repository.OwnedItemRepository
}

func NewInventoryService(db *sqlx.DB) *InventoryService {
	return &InventoryService{ownedRepo: repository.NewOwnedItemRepository(db)}
}

func (s *InventoryService) ListOwned(ctx context.Context, userID uuid.UUID) ([]*domain.OwnedItemView, error) {
	items, err := s.ownedRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned items: %w", err)
	}
	return items, nil
}

// ListEquipped returns equipped items in render order, back to front.
func (s *InventoryService) ListEquipped(ctx context.Context, userID uuid.UUID) ([]*domain.OwnedItemView, error) {
	items, err := s.ownedRepo.FindEquippedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list equipped items: %w", err)
	}
	domain.SortBySlotPriority(items)
	return items, nil
}
