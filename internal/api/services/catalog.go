package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"avatarshop/internal/domain"
	"avatarshop/internal/redis"
	"avatarshop/internal/repository"
)

type ItemInput struct {
	Name         string `valid:"required,length(1|128)"`
	Description  string `valid:"length(0|2000)"`
	Cost         uint
	CurrencyKind string `valid:"required,in(gold|tickets)"`
	SlotType     string `valid:"required,length(1|32)"`
	Image        string `valid:"length(0|255)"`
}

type CatalogService struct {
	db       *sqlx.DB
	itemRepo *repository.ItemRepository
	cache    redis.Cache[[]*domain.Item]
}

func NewCatalogService(db *sqlx.DB, cache redis.Cache[[]*domain.Item]) *CatalogService {
	return &CatalogService{
		db:       db,
		itemRepo: repository.NewItemRepository(db),
		cache:    cache,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]*domain.Item, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, redis.CatalogAllKey)
		if err != nil {
			zap.L().Warn("read catalog cache", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.CatalogAllKey, &items); err != nil {
			zap.L().Warn("write catalog cache", zap.Error(err))
		}
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, itemID uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.CatalogEntry, error) {
	entries, err := s.itemRepo.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items for user: %w", err)
	}
	return entries, nil
}

func (s *CatalogService) Create(ctx context.Context, input ItemInput) (*domain.Item, error) {
	item, err := buildItem(input)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.invalidate(ctx)

	zap.L().Info("item created", zap.Stringer("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// Update rewrites the item. Moving it to another slot unequips it for every
// owner, so no slot ends up over its limit.
func (s *CatalogService) Update(ctx context.Context, itemID uuid.UUID, input ItemInput) (*domain.Item, error) {
	item, err := buildItem(input)
	if err != nil {
		return nil, err
	}
	item.ID = itemID

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	itemRepo := repository.NewItemRepository(tx)

	current, err := itemRepo.FindByIDForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}

	if current.SlotType != item.SlotType {
		unequipped, err := repository.NewOwnedItemRepository(tx).UnequipItem(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("unequip moved item: %w", err)
		}
		if unequipped > 0 {
			zap.L().Info("item moved to another slot, unequipped for owners",
				zap.Stringer("item_id", itemID),
				zap.String("from", string(current.SlotType)),
				zap.String("to", string(item.SlotType)),
				zap.Int64("unequipped", unequipped),
			)
		}
	}

	if err := itemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete removes the item together with every inventory entry that
// references it.
func (s *CatalogService) Delete(ctx context.Context, itemID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	removed, err := repository.NewOwnedItemRepository(tx).DeleteByItemID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete owned entries: %w", err)
	}

	if err := repository.NewItemRepository(tx).Delete(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	s.invalidate(ctx)

	zap.L().Info("item deleted", zap.Stringer("item_id", itemID), zap.Int64("owned_entries", removed))
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, redis.CatalogAllKey); err != nil {
		zap.L().Warn("invalidate catalog cache", zap.Error(err))
	}
}

func buildItem(input ItemInput) (*domain.Item, error) {
	input.SlotType = string(domain.NormalizeSlotType(input.SlotType))
	if _, err := govalidator.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	slot := domain.SlotType(input.SlotType)
	if !slot.Known() {
		zap.L().Warn("item uses a slot type that cannot be equipped", zap.String("slot", input.SlotType))
	}

	return &domain.Item{
		Name:         input.Name,
		Description:  input.Description,
		Cost:         input.Cost,
		CurrencyKind: domain.CurrencyKind(input.CurrencyKind),
		SlotType:     slot,
		Image:        input.Image,
	}, nil
}
