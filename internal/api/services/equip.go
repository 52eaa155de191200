package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"avatarshop/internal/metrics"
	"avatarshop/internal/repository"
)

type EquipResult struct {
	// Displaced counts items of the same slot that were unequipped. The item
	// being equipped is included when it was already equipped.
	Displaced int64
}

type EquipService struct {
	db *sqlx.DB
}

func NewEquipService(db *sqlx.DB) *EquipService {
	return &EquipService{db: db}
}

// Equip makes itemID the equipped item of its slot, clearing whatever the
// user had equipped there before.
func (s *EquipService) Equip(ctx context.Context, userID, itemID uuid.UUID) (*EquipResult, error) {
	ctx, span := tracer.Start(ctx, "EquipService.Equip")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("item.id", itemID.String()),
	)

	result, err := s.equip(ctx, userID, itemID)
	metrics.EquipOperations.WithLabelValues("equip", metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("equip.displaced", result.Displaced))
	return result, nil
}

func (s *EquipService) equip(ctx context.Context, userID, itemID uuid.UUID) (*EquipResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin equip: %w", err)
	}
	defer tx.Rollback()

	userRepo := repository.NewUserRepository(tx)
	itemRepo := repository.NewItemRepository(tx)
	ownedRepo := repository.NewOwnedItemRepository(tx)

	item, err := itemRepo.FindByIDForShare(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}

	if _, err := userRepo.FindByIDForUpdate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lock user: %w", err)
	}

	if _, err := ownedRepo.FindByUserAndItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, repository.ErrOwnedItemNotFound) {
			return nil, ErrItemNotOwned
		}
		return nil, fmt.Errorf("check ownership: %w", err)
	}

	displaced, err := ownedRepo.UnequipSlot(ctx, userID, item.SlotType)
	if err != nil {
		return nil, fmt.Errorf("clear slot %s: %w", item.SlotType, err)
	}

	// after the clear only a slot without capacity rejects
	current, err := ownedRepo.CountEquippedInSlot(ctx, userID, item.SlotType)
	if err != nil {
		return nil, fmt.Errorf("count slot %s: %w", item.SlotType, err)
	}
	if current >= item.SlotType.Limit() {
		return nil, ErrSlotLimitExceeded
	}

	if err := ownedRepo.SetEquipped(ctx, userID, itemID, true); err != nil {
		if errors.Is(err, repository.ErrOwnedItemNotFound) {
			return nil, ErrItemNotOwned
		}
		return nil, fmt.Errorf("equip item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit equip: %w", err)
	}

	zap.L().Debug("item equipped",
		zap.Stringer("user_id", userID),
		zap.Stringer("item_id", itemID),
		zap.String("slot", string(item.SlotType)),
		zap.Int64("displaced", displaced),
	)
	return &EquipResult{Displaced: displaced}, nil
}

func (s *EquipService) Unequip(ctx context.Context, userID, itemID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "EquipService.Unequip")
	defer span.End()

	err := s.unequip(ctx, userID, itemID)
	metrics.EquipOperations.WithLabelValues("unequip", metrics.Result(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *EquipService) unequip(ctx context.Context, userID, itemID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unequip: %w", err)
	}
	defer tx.Rollback()

	userRepo := repository.NewUserRepository(tx)
	ownedRepo := repository.NewOwnedItemRepository(tx)

	if _, err := userRepo.FindByIDForUpdate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}

	entry, err := ownedRepo.FindByUserAndItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrOwnedItemNotFound) {
			return ErrItemNotOwned
		}
		return fmt.Errorf("find owned item: %w", err)
	}
	if !entry.Equipped {
		return ErrNotCurrentlyEquipped
	}

	if err := ownedRepo.SetEquipped(ctx, userID, itemID, false); err != nil {
		if errors.Is(err, repository.ErrOwnedItemNotFound) {
			return ErrItemNotOwned
		}
		return fmt.Errorf("unequip item: %w", err)
	}

	return tx.Commit()
}
