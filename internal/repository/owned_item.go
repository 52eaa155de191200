package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"avatarshop/internal/domain"
)

var (
	ErrOwnedItemNotFound = errors.New("owned item not found")
	ErrOwnedItemExists   = errors.New("item already owned")
)

type OwnedItemRepository struct {
	db ExtHandle
}

func NewOwnedItemRepository(db ExtHandle) *OwnedItemRepository {
	return &OwnedItemRepository{db: db}
}

func (r *OwnedItemRepository) Create(ctx context.Context, entry *domain.OwnedItem) error {
	query := `
		INSERT INTO owned_items (user_id, item_id, equipped)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, entry.UserID, entry.ItemID, entry.Equipped).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrOwnedItemExists
		}
		return err
	}
	return nil
}

func (r *OwnedItemRepository) FindByUserAndItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.OwnedItem, error) {
	query := `
		SELECT id, created_at, user_id, item_id, equipped
		FROM owned_items
		WHERE user_id = $1 AND item_id = $2
	`

	entry := &domain.OwnedItem{}
	err := r.db.GetContext(ctx, entry, query, userID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOwnedItemNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (r *OwnedItemRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.OwnedItemView, error) {
	query := `
		SELECT oi.item_id, i.name, i.image, i.slot_type, oi.equipped
		FROM owned_items oi
		INNER JOIN items i ON i.id = oi.item_id
		WHERE oi.user_id = $1
		ORDER BY i.name ASC
	`

	views := []*domain.OwnedItemView{}
	if err := r.db.SelectContext(ctx, &views, query, userID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *OwnedItemRepository) FindEquippedByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.OwnedItemView, error) {
	query := `
		SELECT oi.item_id, i.name, i.image, i.slot_type, oi.equipped
		FROM owned_items oi
		INNER JOIN items i ON i.id = oi.item_id
		WHERE oi.user_id = $1 AND oi.equipped
	`

	views := []*domain.OwnedItemView{}
	if err := r.db.SelectContext(ctx, &views, query, userID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *OwnedItemRepository) CountEquippedInSlot(ctx context.Context, userID uuid.UUID, slot domain.SlotType) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM owned_items oi
		INNER JOIN items i ON i.id = oi.item_id
		WHERE oi.user_id = $1 AND i.slot_type = $2 AND oi.equipped
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, string(slot)); err != nil {
		return 0, err
	}
	return count, nil
}

// UnequipSlot clears the equipped flag on every item of the user in slot and
// returns how many rows changed.
func (r *OwnedItemRepository) UnequipSlot(ctx context.Context, userID uuid.UUID, slot domain.SlotType) (int64, error) {
	query := `
		UPDATE owned_items oi
		SET equipped = false
		FROM items i
		WHERE i.id = oi.item_id
			AND oi.user_id = $1
			AND i.slot_type = $2
			AND oi.equipped
	`

	res, err := r.db.ExecContext(ctx, query, userID, string(slot))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UnequipItem clears the equipped flag of itemID for every user.
func (r *OwnedItemRepository) UnequipItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE owned_items SET equipped = false WHERE item_id = $1 AND equipped`, itemID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *OwnedItemRepository) SetEquipped(ctx context.Context, userID, itemID uuid.UUID, equipped bool) error {
	query := `UPDATE owned_items SET equipped = $1 WHERE user_id = $2 AND item_id = $3`

	res, err := r.db.ExecContext(ctx, query, equipped, userID, itemID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrOwnedItemNotFound
	}
	return nil
}

func (r *OwnedItemRepository) DeleteByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM owned_items WHERE item_id = $1`, itemID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
