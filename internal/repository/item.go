package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"avatarshop/internal/domain"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

const itemColumns = `items.id, items.created_at, items.updated_at, items.name, items.description,
	items.cost, items.currency_kind, items.slot_type, items.image`

type ItemRepository struct {
	db ExtHandle
}

func NewItemRepository(db ExtHandle) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY items.slot_type ASC, items.cost ASC, items.name ASC`

	items := []*domain.Item{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return r.findOne(ctx, `SELECT `+itemColumns+` FROM items WHERE items.id = $1`, id)
}

// FindByIDForShare reads the item and blocks concurrent edits of it until
// the surrounding transaction ends.
func (r *ItemRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return r.findOne(ctx, `SELECT `+itemColumns+` FROM items WHERE items.id = $1 FOR SHARE`, id)
}

func (r *ItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return r.findOne(ctx, `SELECT `+itemColumns+` FROM items WHERE items.id = $1 FOR UPDATE`, id)
}

func (r *ItemRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*domain.Item, error) {
	item := &domain.Item{}
	if err := r.db.GetContext(ctx, item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// FindAllForUser lists the catalog with an owned flag for userID.
func (r *ItemRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.CatalogEntry, error) {
	query := `
		SELECT ` + itemColumns + `,
			EXISTS(
				SELECT 1 FROM owned_items
				WHERE owned_items.item_id = items.id AND owned_items.user_id = $1
			) AS owned
		FROM items
		ORDER BY items.slot_type ASC, items.cost ASC, items.name ASC
	`

	entries := []*domain.CatalogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (name, description, cost, currency_kind, slot_type, image)
		VALUES ($1, $2, $3, $4::currency_kind, $5, $6)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRowxContext(ctx, query,
		item.Name, item.Description, item.Cost, string(item.CurrencyKind), string(item.SlotType), item.Image,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, cost = $3, currency_kind = $4::currency_kind,
			slot_type = $5, image = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		item.Name, item.Description, item.Cost, string(item.CurrencyKind), string(item.SlotType), item.Image, item.ID,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return err
	}
	return nil
}

// Delete removes the item row. Inventory rows referencing it must be
// deleted first; the foreign key rejects the delete otherwise.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrItemNotFound
	}
	return nil
}
