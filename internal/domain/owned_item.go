package domain

import (
	"time"

	"github.com/google/uuid"
)

// OwnedItem is one row of a user's inventory. A user owns a given item at most once.
type OwnedItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ItemID    uuid.UUID `json:"item_id" db:"item_id"`
	Equipped  bool      `json:"equipped" db:"equipped"`
}

// OwnedItemView joins an inventory row with the catalog fields clients render.
type OwnedItemView struct {
	ItemID   uuid.UUID `json:"item_id" db:"item_id"`
	Name     string    `json:"name" db:"name"`
	Image    string    `json:"image" db:"image"`
	SlotType SlotType  `json:"slot_type" db:"slot_type"`
	Equipped bool      `json:"equipped" db:"equipped"`
}
