package domain

import "time"

type CurrencyKind string

const (
	CurrencyGold    CurrencyKind = "gold"
	CurrencyTickets CurrencyKind = "tickets"
)

func (k CurrencyKind) Valid() bool {
	return k == CurrencyGold || k == CurrencyTickets
}

type Item struct {
	Model
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description" db:"description"`
	Cost         uint         `json:"cost" db:"cost"`
	CurrencyKind CurrencyKind `json:"currency_kind" db:"currency_kind"`
	SlotType     SlotType     `json:"slot_type" db:"slot_type"`
	Image        string       `json:"image" db:"image"`
}

// CatalogEntry is an item as seen by a particular user.
type CatalogEntry struct {
	Item
	Owned bool `json:"owned" db:"owned"`
}
