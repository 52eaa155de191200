package dto

import (
	"time"

	"avatarshop/internal/domain"
)

type ItemRequest struct {
	Name         string `json:"name" validate:"required,max=128"`
	Description  string `json:"description" validate:"max=2000"`
	Cost         *int64 `json:"cost" validate:"required,gte=0"`
	CurrencyKind string `json:"currencyKind" validate:"required,oneof=gold tickets"`
	ItemType     string `json:"itemType" validate:"required,max=32"`
	ImageRef     string `json:"imageRef" validate:"max=255"`
}

type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Cost         uint      `json:"cost"`
	CurrencyKind string    `json:"currencyKind"`
	ItemType     string    `json:"itemType"`
	ImageRef     string    `json:"imageRef"`
	Owned        *bool     `json:"owned,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func ItemFromDomain(item *domain.Item) *Item {
	if item == nil {
		return nil
	}
	return &Item{
		ID:           item.ID.String(),
		Name:         item.Name,
		Description:  item.Description,
		Cost:         item.Cost,
		CurrencyKind: string(item.CurrencyKind),
		ItemType:     string(item.SlotType),
		ImageRef:     item.Image,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func ItemsFromDomain(items []*domain.Item) []*Item {
	result := make([]*Item, len(items))
	for i, item := range items {
		result[i] = ItemFromDomain(item)
	}
	return result
}

func CatalogFromDomain(entries []*domain.CatalogEntry) []*Item {
	result := make([]*Item, len(entries))
	for i, entry := range entries {
		item := ItemFromDomain(&entry.Item)
		owned := entry.Owned
		item.Owned = &owned
		result[i] = item
	}
	return result
}
