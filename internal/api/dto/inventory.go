package dto

import "avatarshop/internal/domain"

// InventoryRequest is the body of buy, equip and unequip.
type InventoryRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	ItemID string `json:"itemId" validate:"required,uuid"`
}

type OwnedItem struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	ImageRef string `json:"imageRef"`
	ItemType string `json:"itemType"`
	Equipped bool   `json:"equipped"`
}

type EquippedItem struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	ImageRef string `json:"imageRef"`
	ItemType string `json:"itemType"`
}

type EquipResponse struct {
	Message   string `json:"message"`
	Displaced int64  `json:"displaced"`
}

func OwnedItemsFromDomain(items []*domain.OwnedItemView) []*OwnedItem {
	result := make([]*OwnedItem, len(items))
	for i, it := range items {
		result[i] = &OwnedItem{
			ItemID:   it.ItemID.String(),
			Name:     it.Name,
			ImageRef: it.Image,
			ItemType: string(it.SlotType),
			Equipped: it.Equipped,
		}
	}
	return result
}

func EquippedItemsFromDomain(items []*domain.OwnedItemView) []*EquippedItem {
	result := make([]*EquippedItem, len(items))
	for i, it := range items {
		result[i] = &EquippedItem{
			ItemID:   it.ItemID.String(),
			Name:     it.Name,
			ImageRef: it.Image,
			ItemType: string(it.SlotType),
		}
	}
	return result
}
