package domain

import (
	"sort"
	"strings"
)

// SlotType tags an item with the body slot it occupies when equipped.
type SlotType string

const (
	SlotBack    SlotType = "back"
	SlotFront   SlotType = "front"
	SlotShirt   SlotType = "shirt"
	SlotPants   SlotType = "pants"
	SlotPackage SlotType = "package"
	SlotHat     SlotType = "hat"
	SlotHair    SlotType = "hair"
)

// slotLimits is the number of items that may be equipped at once per slot.
// Slot types missing from the table cannot be equipped.
var slotLimits = map[SlotType]int{
	SlotBack:    1,
	SlotFront:   1,
	SlotShirt:   1,
	SlotPants:   1,
	SlotPackage: 1,
	SlotHat:     1,
	SlotHair:    1,
}

func NormalizeSlotType(s string) SlotType {
	return SlotType(strings.ToLower(strings.TrimSpace(s)))
}

func (s SlotType) Known() bool {
	_, ok := slotLimits[s]
	return ok
}

// Limit returns 0 for unknown slot types.
func (s SlotType) Limit() int {
	return slotLimits[s]
}

// display order of equipped items, back to front
var slotPriority = []SlotType{SlotBack, SlotPants, SlotShirt, SlotHair, SlotHat, SlotFront}

func (s SlotType) priority() int {
	for i, p := range slotPriority {
		if p == s {
			return i
		}
	}
	return len(slotPriority)
}

// SortBySlotPriority orders items back, pants, shirt, hair, hat, front, then
// the remaining slot types alphabetically. Ties are broken by name.
func SortBySlotPriority(items []*OwnedItemView) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].SlotType.priority(), items[j].SlotType.priority()
		if pi != pj {
			return pi < pj
		}
		if items[i].SlotType != items[j].SlotType {
			return items[i].SlotType < items[j].SlotType
		}
		return items[i].Name < items[j].Name
	})
}
