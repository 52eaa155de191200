package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSlotType_Limit(t *testing.T) {
	for _, s := range []SlotType{SlotBack, SlotFront, SlotShirt, SlotPants, SlotPackage, SlotHat, SlotHair} {
		assert.True(t, s.Known(), s)
		assert.Equal(t, 1, s.Limit(), s)
	}

	unknown := SlotType("wings")
	assert.False(t, unknown.Known())
	assert.Equal(t, 0, unknown.Limit())
}

func TestNormalizeSlotType(t *testing.T) {
	assert.Equal(t, SlotHat, NormalizeSlotType(" Hat "))
	assert.Equal(t, SlotType("wings"), NormalizeSlotType("WINGS"))
}

func TestSortBySlotPriority(t *testing.T) {
	view := func(name string, slot SlotType) *OwnedItemView {
		return &OwnedItemView{ItemID: uuid.New(), Name: name, SlotType: slot, Equipped: true}
	}

	items := []*OwnedItemView{
		view("Cap", SlotHat),
		view("Wings", SlotType("wings")),
		view("Scarf", SlotFront),
		view("Jeans", SlotPants),
		view("Crate", SlotPackage),
		view("Tee", SlotShirt),
		view("Cape", SlotBack),
		view("Bob", SlotHair),
	}

	SortBySlotPriority(items)

	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Cape", "Jeans", "Tee", "Bob", "Cap", "Scarf", "Crate", "Wings"}, names)
}

func TestSortBySlotPriority_IndependentOfInputOrder(t *testing.T) {
	a := []*OwnedItemView{
		{Name: "Tee", SlotType: SlotShirt},
		{Name: "Cape", SlotType: SlotBack},
	}
	b := []*OwnedItemView{a[1], a[0]}

	SortBySlotPriority(a)
	SortBySlotPriority(b)

	assert.Equal(t, a, b)
	assert.Equal(t, SlotBack, a[0].SlotType)
}
