package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatarshop/internal/domain"
	"avatarshop/internal/testutil"
)

func TestInventoryService_ListEquippedOrder(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, testDB, 0, 0)
	for _, slot := range []domain.SlotType{domain.SlotFront, domain.SlotHat, domain.SlotBack, domain.SlotPackage, domain.SlotShirt} {
		item := testutil.CreateItem(t, testDB, slot, 1, domain.CurrencyGold)
		testutil.GrantItem(t, testDB, user.ID, item.ID, true)
	}
	pants := testutil.CreateItem(t, testDB, domain.SlotPants, 1, domain.CurrencyGold)
	testutil.GrantItem(t, testDB, user.ID, pants.ID, false)

	svc := NewInventoryService(testDB)

	equipped, err := svc.ListEquipped(ctx, user.ID)
	require.NoError(t, err)

	var slots []domain.SlotType
	for _, it := range equipped {
		slots = append(slots, it.SlotType)
	}
	assert.Equal(t, []domain.SlotType{
		domain.SlotBack, domain.SlotShirt, domain.SlotHat, domain.SlotFront, domain.SlotPackage,
	}, slots)

	owned, err := svc.ListOwned(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 6)
}
