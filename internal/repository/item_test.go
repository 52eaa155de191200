package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatarshop/internal/domain"
	"avatarshop/internal/repository"
	"avatarshop/internal/testutil"
)

func TestItemRepository_CRUD(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	repo := repository.NewItemRepository(testDB)

	item := testutil.CreateItem(t, testDB, domain.SlotHat, 12, domain.CurrencyTickets)
	assert.False(t, item.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, domain.CurrencyTickets, got.CurrencyKind)
	assert.Equal(t, uint(12), got.Cost)

	got.Name = "renamed"
	got.Cost = 0
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", again.Name)
	assert.Zero(t, again.Cost)

	missing := &domain.Item{Name: "x", CurrencyKind: domain.CurrencyGold, SlotType: domain.SlotHat}
	missing.ID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrItemNotFound)

	require.NoError(t, repo.Delete(ctx, item.ID))
	assert.ErrorIs(t, repo.Delete(ctx, item.ID), repository.ErrItemNotFound)
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}

func TestItemRepository_DeleteBlockedByOwnedEntries(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, testDB, 0, 0)
	item := testutil.CreateItem(t, testDB, domain.SlotShirt, 1, domain.CurrencyGold)
	testutil.GrantItem(t, testDB, user.ID, item.ID, false)

	err := repository.NewItemRepository(testDB).Delete(ctx, item.ID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrItemNotFound)
}

func TestItemRepository_FindAllForUser(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()

	user := testutil.CreateUser(t, testDB, 0, 0)
	owned := testutil.CreateItem(t, testDB, domain.SlotHair, 1, domain.CurrencyGold)
	testutil.GrantItem(t, testDB, user.ID, owned.ID, false)

	entries, err := repository.NewItemRepository(testDB).FindAllForUser(ctx, user.ID)
	require.NoError(t, err)

	ownedCount := 0
	for _, e := range entries {
		if e.Owned {
			ownedCount++
			assert.Equal(t, owned.ID, e.ID)
		}
	}
	assert.Equal(t, 1, ownedCount)
}

func TestItemRepository_LockingReads(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	item := testutil.CreateItem(t, testDB, domain.SlotFront, 4, domain.CurrencyGold)

	tx, err := testDB.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	repo := repository.NewItemRepository(tx)

	shared, err := repo.FindByIDForShare(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, shared.Name)

	exclusive, err := repo.FindByIDForUpdate(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotFront, exclusive.SlotType)

	_, err = repo.FindByIDForShare(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}
