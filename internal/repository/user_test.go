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

func TestUserRepository_CreateAndFind(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	repo := repository.NewUserRepository(testDB)

	user := testutil.CreateUser(t, testDB, 7, 8)
	assert.NotEqual(t, uuid.Nil, user.ID)

	byName, err := repo.FindByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, domain.Wallet{Gold: 7, Tickets: 8}, byName.Wallet())

	dup := &domain.User{Username: user.Username, Password: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrUserExists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Debit(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	repo := repository.NewUserRepository(testDB)

	user := testutil.CreateUser(t, testDB, 10, 3)

	require.NoError(t, repo.Debit(ctx, user.ID, domain.CurrencyGold, 10))
	assert.ErrorIs(t, repo.Debit(ctx, user.ID, domain.CurrencyTickets, 4), repository.ErrInsufficientBalance)
	assert.ErrorIs(t, repo.Debit(ctx, user.ID, domain.CurrencyKind("gems"), 1), repository.ErrUnknownCurrency)
	assert.ErrorIs(t, repo.Debit(ctx, uuid.New(), domain.CurrencyGold, 0), repository.ErrInsufficientBalance)

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Wallet{Gold: 0, Tickets: 3}, got.Wallet())
}

func TestUserRepository_GetWalletsForUsers(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	repo := repository.NewUserRepository(testDB)

	a := testutil.CreateUser(t, testDB, 1, 2)
	b := testutil.CreateUser(t, testDB, 3, 4)

	wallets, err := repo.GetWalletsForUsers(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	byID := map[uuid.UUID]domain.Wallet{}
	for _, w := range wallets {
		byID[w.UserID] = w.Wallet
	}
	assert.Equal(t, domain.Wallet{Gold: 1, Tickets: 2}, byID[a.ID])
	assert.Equal(t, domain.Wallet{Gold: 3, Tickets: 4}, byID[b.ID])

	empty, err := repo.GetWalletsForUsers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepository_FindByIDForUpdateInTx(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	user := testutil.CreateUser(t, testDB, 5, 5)

	tx, err := testDB.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	locked, err := repository.NewUserRepository(tx).FindByIDForUpdate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, locked.Username)
}
