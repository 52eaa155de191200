package testutil

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"avatarshop/internal/config"
	"avatarshop/internal/domain"
	"avatarshop/internal/repository"
)

// SetupTestDB connects to the database described by envRelPath and falls
// back to a throwaway postgres container when that database is unreachable.
// Migrations from migrationsRelPath are applied either way. The returned
// cleanup closes the connection and stops the container, if any.
func SetupTestDB(envRelPath, migrationsRelPath string) (*sqlx.DB, func(), error) {
	_ = godotenv.Load(envRelPath)
	cfg := config.Load()

	cleanup := func() {}
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Printf("[testutil] configured database unavailable (%v), starting container", err)
		db, cleanup, err = startContainer(context.Background())
		if err != nil {
			return nil, nil, err
		}
	}

	if err = goose.SetDialect("postgres"); err != nil {
		db.Close()
		cleanup()
		return nil, nil, fmt.Errorf("set dialect: %w", err)
	}

	if err = goose.Up(db.DB, migrationsRelPath); err != nil {
		db.Close()
		cleanup()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}

	return db, func() {
		db.Close()
		cleanup()
	}, nil
}

func startContainer(ctx context.Context) (db *sqlx.DB, cleanup func(), err error) {
	var container *postgres.PostgresContainer

	// testcontainers panics when no docker daemon is reachable
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("start postgres container: %v", r)
			}
		}()
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("avatarshop_test"),
			postgres.WithUsername("test"),
			postgres.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
	}()
	if err != nil {
		return nil, nil, err
	}

	terminate := func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("[testutil] terminate container: %v", err)
		}
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("container connection string: %w", err)
	}

	db, err = sqlx.Connect("postgres", dsn)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("connect to container: %w", err)
	}
	return db, terminate, nil
}

func RequireDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if db == nil {
		t.Skip("Test database not initialized")
	}
}

// CreateUser inserts a user with the given balances and a unique username.
func CreateUser(t *testing.T, db *sqlx.DB, gold, tickets uint) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: "user_" + uuid.NewString()[:8],
		Password: "not-a-real-hash",
		Gold:     gold,
		Tickets:  tickets,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func CreateItem(t *testing.T, db *sqlx.DB, slot domain.SlotType, cost uint, kind domain.CurrencyKind) *domain.Item {
	t.Helper()
	item := &domain.Item{
		Name:         fmt.Sprintf("%s %s", slot, uuid.NewString()[:8]),
		Description:  "test item",
		Cost:         cost,
		CurrencyKind: kind,
		SlotType:     slot,
		Image:        "img/" + string(slot) + ".png",
	}
	require.NoError(t, repository.NewItemRepository(db).Create(context.Background(), item))
	return item
}

func GrantItem(t *testing.T, db *sqlx.DB, userID, itemID uuid.UUID, equipped bool) {
	t.Helper()
	entry := &domain.OwnedItem{UserID: userID, ItemID: itemID, Equipped: equipped}
	require.NoError(t, repository.NewOwnedItemRepository(db).Create(context.Background(), entry))
}
