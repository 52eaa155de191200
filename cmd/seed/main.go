package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"avatarshop/internal/config"
	"avatarshop/internal/domain"
	"avatarshop/internal/logger"
	"avatarshop/internal/repository"
	"avatarshop/internal/util"
)

type seedItem struct {
	name  string
	slot  domain.SlotType
	cost  uint
	kind  domain.CurrencyKind
	image string
}

var catalog = []seedItem{
	{"Red Cape", domain.SlotBack, 40, domain.CurrencyGold, "back/red_cape.png"},
	{"Angel Wings", domain.SlotBack, 5, domain.CurrencyTickets, "back/angel_wings.png"},
	{"Wool Scarf", domain.SlotFront, 15, domain.CurrencyGold, "front/wool_scarf.png"},
	{"Striped Tee", domain.SlotShirt, 20, domain.CurrencyGold, "shirt/striped_tee.png"},
	{"Tuxedo Jacket", domain.SlotShirt, 8, domain.CurrencyTickets, "shirt/tuxedo.png"},
	{"Blue Jeans", domain.SlotPants, 25, domain.CurrencyGold, "pants/blue_jeans.png"},
	{"Cargo Shorts", domain.SlotPants, 10, domain.CurrencyGold, "pants/cargo_shorts.png"},
	{"Starter Pack", domain.SlotPackage, 3, domain.CurrencyTickets, "package/starter.png"},
	{"Baseball Cap", domain.SlotHat, 100, domain.CurrencyGold, "hat/baseball_cap.png"},
	{"Top Hat", domain.SlotHat, 60, domain.CurrencyGold, "hat/top_hat.png"},
	{"Pigtails", domain.SlotHair, 0, domain.CurrencyGold, "hair/pigtails.png"},
	{"Mohawk", domain.SlotHair, 2, domain.CurrencyTickets, "hair/mohawk.png"},
}

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	l, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)
	if envErr != nil {
		l.Info(".env not loaded, relying on environment")
	}

	db, err := repository.New(cfg)
	if err != nil {
		l.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	l.Info("starting seed")

	if err := truncateTables(ctx, db.DB()); err != nil {
		l.Fatal("failed to truncate tables", zap.Error(err))
	}

	items, err := seedCatalog(ctx, db.DB())
	if err != nil {
		l.Fatal("failed to seed catalog", zap.Error(err))
	}

	if err := seedUsers(ctx, db.DB(), items); err != nil {
		l.Fatal("failed to seed users", zap.Error(err))
	}

	l.Info("seed completed", zap.Int("items", len(items)))
}

func truncateTables(ctx context.Context, db *sqlx.DB) error {
	for _, table := range []string{"owned_items", "items"} {
		query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
		zap.L().Debug("truncated table", zap.String("table", table))
	}
	return nil
}

func seedCatalog(ctx context.Context, db *sqlx.DB) ([]*domain.Item, error) {
	repo := repository.NewItemRepository(db)

	items := make([]*domain.Item, 0, len(catalog))
	for _, s := range catalog {
		item := &domain.Item{
			Name:         s.name,
			Description:  fmt.Sprintf("A %s for your avatar.", s.slot),
			Cost:         s.cost,
			CurrencyKind: s.kind,
			SlotType:     s.slot,
			Image:        s.image,
		}
		if err := repo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("create %s: %w", s.name, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// seedUsers creates an admin and a demo player. Existing accounts are left
// untouched so the seed can be rerun.
func seedUsers(ctx context.Context, db *sqlx.DB, items []*domain.Item) error {
	userRepo := repository.NewUserRepository(db)
	ownedRepo := repository.NewOwnedItemRepository(db)

	accounts := []struct {
		username string
		password string
		admin    bool
	}{
		{"admin", "password", true},
		{"demo", "password", false},
	}

	for _, a := range accounts {
		if _, err := userRepo.FindByUsername(ctx, a.username); err == nil {
			zap.L().Info("user already exists, skipping", zap.String("username", a.username))
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}

		hashed, err := util.HashPassword(a.password)
		if err != nil {
			return err
		}

		user := &domain.User{
			Username: a.username,
			Password: hashed,
			Gold:     domain.StartingGold,
			Tickets:  domain.StartingTickets,
			IsAdmin:  a.admin,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("create %s: %w", a.username, err)
		}

		if a.admin || len(items) == 0 {
			continue
		}
		// the demo player starts out wearing the free hair item
		for _, item := range items {
			if item.Cost == 0 {
				entry := &domain.OwnedItem{UserID: user.ID, ItemID: item.ID, Equipped: true}
				if err := ownedRepo.Create(ctx, entry); err != nil {
					return err
				}
			}
		}
		zap.L().Info("seeded user", zap.String("username", a.username), zap.Bool("admin", a.admin))
	}
	return nil
}
