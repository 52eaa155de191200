package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"avatarshop/internal/domain"
	"avatarshop/internal/metrics"
	"avatarshop/internal/redis"
	"avatarshop/internal/repository"
)

var tracer = otel.Tracer("avatarshop/internal/api/services")

// BalanceNotifier receives the wallet of a user after it changed.
type BalanceNotifier interface {
	NotifyBalance(userID uuid.UUID, wallet domain.Wallet) error
}

type PurchaseService struct {
	db           *sqlx.DB
	balanceCache redis.Cache[domain.Wallet]
	notifier     BalanceNotifier
}

func NewPurchaseService(db *sqlx.DB, balanceCache redis.Cache[domain.Wallet], notifier BalanceNotifier) *PurchaseService {
	return &PurchaseService{
		db:           db,
		balanceCache: balanceCache,
		notifier:     notifier,
	}
}

// Purchase debits the item price from the user's wallet and adds the item
// to the inventory, unequipped. Both writes commit together or not at all.
func (s *PurchaseService) Purchase(ctx context.Context, userID, itemID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "PurchaseService.Purchase")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("item.id", itemID.String()),
	)

	user, item, err := s.purchase(ctx, userID, itemID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	kind := string(item.CurrencyKind)
	metrics.ItemsPurchased.WithLabelValues(kind).Inc()
	metrics.CurrencySpent.WithLabelValues(kind).Add(float64(item.Cost))

	// pushes of concurrent purchases may arrive out of commit order; BalanceWorker resyncs
	wallet := user.Wallet().Debit(item.CurrencyKind, item.Cost)
	if s.balanceCache != nil {
		if err := s.balanceCache.Delete(ctx, user.Username); err != nil {
			zap.L().Warn("invalidate balance cache", zap.String("username", user.Username), zap.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyBalance(userID, wallet); err != nil {
			zap.L().Warn("notify balance", zap.Stringer("user_id", userID), zap.Error(err))
		}
	}

	zap.L().Info("item purchased",
		zap.Stringer("user_id", userID),
		zap.Stringer("item_id", itemID),
		zap.Uint("cost", item.Cost),
		zap.String("currency", kind),
	)
	return nil
}

func (s *PurchaseService) purchase(ctx context.Context, userID, itemID uuid.UUID) (*domain.User, *domain.Item, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin purchase: %w", err)
	}
	defer tx.Rollback()

	userRepo := repository.NewUserRepository(tx)
	itemRepo := repository.NewItemRepository(tx)
	ownedRepo := repository.NewOwnedItemRepository(tx)

	// held until commit so an admin edit cannot change the price mid-purchase
	item, err := itemRepo.FindByIDForShare(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, fmt.Errorf("find item: %w", err)
	}

	user, err := userRepo.FindByIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("lock user: %w", err)
	}

	_, err = ownedRepo.FindByUserAndItem(ctx, userID, itemID)
	if err == nil {
		return nil, nil, ErrItemAlreadyOwned
	}
	if !errors.Is(err, repository.ErrOwnedItemNotFound) {
		return nil, nil, fmt.Errorf("check ownership: %w", err)
	}

	if !user.Wallet().CanAfford(item.CurrencyKind, item.Cost) {
		return nil, nil, ErrInsufficientFunds
	}

	if err := userRepo.Debit(ctx, userID, item.CurrencyKind, item.Cost); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) || errors.Is(err, repository.ErrUnknownCurrency) {
			return nil, nil, ErrInsufficientFunds
		}
		return nil, nil, fmt.Errorf("debit wallet: %w", err)
	}

	entry := &domain.OwnedItem{UserID: userID, ItemID: itemID}
	if err := ownedRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrOwnedItemExists) {
			return nil, nil, ErrItemAlreadyOwned
		}
		return nil, nil, fmt.Errorf("add to inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit purchase: %w", err)
	}
	return user, item, nil
}
