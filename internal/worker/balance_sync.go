package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"avatarshop/internal/domain"
	"avatarshop/internal/repository"
)

type WalletSource interface {
	GetWalletsForUsers(ctx context.Context, userIDs []uuid.UUID) ([]repository.WalletSnapshot, error)
}

type Pusher interface {
	GetConnectedUserIDs() []uuid.UUID
	NotifyBalance(userID uuid.UUID, wallet domain.Wallet) error
}

// BalanceWorker periodically resends the wallet of every connected user so
// clients recover from missed pushes.
type BalanceWorker struct {
	wallets  WalletSource
	hub      Pusher
	interval time.Duration
}

func NewBalanceWorker(db *sqlx.DB, hub Pusher, interval time.Duration) *BalanceWorker {
	return &BalanceWorker{
		wallets:  repository.NewUserRepository(db),
		hub:      hub,
		interval: interval,
	}
}

func (w *BalanceWorker) StartWorker(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.syncBalances(ctx)
		}
	}
}

func (w *BalanceWorker) syncBalances(ctx context.Context) int {
	connected := w.hub.GetConnectedUserIDs()
	if len(connected) == 0 {
		return 0
	}

	snapshots, err := w.wallets.GetWalletsForUsers(ctx, connected)
	if err != nil {
		zap.L().Error("load wallets for balance sync", zap.Error(err))
		return 0
	}

	sent := 0
	for _, s := range snapshots {
		if err := w.hub.NotifyBalance(s.UserID, s.Wallet); err != nil {
			zap.L().Warn("push balance", zap.Stringer("user_id", s.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	zap.L().Debug("balance sync", zap.Int("connected", len(connected)), zap.Int("sent", sent))
	return sent
}
