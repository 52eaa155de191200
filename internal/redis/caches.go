package redis

import (
	"time"

	"github.com/redis/go-redis/v9"

	"avatarshop/internal/domain"
)

const (
	balanceTTL = 5 * time.Second
	catalogTTL = 30 * time.Second

	CatalogAllKey = "all"
)

// BalanceCache is keyed by username, matching the public balance lookup.
func BalanceCache(rdb *redis.Client) *JSONCache[domain.Wallet] {
	return NewJSONCache[domain.Wallet](rdb, "balance", balanceTTL)
}

func CatalogCache(rdb *redis.Client) *JSONCache[[]*domain.Item] {
	return NewJSONCache[[]*domain.Item](rdb, "catalog", catalogTTL)
}
