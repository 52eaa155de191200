package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// Idempotency reserves request keys so a retried request is applied once.
type Idempotency struct {
	client *redis.Client
	prefix string
}

func NewIdempotency(client *redis.Client, prefix string) *Idempotency {
	return &Idempotency{client: client, prefix: prefix}
}

// Reserve returns false when key was already reserved. Without a client
// every reservation succeeds.
func (i *Idempotency) Reserve(ctx context.Context, key string) (bool, error) {
	if i == nil || i.client == nil {
		return true, nil
	}
	return i.client.SetNX(ctx, i.prefix+":"+key, 1, idempotencyTTL).Result()
}

func (i *Idempotency) Release(ctx context.Context, key string) error {
	if i == nil || i.client == nil {
		return nil
	}
	return i.client.Del(ctx, i.prefix+":"+key).Err()
}
