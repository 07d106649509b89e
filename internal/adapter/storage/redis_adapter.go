package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/batch-allocation/internal/core/domain"
	"github.com/rl1809/batch-allocation/internal/port"
)

const (
	allocationKeyPrefix  = "allocation:"
	defaultAllocationTTL = 24 * time.Hour
)

var _ port.AllocationCache = (*RedisAdapter)(nil)

// RedisAdapter remembers which batch an order line went to.
type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	if ttl <= 0 {
		ttl = defaultAllocationTTL
	}
	return &RedisAdapter{client: client, ttl: ttl}
}

func allocationKey(line domain.OrderLine) string {
	return fmt.Sprintf("%s%s:%s:%d", allocationKeyPrefix, line.OrderID, line.SKU, line.Qty)
}

func (r *RedisAdapter) GetAllocation(ctx context.Context, line domain.OrderLine) (string, bool, error) {
	ref, err := r.client.Get(ctx, allocationKey(line)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ref, true, nil
}

// SetAllocation keeps the first batch recorded for a line.
func (r *RedisAdapter) SetAllocation(ctx context.Context, line domain.OrderLine, batchRef string) error {
	return r.client.SetNX(ctx, allocationKey(line), batchRef, r.ttl).Err()
}

func (r *RedisAdapter) ClearAllocation(ctx context.Context, line domain.OrderLine) error {
	return r.client.Del(ctx, allocationKey(line)).Err()
}
