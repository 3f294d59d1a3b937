package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/product-inventory/internal/port"
)

const stockKeyPrefix = "qoh:"

var _ port.StockMirror = (*RedisAdapter)(nil)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetStock(ctx context.Context, warehouseID int, qoh int) error {
	return r.client.Set(ctx, stockKey(warehouseID), qoh, 0).Err()
}

func (r *RedisAdapter) DeleteStock(ctx context.Context, warehouseID int) error {
	return r.client.Del(ctx, stockKey(warehouseID)).Err()
}

// GetStock reports false when the warehouse is not mirrored.
func (r *RedisAdapter) GetStock(ctx context.Context, warehouseID int) (int, bool, error) {
	qoh, err := r.client.Get(ctx, stockKey(warehouseID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return qoh, true, nil
}

func stockKey(warehouseID int) string {
	return stockKeyPrefix + strconv.Itoa(warehouseID)
}
