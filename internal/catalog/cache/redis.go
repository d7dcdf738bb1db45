package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/internal/catalog/models"
)

const DefaultKey = "catalog:products"

func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// RedisCache stores the product listing as a single JSON value.
type RedisCache struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func (c *RedisCache) key() string {
	if c.Key == "" {
		return DefaultKey
	}
	return c.Key
}

func (c *RedisCache) Products(ctx context.Context) ([]models.Product, bool, error) {
	raw, err := c.Client.Get(ctx, c.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var items []models.Product
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode cached products: %w", err)
	}
	return items, true, nil
}

func (c *RedisCache) SetProducts(ctx context.Context, items []models.Product) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.key(), raw, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, c.key()).Err()
}
