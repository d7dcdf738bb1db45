package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := NewClient(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Nil(t, rdb)
}

func TestRedisCache_ReadErrorIsNotAMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })

	c := &RedisCache{Client: rdb, TTL: time.Minute}
	items, ok, err := c.Products(context.Background())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Nil(t, items)
	assert.Equal(t, DefaultKey, c.key())
}
