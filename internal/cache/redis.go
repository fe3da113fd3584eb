package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCartCounts struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCartCounts(client *redis.Client) *RedisCartCounts {
	return &RedisCartCounts{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCartCounts) Get(ctx context.Context, userID string) (int64, error) {
	val, err := r.client.Get(ctx, countKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrCacheMiss
	}
	return count, nil
}

func (r *RedisCartCounts) Set(ctx context.Context, userID string, count int64) error {
	// Jitter spreads expirations so counts don't all refresh at once.
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, countKey(userID), count, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCartCounts) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, countKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func countKey(userID string) string {
	return "cart:count:" + userID
}
