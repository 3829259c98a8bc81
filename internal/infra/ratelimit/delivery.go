package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"notiq/internal/domain/notification"

	"github.com/redis/go-redis/v9"
)

var _ notification.DeliveryLimiter = (*RedisDeliveryLimiter)(nil)

// RedisDeliveryLimiter enforces per-user delivery quotas using a plain
// Redis counter with a TTL. The counter only moves on confirmed
// deliveries, and each increment resets the expiry, giving a sliding
// window measured from the last successful delivery. The counter is
// ephemeral: if Redis data is lost it rebuilds from zero.
type RedisDeliveryLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisDeliveryLimiter creates a new Redis-backed delivery limiter.
func NewRedisDeliveryLimiter(redisAddr, password string, db int, limit int, window time.Duration) *RedisDeliveryLimiter {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})

	return &RedisDeliveryLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

func (r *RedisDeliveryLimiter) key(userID int64) string {
	return fmt.Sprintf("notiq:sendlimit:%d", userID)
}

// Check reports whether the user is under their delivery quota.
// A missing key counts as zero.
func (r *RedisDeliveryLimiter) Check(ctx context.Context, userID int64) (bool, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading delivery counter: %w", err)
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("parsing delivery counter %q: %w", val, err)
	}

	return count < r.limit, nil
}

// Increment bumps the user's counter and resets its expiry to now + window.
func (r *RedisDeliveryLimiter) Increment(ctx context.Context, userID int64) error {
	pipe := r.client.Pipeline()
	pipe.Incr(ctx, r.key(userID))
	pipe.Expire(ctx, r.key(userID), r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("incrementing delivery counter: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (r *RedisDeliveryLimiter) Close() error {
	return r.client.Close()
}
