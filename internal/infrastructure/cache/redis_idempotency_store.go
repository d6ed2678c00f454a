package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmabill/backend/internal/domain/shared"
)

// RedisIdempotencyStore implements shared.IdempotencyStore on Redis, for
// deployments where several instances share webhook deduplication state.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore wraps an existing Redis client
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "webhook:idempotency:"
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// MarkProcessed records the notification via SETNX so concurrent deliveries
// race atomically. Returns true only for the delivery that won.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, notificationID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+notificationID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark notification processed: %w", err)
	}
	return ok, nil
}

// IsProcessed checks whether the notification ID is recorded
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, notificationID string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+notificationID).Result()
	if err != nil {
		return false, fmt.Errorf("check processed notification: %w", err)
	}
	return exists > 0, nil
}

// Release deletes the notification key so a retry can claim it
func (s *RedisIdempotencyStore) Release(ctx context.Context, notificationID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+notificationID).Err(); err != nil {
		return fmt.Errorf("release processed notification: %w", err)
	}
	return nil
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
