package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rudder/pkg/dialog"
)

const redisKeyPrefix = "rudder:session:"

// RedisStore is a Redis-backed Store for multi-replica deployments. Contexts
// are stored as JSON with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store over an existing Redis client. A non-positive
// ttl falls back to DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// DialRedis connects to Redis and verifies the connection.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Save persists the context as JSON, refreshing the TTL.
func (r *RedisStore) Save(ctx context.Context, c *dialog.Context) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(c.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", c.SessionID, err)
	}
	return nil
}

// Load retrieves and decodes a stored context.
func (r *RedisStore) Load(ctx context.Context, sessionID string) (*dialog.Context, error) {
	data, err := r.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var c dialog.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &c, nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
