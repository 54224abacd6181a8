package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeberg.org/architai/server/architai/sessions"
	"codeberg.org/architai/server/internal/logger"
	"github.com/redis/go-redis/v9"
)

// creates a new session cache with Redis connection
func NewSessionCache(redisURL string, ttl time.Duration) (*SessionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", "addr", opts.Addr)

	return NewSessionCacheWithClient(client, ttl), nil
}

func NewSessionCacheWithClient(client *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &SessionCache{
		client: client,
		ttl:    ttl,
	}
}

// exposes the underlying client for other Redis-backed components
func (c *SessionCache) Client() *redis.Client {
	return c.client
}

// closes the Redis connection
func (c *SessionCache) Close() error {
	return c.client.Close()
}

// returns the cached session, nil without error on a miss
func (c *SessionCache) Get(ctx context.Context, sessionID string) (*sessions.Session, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf(keySession, sessionID)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, nil // not in redis, caller should check the store
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session sessions.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}

	return &session, nil
}

// stores the session with the cache TTL
func (c *SessionCache) Set(ctx context.Context, session *sessions.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.client.Set(ctx, fmt.Sprintf(keySession, session.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in redis: %w", err)
	}

	return nil
}

// removes a cached session
func (c *SessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, fmt.Sprintf(keySession, sessionID)).Err()
}

// removes every cached session
func (c *SessionCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keySessionPattern, 100).Iterator()

	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached session: %w", err)
		}
	}

	return iter.Err()
}
