package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AccessSource answers board-visibility questions authoritatively.
// *postgres.BoardRepo satisfies this interface.
type AccessSource interface {
	CanView(ctx context.Context, userID, boardID uuid.UUID) (bool, error)
}

// AccessCache fronts an AccessSource with a Redis TTL cache. Board watches
// are checked on every hub subscribe, which happens on each board
// navigation, so the hot path avoids a database round trip. Cache failures
// degrade to the source; they never deny access on their own.
type AccessCache struct {
	client *redis.Client
	source AccessSource
	ttl    time.Duration
}

func NewAccessCache(ctx context.Context, addr, password string, db int, source AccessSource, ttl time.Duration) (*AccessCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.NewAccessCache: ping: %w", err)
	}

	return &AccessCache{client: client, source: source, ttl: ttl}, nil
}

func (c *AccessCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("redis.AccessCache.Close: %w", err)
	}
	return nil
}

// CanView returns the cached answer when present, otherwise asks the source
// and caches the result.
func (c *AccessCache) CanView(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	key := AccessKey(userID, boardID)

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return val == "1", nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("access cache read failed, falling back to source")
	}

	allowed, err := c.source.CanView(ctx, userID, boardID)
	if err != nil {
		return false, fmt.Errorf("redis.AccessCache.CanView: %w", err)
	}

	cached := "0"
	if allowed {
		cached = "1"
	}
	if setErr := c.client.Set(ctx, key, cached, c.ttl).Err(); setErr != nil {
		log.Warn().Err(setErr).Str("key", key).Msg("access cache write failed")
	}

	return allowed, nil
}

// Invalidate drops the cached answer for one (user, board) pair. Called when
// a share is granted or revoked so the change takes effect before the TTL.
func (c *AccessCache) Invalidate(ctx context.Context, userID, boardID uuid.UUID) {
	key := AccessKey(userID, boardID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("access cache invalidate failed")
	}
}

// AccessKey returns the cache key for a (user, board) visibility answer.
func AccessKey(userID, boardID uuid.UUID) string {
	return "access:" + userID.String() + ":" + boardID.String()
}
