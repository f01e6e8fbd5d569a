package lobbycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gameservice "github.com/grogbot/dominions-bot/app/modules/game/application"
	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "dombot:lobby:"
	defaultTTL = 2 * time.Minute
)

// RedisCache stores recently fetched lobby statuses in redis.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache wraps a redis client. A non-positive ttl uses the default.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// NewClient opens a redis client and verifies it with a ping.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func key(name string) string {
	return keyPrefix + name
}

func (c *RedisCache) Get(ctx context.Context, name string) (*gamedomain.LobbyStatus, error) {
	raw, err := c.client.Get(ctx, key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached status: %w", err)
	}

	var status gamedomain.LobbyStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("failed to decode cached status: %w", err)
	}
	return &status, nil
}

func (c *RedisCache) Set(ctx context.Context, name string, status *gamedomain.LobbyStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if err := c.client.Set(ctx, key(name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache status: %w", err)
	}
	return nil
}

var _ gameservice.LobbyCache = (*RedisCache)(nil)
