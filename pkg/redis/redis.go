package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/config"
)

// Client wraps the Redis connection.
// Used for the token blacklist and for cross-process cache invalidation.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and pings it.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken blacklists a JWT ID for the token's remaining lifetime.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether a JWT ID has been blacklisted.
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── cache invalidation pub/sub ──

const invalidationChannel = "cache:invalidate"

// PublishInvalidation notifies other processes that a collection key changed.
// The origin id lets subscribers skip their own messages.
func (c *Client) PublishInvalidation(ctx context.Context, originID, key string) error {
	return c.rdb.Publish(ctx, invalidationChannel, originID+"|"+key).Err()
}

// SubscribeInvalidations consumes invalidation messages from other processes
// and calls fn with the affected key. Messages published by originID itself
// are ignored. Runs until ctx is cancelled.
func (c *Client) SubscribeInvalidations(ctx context.Context, originID string, fn func(key string)) {
	sub := c.rdb.Subscribe(ctx, invalidationChannel)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				origin, key, found := strings.Cut(msg.Payload, "|")
				if !found || origin == originID || key == "" {
					continue
				}
				fn(key)
			}
		}
	}()
}

// Close shuts down the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
