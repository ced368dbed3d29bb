package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tma-backend/internal/common/config"
	"tma-backend/internal/common/logger"
)

var ErrNotConfigured = errors.New("redis address is not configured")

// Client wraps the go-redis client used by the caches.
type Client struct {
	*redis.Client
}

// NewClient connects to REDIS_ADDR and pings it. Callers treat a failure as
// "run without cache", never as fatal.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, ErrNotConfigured
	}
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Redis.Addr).Int("db", cfg.Redis.DB).Msg("Redis client initialized")
	return &Client{Client: c}, nil
}

// HealthCheck проверяет доступность Redis
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
