package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tma-backend/internal/features/user/models"
	rplatform "tma-backend/internal/platform/redis"
)

// UserCache provides Redis-based caching for users keyed by Telegram id.
type UserCache struct {
	client *rplatform.Client
	ttl    time.Duration
}

func NewUserCache(client *rplatform.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) keyByID(id int64) string { return fmt.Sprintf("user:id:%d", id) }

func (c *UserCache) Set(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.keyByID(u.TelegramID), b, c.ttl).Err()
}

// Get returns nil, nil on a cache miss.
func (c *UserCache) Get(ctx context.Context, id int64) (*models.User, error) {
	v, err := c.client.Get(ctx, c.keyByID(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.keyByID(id)).Err()
}
