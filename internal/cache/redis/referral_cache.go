package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	rplatform "tma-backend/internal/platform/redis"
)

// ReferralCache maps referral codes to the owner's Telegram id.
// Codes never change once issued, so entries only expire by TTL.
type ReferralCache struct {
	client *rplatform.Client
	ttl    time.Duration
}

func NewReferralCache(client *rplatform.Client, ttl time.Duration) *ReferralCache {
	return &ReferralCache{client: client, ttl: ttl}
}

func (c *ReferralCache) key(code string) string { return "ref:code:" + code }

// Lookup returns the owner id; ok is false on a miss.
func (c *ReferralCache) Lookup(ctx context.Context, code string) (int64, bool, error) {
	id, err := c.client.Get(ctx, c.key(code)).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

func (c *ReferralCache) Store(ctx context.Context, code string, telegramID int64) error {
	return c.client.Set(ctx, c.key(code), telegramID, c.ttl).Err()
}
