package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tma-backend/internal/common/config"
	"tma-backend/internal/features/user/models"
	rplatform "tma-backend/internal/platform/redis"
)

// newTestClient connects to TEST_REDIS_ADDR; the tests are skipped without it.
func newTestClient(t *testing.T) *rplatform.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	cfg := &config.Config{}
	cfg.Redis.Addr = addr
	cfg.Redis.DB = 15

	client, err := rplatform.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestReferralCache(t *testing.T) {
	ctx := context.Background()
	cache := NewReferralCache(newTestClient(t), time.Minute)

	_, ok, err := cache.Lookup(ctx, "rmissing-"+t.Name())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Store(ctx, "rtestcode", 987654321))
	id, ok, err := cache.Lookup(ctx, "rtestcode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(987654321), id)
}

func TestUserCache(t *testing.T) {
	ctx := context.Background()
	cache := NewUserCache(newTestClient(t), time.Minute)

	username := "ann"
	ref := int64(1)
	u := &models.User{
		TelegramID:   424242,
		Username:     &username,
		FirstName:    "Ann",
		LanguageCode: "en",
		Role:         models.DefaultRole,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ReferrerID:   &ref,
		ReferralCode: "rabcdef012345678",
	}
	require.NoError(t, cache.Set(ctx, u))

	got, err := cache.Get(ctx, u.TelegramID)
	require.NoError(t, err)
	if diff := cmp.Diff(u, got); diff != "" {
		t.Errorf("cached user mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, cache.Invalidate(ctx, u.TelegramID))
	got, err = cache.Get(ctx, u.TelegramID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewClientRequiresAddr(t *testing.T) {
	_, err := rplatform.NewClient(context.Background(), &config.Config{})
	assert.ErrorIs(t, err, rplatform.ErrNotConfigured)
}
