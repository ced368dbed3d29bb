package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "BOT_TOKEN", "PORT", "ALLOWED_ORIGINS", "INIT_DATA_TTL", "REFERRAL_CACHE_TTL", "TON_TESTNET"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, cfg.Mode())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Duration(0), cfg.InitDataTTL())
	assert.Equal(t, 24*time.Hour, cfg.Redis.ReferralTTL)
	assert.False(t, cfg.TestnetAllowed())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "8080")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("INIT_DATA_TTL", "3600")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/tma")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeDevelopment, cfg.Mode())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, time.Hour, cfg.InitDataTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres://u:p@localhost:5432/tma", cfg.Postgres.URL)
	assert.True(t, cfg.TestnetAllowed())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "unknown env", mutate: func(c *Config) { c.Env = "staging" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Telegram.InitDataTTL = -1 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{Env: string(ModeProduction)}
			c.Server.Port = 3001
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
