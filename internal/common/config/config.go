package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Mode selects which init-data strategy the process runs with.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

type Config struct {
	// APP_ENV defaults to production so a missing setting never enables mock logins.
	Env   string `env:"APP_ENV" envDefault:"production"`
	Debug bool   `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"3001"`
		AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
		SwaggerEnabled  bool          `env:"SWAGGER_ENABLED" envDefault:"false"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN"`
		// Seconds; 0 disables the auth_date freshness check.
		InitDataTTL int `env:"INIT_DATA_TTL" envDefault:"0"`
	}

	Postgres struct {
		// Empty URL puts the user service into degraded (non-persistent) mode.
		URL         string `env:"DATABASE_URL"`
		AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
		MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`

		ReferralTTL time.Duration `env:"REFERRAL_CACHE_TTL" envDefault:"24h"`
		UserTTL     time.Duration `env:"USER_CACHE_TTL" envDefault:"30s"`
	}

	Ton struct {
		AllowTestnet bool `env:"TON_TESTNET" envDefault:"false"`
	}
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch Mode(c.Env) {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("invalid APP_ENV %q: want %q or %q", c.Env, ModeDevelopment, ModeProduction)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	if c.Telegram.InitDataTTL < 0 {
		return fmt.Errorf("invalid INIT_DATA_TTL %d", c.Telegram.InitDataTTL)
	}
	return nil
}

func (c *Config) Mode() Mode { return Mode(c.Env) }

func (c *Config) IsProduction() bool { return c.Mode() == ModeProduction }

func (c *Config) InitDataTTL() time.Duration {
	return time.Duration(c.Telegram.InitDataTTL) * time.Second
}

// TestnetAllowed reports whether wallets on the TON testnet chain may be linked.
func (c *Config) TestnetAllowed() bool {
	return c.Ton.AllowTestnet || c.Mode() == ModeDevelopment
}
