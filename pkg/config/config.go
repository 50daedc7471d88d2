package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SourceGenerator = "generator"
	SourcePostgres  = "postgres"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryDSN string `env:"SENTRY_DSN"`
	}
	Feed struct {
		Source          string        `env:"FEED_SOURCE" env-default:"generator" env-description:"generator or postgres"`
		Latency         time.Duration `env:"FEED_LATENCY" env-default:"1s"`
		RefreshInterval time.Duration `env:"FEED_REFRESH_INTERVAL" env-default:"0s" env-description:"0 disables scheduled refresh"`
		FailureRate     float64       `env:"FEED_FAILURE_RATE" env-default:"0"`
		Fixtures        string        `env:"FEED_FIXTURES" env-description:"YAML fixture file, empty uses the built-in set"`
		Limit           int           `env:"FEED_LIMIT" env-default:"50"`
		Friends         []string      `env:"FEED_FRIENDS" env-default:"Brooke Xu,Nicole Deng,Ziya Momin,Adam Liu,Joe Fisherman,Bennett Zeus"`
		RefreshPerMin   int           `env:"FEED_REFRESH_RATE_PER_MINUTE" env-default:"6"`
		RefreshBurst    int           `env:"FEED_REFRESH_BURST" env-default:"3"`
	}
	Retry struct {
		Max             uint64        `env:"RETRY_MAX" env-default:"0"`
		InitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" env-default:"500ms"`
		MaxInterval     time.Duration `env:"RETRY_MAX_INTERVAL" env-default:"5s"`
		Multiplier      float64       `env:"RETRY_MULTIPLIER" env-default:"1.5"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, cfg.Validate()
}

// Validate rejects values the feed cannot run with.
func (c *Config) Validate() error {
	switch c.Feed.Source {
	case SourceGenerator, SourcePostgres:
	default:
		return fmt.Errorf("unknown FEED_SOURCE %q", c.Feed.Source)
	}
	if c.Feed.FailureRate < 0 || c.Feed.FailureRate > 1 {
		return fmt.Errorf("FEED_FAILURE_RATE must be within [0, 1], got %v", c.Feed.FailureRate)
	}
	if c.Feed.Latency < 0 {
		return fmt.Errorf("FEED_LATENCY must not be negative, got %s", c.Feed.Latency)
	}
	if c.Feed.Limit <= 0 {
		return fmt.Errorf("FEED_LIMIT must be positive, got %d", c.Feed.Limit)
	}
	return nil
}

// GetDSN builds a postgres URL for goose and pgx.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
