package config

import (
	"testing"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

func TestDefaults(t *testing.T) {
	var c Config
	if err := cleanenv.ReadEnv(&c); err != nil {
		t.Fatal(err)
	}
	if c.Feed.Source != SourceGenerator || c.Feed.Latency != time.Second || c.Feed.Limit != 50 {
		t.Fatalf("unexpected feed defaults %+v", c.Feed)
	}
	if len(c.Feed.Friends) != 6 || c.Feed.Friends[0] != "Brooke Xu" {
		t.Fatalf("friends = %v", c.Feed.Friends)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FEED_SOURCE", "postgres")
	t.Setenv("FEED_LATENCY", "250ms")
	t.Setenv("FEED_FRIENDS", "Ana,Bo")
	t.Setenv("RETRY_MAX", "3")

	var c Config
	if err := cleanenv.ReadEnv(&c); err != nil {
		t.Fatal(err)
	}
	if c.Feed.Source != SourcePostgres || c.Feed.Latency != 250*time.Millisecond {
		t.Fatalf("overrides not applied %+v", c.Feed)
	}
	if len(c.Feed.Friends) != 2 || c.Feed.Friends[1] != "Bo" {
		t.Fatalf("friends = %v", c.Feed.Friends)
	}
	if c.Retry.Max != 3 {
		t.Fatalf("retry max = %d", c.Retry.Max)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Feed.Source = SourceGenerator
		c.Feed.Limit = 10
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Feed.Source = "kafka" }},
		{"failure rate above one", func(c *Config) { c.Feed.FailureRate = 1.5 }},
		{"negative failure rate", func(c *Config) { c.Feed.FailureRate = -0.1 }},
		{"negative latency", func(c *Config) { c.Feed.Latency = -time.Second }},
		{"zero limit", func(c *Config) { c.Feed.Limit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	c := valid()
	if err := c.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestGetDSN(t *testing.T) {
	var c Config
	c.Postgres.User = "feed"
	c.Postgres.Pass = "secret"
	c.Postgres.Host = "db"
	c.Postgres.Port = 5433
	c.Postgres.Name = "frugal"
	c.Postgres.SslMode = "disable"

	want := "postgres://feed:secret@db:5433/frugal?sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Fatalf("GetDSN() = %q, want %q", got, want)
	}
}
