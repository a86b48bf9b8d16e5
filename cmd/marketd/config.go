package main

import (
	"os"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tokenauth"
	"github.com/joho/godotenv"
)

const (
	defaultAddr     = ":3000"
	defaultTokenTTL = 15 * time.Minute
)

// Config is the process configuration, read once at startup and immutable
// afterwards. Business logic never reads ambient state; the value is passed
// into the components that need it.
type Config struct {
	SigningKey string
	TokenTTL   time.Duration
	Addr       string
	DSN        string
	Debug      bool
}

var _ tokenauth.Config = (*Config)(nil)

// LoadConfig reads the environment, layering an optional .env file first.
// The signing key is mandatory: without it the process must refuse to serve.
func LoadConfig() (*Config, error) {
	// missing .env is fine, real env vars still apply
	_ = godotenv.Load()

	cfg := &Config{
		SigningKey: os.Getenv("AUTH_SIGNING_KEY"),
		Addr:       envOrDefault("SERVER_ADDR", defaultAddr),
		DSN:        os.Getenv("MARKETD_DSN"),
		TokenTTL:   defaultTokenTTL,
		Debug:      os.Getenv("MARKETD_DEBUG") == "true",
	}

	if cfg.SigningKey == "" {
		return nil, errors.New("AUTH_SIGNING_KEY not set; refusing to serve", errors.CategoryOperation)
	}

	if raw := os.Getenv("AUTH_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "invalid AUTH_TOKEN_TTL")
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetSigningMethod() string {
	return "HS256"
}

func (c *Config) GetContextKey() string {
	return "user"
}

func (c *Config) GetTokenTTL() time.Duration {
	return c.TokenTTL
}

func (c *Config) GetIssuer() string {
	return "marketd"
}

func (c *Config) GetAudience() []string {
	return nil
}

func (c *Config) GetAuthScheme() string {
	return "Bearer"
}
