package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries everything the binaries read from the environment. Fields
// default to a local development setup so `shopctl` works against a stub
// server started with no configuration at all.
type Config struct {
	App    AppConfig
	API    APIConfig
	Notify NotifyConfig
	Stub   StubConfig
}

type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"local"`
}

// APIConfig points the client at the marketplace API.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	TokenFile string        `env:"API_TOKEN_FILE"`
}

type NotifyConfig struct {
	PollInterval time.Duration `env:"NOTIFY_POLL_INTERVAL" envDefault:"10s"`
}

// StubConfig configures the in-memory stub API server.
type StubConfig struct {
	Port       int           `env:"STUB_PORT" envDefault:"8000"`
	JWTSecret  string        `env:"STUB_JWT_SECRET" envDefault:"local-dev-secret"`
	AccessTTL  time.Duration `env:"STUB_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"STUB_REFRESH_TTL" envDefault:"720h"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.API.BaseURL); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("API_BASE_URL must be an absolute url, got %q", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("API_TIMEOUT must be positive"))
	}
	if c.Notify.PollInterval <= 0 {
		errs = append(errs, errors.New("NOTIFY_POLL_INTERVAL must be positive"))
	}
	if c.Stub.Port < 1 || c.Stub.Port > 65535 {
		errs = append(errs, fmt.Errorf("STUB_PORT out of range: %d", c.Stub.Port))
	}
	if c.Stub.JWTSecret == "" {
		errs = append(errs, errors.New("STUB_JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && c.Stub.JWTSecret == "local-dev-secret" {
		errs = append(errs, errors.New("STUB_JWT_SECRET must be set in production"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool { return c.App.Env == "production" }

// HTTPAddr is the listen address for the stub server.
func (c StubConfig) HTTPAddr() string { return fmt.Sprintf(":%d", c.Port) }
