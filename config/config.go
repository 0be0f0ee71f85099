package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required,numeric"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL   string        `env:"DATABASE_URL,required" validate:"required"`
	DBMaxConns    int32         `env:"DB_MAX_CONNS"    envDefault:"10" validate:"min=1,max=200"`
	DBMinConns    int32         `env:"DB_MIN_CONNS"    envDefault:"1"  validate:"min=0,ltefield=DBMaxConns"`
	DBConnTimeout time.Duration `env:"DB_CONN_TIMEOUT" envDefault:"5s" validate:"min=1s"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090" validate:"required,numeric,nefield=Port"`

	// There is no fallback secret: the process refuses to start without one.
	JWTSecret    string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"     envDefault:"168h" validate:"min=1m"`
	BcryptCost   int           `env:"BCRYPT_COST"   envDefault:"10"   validate:"min=4,max=31"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Optional per-IP throttle on register and login. Zero disables it.
	AuthRatePerSec float64 `env:"AUTH_RATE_PER_SEC" envDefault:"0"  validate:"gte=0"`
	AuthRateBurst  int     `env:"AUTH_RATE_BURST"   envDefault:"20" validate:"min=1,max=1000"`
}

// AuthRateLimited reports whether the credential endpoints are throttled.
func (c *Config) AuthRateLimited() bool {
	return c.AuthRatePerSec > 0
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SecureCookies is forced on outside local development.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure || c.Env != "local"
}
