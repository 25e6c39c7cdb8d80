// Package config builds the process configuration once at startup. Both
// functions receive the resulting Config explicitly; nothing reads the
// environment per request.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/monocle-dev/tasksync/internal/apperrors"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	TokenFormatHMAC = "hmac"
	TokenFormatJWT  = "jwt"
)

// Config keeps runtime settings for the service.
type Config struct {
	Port           string        `env:"PORT" envDefault:"3000"`
	JWTSecret      string        `env:"JWT_SECRET"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	DatabaseDriver string        `env:"DATABASE_DRIVER" envDefault:"postgres"`
	TokenFormat    string        `env:"TOKEN_FORMAT" envDefault:"hmac"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBLogLevel     string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
	GinMode        string        `env:"GIN_MODE" envDefault:"release"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Println(".env file not found, using process environment")
	}

	return Parse()
}

// Parse loads configuration from environment variables and validates it.
func Parse() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate fails on missing secrets or unknown enum values.
func (c *Config) Validate() error {
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	c.TokenFormat = strings.ToLower(strings.TrimSpace(c.TokenFormat))

	if c.JWTSecret == "" {
		return apperrors.Configuration("JWT_SECRET environment variable is not set")
	}

	if c.DatabaseURL == "" {
		return apperrors.Configuration("DATABASE_URL environment variable is not set")
	}

	switch c.DatabaseDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return apperrors.Configuration(fmt.Sprintf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	switch c.TokenFormat {
	case TokenFormatHMAC, TokenFormatJWT:
	default:
		return apperrors.Configuration(fmt.Sprintf("unsupported TOKEN_FORMAT %q", c.TokenFormat))
	}

	if c.TokenTTL <= 0 {
		return apperrors.Configuration("TOKEN_TTL must be positive")
	}

	if c.Port == "" {
		c.Port = "3000"
	}

	return nil
}
