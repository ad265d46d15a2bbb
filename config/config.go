package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL        string     `env:"DATABASE_URL"`
	StorageDriver      string     `env:"STORAGE_DRIVER" envDefault:"postgres"`
	ServerPort         int        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel           slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	CORSAllowedOrigins []string   `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TournamentName     string     `env:"TOURNAMENT_NAME" envDefault:"Office Table Tennis"`
	R2                 R2Config   `envPrefix:"R2_"`
}

// R2Config is either fully set or fully empty; an empty one disables exports.
type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	BucketName      string `env:"BUCKET_NAME"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
}

func (c R2Config) fields() []string {
	return []string{c.AccountID, c.AccessKeyID, c.SecretAccessKey, c.BucketName, c.PublicBaseURL}
}

// Enabled reports whether object storage credentials are configured.
func (c R2Config) Enabled() bool {
	for _, f := range c.fields() {
		if f == "" {
			return false
		}
	}
	return true
}

func (c R2Config) empty() bool {
	for _, f := range c.fields() {
		if f != "" {
			return false
		}
	}
	return true
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Ошибку не считаем фатальной: .env есть только локально.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL environment variable is not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StorageDriver)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}

	if !c.R2.Enabled() && !c.R2.empty() {
		return errors.New("R2 settings are incomplete: set all of R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_BASE_URL or none")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
