package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends
const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

// Config holds process configuration read from the environment
type Config struct {
	HTTPPort        string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Store         string `env:"STORE" envDefault:"mongo"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"herovault"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"herovault.db"`

	// Empty RedisAddr runs without cache and leaderboard, with an in-process feed
	RedisAddr string        `env:"REDIS_URI" envDefault:"localhost:6379"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"super-secret-key-change-in-production"`
	AdminUsername   string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword   string        `env:"ADMIN_PASSWORD" envDefault:"password123"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"720h"`

	// Bound sessions with no connections are closed after this long; 0 keeps them
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	Logging LoggingConfig
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // text|json
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.RedisAddr = strings.TrimPrefix(cfg.RedisAddr, "redis://")

	switch cfg.Store {
	case StoreMongo, StoreSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE %q (want %s or %s)", cfg.Store, StoreMongo, StoreSQLite)
	}
	return &cfg, nil
}
