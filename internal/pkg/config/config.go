package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=60m"`
	// CORSOrigins is a comma-separated allow list; empty disables CORS.
	CORSOrigins string `env:"CORS_ORIGINS"`

	// HistoryStore selects where audit rows are kept: "sql" or "mongo".
	HistoryStore string `env:"HISTORY_STORE, default=sql"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	DSN    string `env:"DB_DSN,    default=inventory.db"`
	Debug  bool   `env:"DB_DEBUG,  default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=inventory"`
}

// RedisConfig enables logout when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// AdminConfig is the account seeded when no Super Admin exists.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Password string `env:"ADMIN_PASSWORD, default=admin123"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
}

// Origins splits CORSOrigins into trimmed entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.HistoryStore {
	case "sql", "mongo":
	default:
		return nil, fmt.Errorf("config: HISTORY_STORE must be sql or mongo, got %q", cfg.HistoryStore)
	}
	return &cfg, nil
}
