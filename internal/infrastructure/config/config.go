package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	Version  string `env:"VERSION,   default=dev"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens. Read once at startup and passed into
	// the token codec explicitly; never consulted again.
	JWTSecret      string `env:"JWT_SECRET"`
	TokenTTLHours  int    `env:"TOKEN_TTL_HOURS, default=10"`
	BcryptCost     int    `env:"BCRYPT_COST,     default=0"`
	InitDB         bool   `env:"INIT_DB,         default=false"`
	SeedAdminUser  string `env:"SEED_ADMIN_USER,     default=admin"`
	SeedAdminPass  string `env:"SEED_ADMIN_PASSWORD, default=changeme"`
	AuditWorkers   int    `env:"AUDIT_WORKERS,   default=4"`
	LoginAttempts  int    `env:"LOGIN_MAX_ATTEMPTS,  default=10"`
	LoginWindowMin int    `env:"LOGIN_WINDOW_MINUTES, default=15"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// LoginWindow returns the failed-login counting window as a duration.
func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.LoginWindowMin) * time.Minute
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
