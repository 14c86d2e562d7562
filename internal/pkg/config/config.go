package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL bounds session token lifetime; SessionTTL bounds the
	// server-side session slot. They match by default so web sessions
	// die with their tokens.
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=2h"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=2h"`

	// StoreBackend selects the repository implementation: "memory"
	// (default) or "mongo". SessionBackend selects the session slot:
	// "memory" (default) or "redis".
	StoreBackend   string `env:"STORE_BACKEND,   default=memory"`
	SessionBackend string `env:"SESSION_BACKEND, default=memory"`

	// SeedDemoData loads the demo accounts and catalog at boot.
	SeedDemoData bool `env:"SEED_DEMO_DATA, default=true"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
