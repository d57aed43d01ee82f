package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string        `env:"PORT,           default=8080"`
	Env           string        `env:"ENV,            default=development"`
	LogLevel      string        `env:"LOG_LEVEL,      default=info"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=24h"`

	Strapi StrapiConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type StrapiConfig struct {
	// BaseURL is the origin of the content backend, without the /api prefix.
	BaseURL string `env:"STRAPI_URL,       default=http://localhost:1337"`
	// AssetBaseURL is prepended to relative file paths returned by the
	// backend. Defaults to BaseURL when empty.
	AssetBaseURL string        `env:"STRAPI_ASSET_URL"`
	Timeout      time.Duration `env:"STRAPI_TIMEOUT,   default=15s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal_clientes"`
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
	if cfg.Strapi.AssetBaseURL == "" {
		cfg.Strapi.AssetBaseURL = cfg.Strapi.BaseURL
	}
	return &cfg
}
