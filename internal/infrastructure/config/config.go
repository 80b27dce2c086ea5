package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	Session SessionConfig
	Backend BackendConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	TTL        time.Duration `env:"SESSION_TTL,         default=24h"`
	CookieName string        `env:"SESSION_COOKIE_NAME, default=hdq_session"`
}

type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, default=http://localhost:9090"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=5s"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,           default=helpdesk_console"`
	PingTimeout time.Duration `env:"MONGO_PING_TIMEOUT, default=10s"`
}

// RedisConfig has no default address on purpose: an unset REDIS_ADDR selects
// the in-memory session store, so the gateway runs without Redis out of the
// box.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	DB          int           `env:"REDIS_DB,           default=0"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
