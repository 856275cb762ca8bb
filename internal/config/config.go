// Package config loads runtime settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full runtime configuration.
type Config struct {
	Env             string
	Addr            string
	Backend         string
	DBPath          string
	Redis           RedisConfig
	CSRFKey         string
	HashPasswords   bool
	RefreshInterval time.Duration
	LogLevel        slog.Level
	SlowRequestMs   int
	SlowQueryMs     int
	Email           EmailConfig
}

// RedisConfig configures the redis document backend.
type RedisConfig struct {
	URL          string
	KeyPrefix    string
	Channel      string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// EmailConfig configures grave-alert escalation.
type EmailConfig struct {
	ResendKey  string
	From       string
	Recipients []string
}

// IsProduction reports whether Env is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:           envOrDefault("ERGOSANITAS_ENV", "development"),
		Addr:          envOrDefault("ERGOSANITAS_ADDR", ":8080"),
		Backend:       envOrDefault("ERGOSANITAS_BACKEND", BackendSQLite),
		DBPath:        envOrDefault("ERGOSANITAS_DB_PATH", "ergosanitas.db"),
		CSRFKey:       os.Getenv("ERGOSANITAS_CSRF_KEY"),
		HashPasswords: os.Getenv("ERGOSANITAS_HASH_PASSWORDS") == "true",
		Redis: RedisConfig{
			URL:          envOrDefault("ERGOSANITAS_REDIS_URL", "redis://localhost:6379/0"),
			KeyPrefix:    envOrDefault("ERGOSANITAS_REDIS_PREFIX", "ergosanitas:doc:"),
			Channel:      envOrDefault("ERGOSANITAS_REDIS_CHANNEL", "ergosanitas:changes"),
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Email: EmailConfig{
			ResendKey:  os.Getenv("ERGOSANITAS_RESEND_KEY"),
			From:       envOrDefault("ERGOSANITAS_EMAIL_FROM", "Ergo SaniTas <alertas@ergosanitas.cl>"),
			Recipients: splitList(os.Getenv("ERGOSANITAS_ESCALATION_TO")),
		},
	}

	var err error
	if cfg.Redis.PoolSize, err = intEnv("ERGOSANITAS_REDIS_POOL_SIZE", 10); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequestMs, err = intEnv("ERGOSANITAS_SLOW_REQUEST_MS", 500); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = intEnv("ERGOSANITAS_SLOW_QUERY_MS", 50); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = durationEnv("ERGOSANITAS_REFRESH_INTERVAL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("ERGOSANITAS_LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("ERGOSANITAS_LOG_LEVEL: %w", err)
	}

	switch cfg.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return Config{}, fmt.Errorf("ERGOSANITAS_BACKEND: unknown backend %q", cfg.Backend)
	}
	if cfg.RefreshInterval < time.Second {
		return Config{}, fmt.Errorf("ERGOSANITAS_REFRESH_INTERVAL: must be at least 1s, got %s", cfg.RefreshInterval)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
