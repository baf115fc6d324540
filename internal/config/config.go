package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"linkcut/internal/shortener"
)

type Config struct {
	Addr    string // listen address, e.g. ":8080"
	BaseURL string // public base for short links, no trailing slash

	DBDriver     string // postgres or sqlite
	DBURL        string
	GormLogLevel string

	RedisAddr     string // empty disables the resolve cache
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CodeLength int   // generated code length, clamped to [6, 8]
	NodeID     int64 // snowflake node id
}

// Load reads configuration from the environment, after loading .env when
// present for development convenience.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Debug(".env file not found, relying on env vars", "err", err)
	}

	cfg := &Config{
		Addr:          getEnv("ADDR", ":8080"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBURL:         getEnv("DB_URL", "file:linkcut.db"),
		GormLogLevel:  getEnv("GORM_LOG_LEVEL", "warn"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),
		CodeLength:    getEnvInt("CODE_LENGTH", shortener.DefaultLength),
		NodeID:        int64(getEnvInt("NODE_ID", 1)),
	}

	if cfg.CodeLength < shortener.MinLength {
		cfg.CodeLength = shortener.MinLength
	}
	if cfg.CodeLength > shortener.MaxLength {
		cfg.CodeLength = shortener.MaxLength
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer env var, using fallback", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration env var, using fallback", "key", key, "value", value)
		return fallback
	}
	return d
}
