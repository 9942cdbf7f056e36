package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                   string
	HTTPAddr              string
	LogLevel              string
	StorageMode           string
	MongoURI              string
	MongoDB               string
	RedisURL              string
	SiteCacheTTL          time.Duration
	KafkaBrokers          []string
	KafkaDiagnosticsTopic string
	QueryTimeout          time.Duration
	ShutdownTimeout       time.Duration
	MaxWindowDays         int
	DefaultCurrency       string
	SiteFixtures          string
	CORSOrigins           []string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:                   getEnv("APP_ENV", "dev"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		StorageMode:           strings.ToLower(getEnv("STORAGE_MODE", StorageMemory)),
		MongoURI:              os.Getenv("MONGO_URI"),
		MongoDB:               getEnv("MONGO_DB", "siteavail"),
		RedisURL:              os.Getenv("REDIS_URL"),
		KafkaDiagnosticsTopic: getEnv("KAFKA_DIAGNOSTICS_TOPIC", "siteavail.diagnostics"),
		DefaultCurrency:       strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		SiteFixtures:          getEnv("SITE_FIXTURES", "data/sites.json"),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "*"))

	ttl, err := parseDurationEnv("SITE_CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.SiteCacheTTL = ttl

	queryTimeout, err := parseDurationEnv("QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.QueryTimeout = queryTimeout

	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = shutdown

	maxWindow, err := parseIntEnv("MAX_WINDOW_DAYS", 366)
	if err != nil {
		return Config{}, err
	}
	if maxWindow <= 0 {
		return Config{}, fmt.Errorf("MAX_WINDOW_DAYS must be positive, got %d", maxWindow)
	}
	cfg.MaxWindowDays = maxWindow

	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}
	if len(cfg.DefaultCurrency) != 3 {
		return Config{}, fmt.Errorf("invalid DEFAULT_CURRENCY %q", cfg.DefaultCurrency)
	}
	return cfg, nil
}

// CacheEnabled reports whether site lookups go through Redis.
func (c Config) CacheEnabled() bool {
	return c.RedisURL != "" && c.SiteCacheTTL > 0
}

// DiagnosticsToKafka reports whether diagnostics are published to a topic.
func (c Config) DiagnosticsToKafka() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaDiagnosticsTopic != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
