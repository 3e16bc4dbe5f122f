package config

import (
	"os"
	"strconv"
)

// Storage backend names accepted by STOREFRONT_STORAGE.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

// Config holds the storefront client configuration, loaded from the
// environment (with .env support in main).
type Config struct {
	APIBaseURL string
	TenantID   string

	StorageBackend string
	StateDir       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	MetricsPort    string
	JaegerEndpoint string
	LogLevel       string
	Development    bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		APIBaseURL: getEnv("STOREFRONT_API_URL", "http://localhost:8000/api"),
		TenantID:   getEnv("STOREFRONT_TENANT_ID", "parfum-web"),

		StorageBackend: getEnv("STOREFRONT_STORAGE", StorageFile),
		StateDir:       getEnv("STOREFRONT_STATE_DIR", defaultStateDir()),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		MetricsPort:    getEnv("METRICS_PORT", "9100"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Development:    getEnvBool("DEVELOPMENT", false),
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return home + "/.storefront"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
