package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Storage
	StorageDriver        string
	StorageURL           string
	StoragePath          string
	StorageKey           string
	StorageNamespace     string
	StorageMaxValueBytes int

	// Circuit breaker around the storage backend
	BreakerEnabled          bool
	BreakerFailureThreshold int
	BreakerOpenTimeout      time.Duration

	// RabbitMQ
	RabbitMQURL string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		StorageDriver:        getEnv("STORAGE_DRIVER", ""),
		StorageURL:           getEnv("STORAGE_URL", ""),
		StoragePath:          getEnv("STORAGE_PATH", defaultStoragePath()),
		StorageKey:           getEnv("STORAGE_KEY", "todos"),
		StorageNamespace:     getEnv("STORAGE_NAMESPACE", "default"),
		StorageMaxValueBytes: getIntEnv("STORAGE_MAX_VALUE_BYTES", 0),

		BreakerEnabled:          getBoolEnv("BREAKER_ENABLED", false),
		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerOpenTimeout:      getDurationEnv("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// EventsToBroker reports whether change events are sent to RabbitMQ.
func (c *Config) EventsToBroker() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pocketlist"
	}
	return filepath.Join(home, ".pocketlist")
}
