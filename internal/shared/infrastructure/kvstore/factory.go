package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config holds key-value store configuration.
type Config struct {
	// Driver selects the backend. If empty or "auto" it is detected from URL.
	Driver Driver

	// URL is the connection string for postgres and redis, or a SQLite path.
	URL string

	// Path is the directory of the file backend and the default home of
	// the SQLite database. Defaults to ~/.pocketlist.
	Path string

	// Namespace scopes keys in shared backends (redis).
	Namespace string

	// MaxValueBytes caps the size of a stored value. Zero means unlimited.
	MaxValueBytes int

	// Breaker wraps the backend in a circuit breaker when enabled.
	Breaker BreakerConfig

	Logger *slog.Logger
}

// OpenFunc opens a backend for the given configuration.
type OpenFunc func(ctx context.Context, cfg Config) (Store, error)

var (
	driversMu sync.RWMutex
	drivers   = map[Driver]OpenFunc{}
)

// RegisterDriver makes a backend available to Open. Backends in subpackages
// register themselves from init.
func RegisterDriver(d Driver, fn OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[d] = fn
}

// Open creates the store described by cfg, applying the value limit and breaker.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	store, err := openBackend(ctx, driver, cfg)
	if err != nil {
		return nil, err
	}

	store = WithValueLimit(store, cfg.MaxValueBytes)
	if cfg.Breaker.Enabled {
		store = NewBreakerStore(store, cfg.Breaker, cfg.Logger)
	}

	cfg.Logger.Debug("key-value store opened", "driver", driver.String())
	return store, nil
}

func openBackend(ctx context.Context, driver Driver, cfg Config) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile:
		dir := cfg.Path
		if cfg.URL != "" && DetectDriver(cfg.URL) == DriverFile {
			dir = cfg.URL
		}
		return NewFileStore(dir)
	}

	driversMu.RLock()
	fn, ok := drivers[driver]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	return fn(ctx, cfg)
}

// DefaultPath returns the default storage directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".pocketlist")
}

// SQLitePath returns the database path for cfg: the URL with any sqlite://
// prefix removed, or data.db under Path.
func SQLitePath(cfg Config) string {
	if cfg.URL != "" {
		return strings.TrimPrefix(cfg.URL, "sqlite://")
	}
	dir := cfg.Path
	if dir == "" {
		dir = DefaultPath()
	}
	return filepath.Join(dir, "data.db")
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
