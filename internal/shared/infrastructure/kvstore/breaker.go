package kvstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a Store.
type BreakerConfig struct {
	Enabled bool
	// Name identifies the breaker in logs.
	Name string
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probe calls allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "kvstore",
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// BreakerStore fails fast with ErrCircuitOpen after repeated backend failures.
// It never retries; a failed call fails the caller immediately.
type BreakerStore struct {
	store   Store
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewBreakerStore wraps store with a circuit breaker.
func NewBreakerStore(store Store, cfg BreakerConfig, logger *slog.Logger) *BreakerStore {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = defaults.HalfOpenRequests
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: isBackendHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("storage circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerStore{
		store:   store,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  logger,
	}
}

// isBackendHealthy treats caller-side errors as successes so they never trip the circuit.
func isBackendHealthy(err error) bool {
	return err == nil ||
		errors.Is(err, ErrKeyNotFound) ||
		errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrValueTooLarge) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (s *BreakerStore) execute(fn func() ([]byte, error)) ([]byte, error) {
	val, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return val, err
}

// Get retrieves a value through the breaker.
func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.execute(func() ([]byte, error) {
		return s.store.Get(ctx, key)
	})
}

// Set stores a value through the breaker.
func (s *BreakerStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.execute(func() ([]byte, error) {
		return nil, s.store.Set(ctx, key, value)
	})
	return err
}

// Delete removes a value through the breaker.
func (s *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := s.execute(func() ([]byte, error) {
		return nil, s.store.Delete(ctx, key)
	})
	return err
}

// Close closes the wrapped store.
func (s *BreakerStore) Close() error {
	return s.store.Close()
}

// State returns the current breaker state.
func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}
