// Package kvstore provides the flat key-value medium the to-do collection is
// persisted in, with interchangeable backends.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

const (
	// KeyMaxLength is the maximum length of a storage key.
	KeyMaxLength = 256
)

var (
	// ErrKeyNotFound is returned by Get when the key holds no value.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for empty or oversized keys.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrValueTooLarge is returned when a value exceeds the configured limit.
	ErrValueTooLarge = errors.New("storage value too large")
	// ErrCircuitOpen is returned while the circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("storage circuit breaker is open")
	// ErrUnsupportedDriver is returned by Open for unknown or unregistered drivers.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// Store is a key-value medium. Set replaces the whole value atomically.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ValidateKey checks that key is non-empty and at most KeyMaxLength bytes.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if len(key) > KeyMaxLength {
		return fmt.Errorf("%w: key exceeds %d bytes", ErrInvalidKey, KeyMaxLength)
	}
	return nil
}

// limitedStore rejects values above a byte limit before they reach the backend.
type limitedStore struct {
	Store
	maxBytes int
}

// WithValueLimit wraps store so that Set fails with ErrValueTooLarge for values
// longer than maxBytes. A non-positive limit returns store unchanged.
func WithValueLimit(store Store, maxBytes int) Store {
	if maxBytes <= 0 {
		return store
	}
	return &limitedStore{Store: store, maxBytes: maxBytes}
}

func (s *limitedStore) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrValueTooLarge, len(value), s.maxBytes)
	}
	return s.Store.Set(ctx, key, value)
}
