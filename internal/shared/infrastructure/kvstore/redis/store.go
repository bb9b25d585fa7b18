package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore"
)

const keyPrefix = "pocketlist"

func init() {
	kvstore.RegisterDriver(kvstore.DriverRedis, Open)
}

// Store keeps values in Redis. Keys are namespaced: pocketlist:{namespace}:{key}
type Store struct {
	client    *goredis.Client
	namespace string
}

// Open connects to cfg.URL and returns the store.
func Open(ctx context.Context, cfg kvstore.Config) (kvstore.Store, error) {
	opt, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStore(client, cfg.Namespace), nil
}

// NewStore wraps an existing client.
func NewStore(client *goredis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = "default"
	}
	return &Store{client: client, namespace: namespace}
}

// namespaceKey creates a fully-qualified key.
func (s *Store) namespaceKey(key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s.namespace, key)
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := kvstore.ValidateKey(key); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, s.namespaceKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, kvstore.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores a value without expiration.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := kvstore.ValidateKey(key); err != nil {
		return err
	}
	return s.client.Set(ctx, s.namespaceKey(key), value, 0).Err()
}

// Delete removes a value by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := kvstore.ValidateKey(key); err != nil {
		return err
	}
	return s.client.Del(ctx, s.namespaceKey(key)).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
