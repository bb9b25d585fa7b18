package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore"
	_ "github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore/redis"    // Register Redis driver
	_ "github.com/felixgeelhaar/pocketlist/internal/shared/infrastructure/kvstore/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/pocketlist/internal/todo/application/board"
	"github.com/felixgeelhaar/pocketlist/internal/todo/application/usecases"
	"github.com/felixgeelhaar/pocketlist/internal/todo/domain/todo"
	"github.com/felixgeelhaar/pocketlist/internal/todo/infrastructure/persistence"
	"github.com/felixgeelhaar/pocketlist/pkg/config"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics

	// Storage
	Store    kvstore.Store
	TodoRepo todo.Repository

	// Events
	EventBus       *eventbus.InProcessEventBus
	EventPublisher eventbus.Publisher

	// Application
	TodoUseCases *usecases.TodoUseCases
	Board        *board.Board
}

// NewContainer wires the storage backend selected by cfg to the use cases.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
	}

	store, err := kvstore.Open(ctx, storeConfig(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	c.Store = store

	c.TodoRepo = persistence.NewKeyValueTodoRepository(store,
		persistence.WithKey(cfg.StorageKey),
		persistence.WithLogger(logger),
		persistence.WithMetrics(c.Metrics),
	)

	// Events stay in process unless a broker is configured
	c.EventBus = eventbus.NewInProcessEventBus(logger)
	c.EventBus.RegisterConsumer(eventbus.NewMetricsConsumer(c.Metrics))
	c.EventPublisher = c.EventBus

	if cfg.EventsToBroker() {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				_ = store.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, events stay in process", "error", err)
		} else {
			c.EventPublisher = eventbus.NewFanoutPublisher(c.EventBus, rabbit)
		}
	}

	c.TodoUseCases = usecases.NewTodoUseCases(c.TodoRepo, c.EventPublisher, logger)
	c.Board = board.New(c.TodoUseCases, logger)

	return c, nil
}

func storeConfig(cfg *config.Config, logger *slog.Logger) kvstore.Config {
	breaker := kvstore.DefaultBreakerConfig()
	breaker.Enabled = cfg.BreakerEnabled
	if cfg.BreakerFailureThreshold > 0 {
		breaker.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
	}
	if cfg.BreakerOpenTimeout > 0 {
		breaker.OpenTimeout = cfg.BreakerOpenTimeout
	}

	return kvstore.Config{
		Driver:        kvstore.Driver(cfg.StorageDriver),
		URL:           cfg.StorageURL,
		Path:          cfg.StoragePath,
		Namespace:     cfg.StorageNamespace,
		MaxValueBytes: cfg.StorageMaxValueBytes,
		Breaker:       breaker,
		Logger:        logger,
	}
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.Metrics != nil {
		c.Logger.Debug("session metrics", "counters", c.Metrics.Counters(), "gauges", c.Metrics.Gauges())
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("error closing storage", "error", err)
		} else {
			c.Logger.Debug("storage closed")
		}
	}
}
