package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

type registration struct {
	id       uint64
	patterns []string
	consumer EventConsumer
}

// ConsumerRegistry manages event consumers and dispatches events to them.
type ConsumerRegistry struct {
	mu            sync.RWMutex
	next          uint64
	registrations []registration
	logger        *slog.Logger
}

// NewConsumerRegistry creates a new consumer registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register adds a consumer for its declared patterns and returns a function
// that removes it again.
func (r *ConsumerRegistry) Register(consumer EventConsumer) (unregister func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	id := r.next
	patterns := append([]string(nil), consumer.EventTypes()...)
	r.registrations = append(r.registrations, registration{id: id, patterns: patterns, consumer: consumer})
	r.logger.Debug("registered event consumer", "patterns", patterns)

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *ConsumerRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.registrations {
		if reg.id == id {
			r.registrations = append(r.registrations[:i:i], r.registrations[i+1:]...)
			return
		}
	}
}

// GetConsumers returns the consumers with a pattern matching routingKey, in
// registration order.
func (r *ConsumerRegistry) GetConsumers(routingKey string) []EventConsumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var consumers []EventConsumer
	for _, reg := range r.registrations {
		for _, pattern := range reg.patterns {
			if MatchRoutingKey(pattern, routingKey) {
				consumers = append(consumers, reg.consumer)
				break
			}
		}
	}
	return consumers
}

// Dispatch sends an event to every matching consumer. All consumers run even
// if some fail; their errors are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *Envelope) error {
	consumers := r.GetConsumers(event.RoutingKey)
	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var errs []error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.ErrorContext(ctx, "consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ConsumerCount returns the number of registered consumers.
func (r *ConsumerRegistry) ConsumerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.registrations)
}

// MatchRoutingKey reports whether key matches pattern using topic-exchange
// rules: words are separated by dots, "*" matches exactly one word and "#"
// matches zero or more words.
func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || pattern[0] != key[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
