package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/pocketlist/internal/shared/domain"
	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

// EventConsumer handles events whose routing key matches one of its patterns.
type EventConsumer interface {
	// EventTypes returns routing-key patterns, e.g. ["todo.created", "todo.*", "#"].
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *Envelope) error
}

// Envelope is the wire form of a domain event.
type Envelope struct {
	EventID       uuid.UUID            `json:"event_id"`
	AggregateID   string               `json:"aggregate_id"`
	AggregateType string               `json:"aggregate_type"`
	RoutingKey    string               `json:"routing_key"`
	OccurredAt    time.Time            `json:"occurred_at"`
	Payload       json.RawMessage      `json:"payload"`
	Metadata      domain.EventMetadata `json:"metadata"`
}

// NewEnvelope wraps event, encoding its exported fields as the payload.
func NewEnvelope(event domain.DomainEvent) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event.RoutingKey(), err)
	}
	return &Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Metadata:      event.Metadata(),
	}, nil
}

// PublishEvent encodes event and sends it through publisher. A missing
// correlation ID is taken from ctx.
func PublishEvent(ctx context.Context, publisher Publisher, event domain.DomainEvent) error {
	env, err := NewEnvelope(event)
	if err != nil {
		return err
	}
	if env.Metadata.CorrelationID == "" {
		env.Metadata.CorrelationID = observability.CorrelationIDFromContext(ctx)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	return publisher.Publish(ctx, env.RoutingKey, data)
}

// ConsumerFunc adapts a function to EventConsumer for the given patterns.
func ConsumerFunc(fn func(ctx context.Context, event *Envelope) error, patterns ...string) EventConsumer {
	return funcConsumer{patterns: patterns, fn: fn}
}

type funcConsumer struct {
	patterns []string
	fn       func(ctx context.Context, event *Envelope) error
}

func (c funcConsumer) EventTypes() []string { return c.patterns }

func (c funcConsumer) Handle(ctx context.Context, event *Envelope) error {
	return c.fn(ctx, event)
}
