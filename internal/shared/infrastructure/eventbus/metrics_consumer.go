package eventbus

import (
	"context"

	"github.com/felixgeelhaar/pocketlist/pkg/observability"
)

// MetricsConsumer counts every event it sees, tagged by routing key.
type MetricsConsumer struct {
	metrics observability.Metrics
}

// NewMetricsConsumer creates a consumer that records into metrics.
func NewMetricsConsumer(metrics observability.Metrics) *MetricsConsumer {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &MetricsConsumer{metrics: metrics}
}

// EventTypes subscribes to everything.
func (c *MetricsConsumer) EventTypes() []string {
	return []string{"#"}
}

func (c *MetricsConsumer) Handle(_ context.Context, event *Envelope) error {
	c.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", event.RoutingKey))
	return nil
}
