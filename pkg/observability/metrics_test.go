package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	// Should not panic
	m.Counter("test", 1)
	m.Gauge("test", 1.0)
	m.Timing("test", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("Counter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1)
		m.Counter("requests", 2)

		assert.Equal(t, int64(3), m.GetCounter("requests"))
	})

	t.Run("Counter with tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("ops", 1, T("operation", "create"))
		m.Counter("ops", 1, T("operation", "delete"))
		m.Counter("ops", 1, T("operation", "create"))

		assert.Equal(t, int64(2), m.GetCounter("ops", T("operation", "create")))
		assert.Equal(t, int64(1), m.GetCounter("ops", T("operation", "delete")))
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("ops", 1, T("a", "1"), T("b", "2"))

		assert.Equal(t, int64(1), m.GetCounter("ops", T("b", "2"), T("a", "1")))
	})

	t.Run("Gauge", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("todos", 3)
		m.Gauge("todos", 5)

		assert.Equal(t, 5.0, m.GetGauge("todos"))
	})

	t.Run("Timing", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing("latency", 10*time.Millisecond)
		m.Timing("latency", 20*time.Millisecond)

		assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, m.GetTimings("latency"))
	})

	t.Run("Reset", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("c", 1)
		m.Gauge("g", 1)
		m.Timing("t", time.Second)

		m.Reset()

		assert.Zero(t, m.GetCounter("c"))
		assert.Zero(t, m.GetGauge("g"))
		assert.Empty(t, m.GetTimings("t"))
	})
}

func TestInMemoryMetrics_Snapshots(t *testing.T) {
	m := NewInMemoryMetrics()
	m.Counter("ops", 2, T("outcome", "success"))
	m.Gauge("stored", 3)

	counters := m.Counters()
	assert.Equal(t, map[string]int64{"ops:outcome=success": 2}, counters)
	assert.Equal(t, map[string]float64{"stored": 3}, m.Gauges())

	counters["ops:outcome=success"] = 99
	assert.Equal(t, int64(2), m.GetCounter("ops", T("outcome", "success")), "snapshot is a copy")
}

func TestTimer(t *testing.T) {
	t.Run("records success", func(t *testing.T) {
		m := NewInMemoryMetrics()
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelDebug, Output: &buf})

		d := StartTimer("list todos").WithLogger(logger).WithMetrics(m).Stop(context.Background())

		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Equal(t, int64(1), m.GetCounter(MetricRepositoryOperations, T(OperationKey, "list todos"), T(OutcomeKey, OutcomeSuccess)))
		assert.Zero(t, m.GetCounter(MetricRepositoryOperations, T(OperationKey, "list todos"), T(OutcomeKey, OutcomeError)))
		assert.Len(t, m.GetTimings(MetricRepositoryDuration, T(OperationKey, "list todos")), 1)
		assert.Contains(t, buf.String(), "operation completed")
	})

	t.Run("records failure", func(t *testing.T) {
		m := NewInMemoryMetrics()
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Output: &buf})

		err := TimeOperation(context.Background(), logger, m, "create todo", func() error {
			return errors.New("disk full")
		})

		require.Error(t, err)
		assert.Equal(t, int64(1), m.GetCounter(MetricRepositoryOperations, T(OperationKey, "create todo"), T(OutcomeKey, OutcomeError)))
		assert.Contains(t, buf.String(), "operation failed")
		assert.Contains(t, buf.String(), "disk full")
	})

	t.Run("extra tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		StartTimer("get todo").WithMetrics(m).WithTags(T("driver", "memory")).Stop(context.Background())

		assert.Equal(t, int64(1), m.GetCounter(MetricRepositoryOperations, T("driver", "memory"), T(OperationKey, "get todo"), T(OutcomeKey, OutcomeSuccess)))
	})

	t.Run("result helper", func(t *testing.T) {
		m := NewInMemoryMetrics()

		n, err := TimeOperationResult(context.Background(), nil, m, "count", func() (int, error) {
			return 7, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 7, n)
		assert.Equal(t, int64(1), m.GetCounter(MetricRepositoryOperations, T(OperationKey, "count"), T(OutcomeKey, OutcomeSuccess)))
	})
}
