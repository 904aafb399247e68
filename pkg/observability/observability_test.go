package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates JSON logger with service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf, ServiceName: "journal"})

		logger.Info("entry saved", "entry_id", "abc")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "entry saved", entry["msg"])
		assert.Equal(t, "abc", entry["entry_id"])
		assert.Equal(t, "journal", entry["service"])
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Format: LogFormatText, Output: &buf})

		logger.Info("info message")
		logger.Warn("warn message")

		assert.NotContains(t, buf.String(), "info message")
		assert.Contains(t, buf.String(), "warn message")
	})

	t.Run("adds ids from context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})

		ctx := WithRequestID(WithCorrelationID(context.Background(), "corr-1"), "req-1")
		logger.InfoContext(ctx, "handled")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "corr-1", entry[CorrelationIDKey])
		assert.Equal(t, "req-1", entry[RequestIDKey])
	})
}

func TestContextIDs(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricEntriesSaved, 1, T("analyzed", "true"))
	m.Counter(MetricEntriesSaved, 1, T("analyzed", "true"))
	m.Counter(MetricEntriesSaved, 1, T("analyzed", "false"))
	m.Timing("op", time.Millisecond)

	assert.Equal(t, int64(2), m.GetCounter(MetricEntriesSaved, T("analyzed", "true")))
	assert.Equal(t, int64(1), m.GetCounter(MetricEntriesSaved, T("analyzed", "false")))
	assert.Len(t, m.GetTimings("op"), 1)
}

func TestTimer_Stop(t *testing.T) {
	m := NewInMemoryMetrics()

	StartTimer("save").WithMetrics(m).Stop(nil)
	StartTimer("save").WithMetrics(m).Stop(errors.New("boom"))

	tag := T("operation", "save")
	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, tag))
}

func TestHealthRegistry(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("refused") }

	t.Run("healthy", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(ok))

		health := r.Check(context.Background())
		assert.Equal(t, HealthStatusHealthy, health.Status)
	})

	t.Run("redis failure degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(ok))
		r.Register("redis", RedisHealthChecker(fail))

		health := r.Check(context.Background())
		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Contains(t, health.Checks["redis"].Message, "refused")
	})

	t.Run("database failure is unhealthy over http", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(fail))

		rec := httptest.NewRecorder()
		r.Handler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body OverallHealth
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, HealthStatusUnhealthy, body.Status)
	})
}
