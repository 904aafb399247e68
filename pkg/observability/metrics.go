package observability

import (
	"sync"
	"time"
)

// Metrics records application metrics.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is a metric label.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards all metrics.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)         {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps metrics in memory for tests and local runs.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

// NewInMemoryMetrics creates a new in-memory metrics collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[formatKey(name, tags)] += value
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	m.timings[key] = append(m.timings[key], duration)
}

// GetCounter returns the current value of a counter.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[formatKey(name, tags)]
}

// GetTimings returns all recorded timings.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timings[formatKey(name, tags)]
}

func formatKey(name string, tags []Tag) string {
	key := name
	for _, t := range tags {
		key += ":" + t.Key + "=" + t.Value
	}
	return key
}

// Metric names.
const (
	MetricOperationTotal    = "moodsphere.operation.total"
	MetricOperationDuration = "moodsphere.operation.duration"
	MetricOperationErrors   = "moodsphere.operation.errors"

	MetricEntriesSaved      = "moodsphere.journal.entries_saved"
	MetricEntriesDeleted    = "moodsphere.journal.entries_deleted"
	MetricAnalysisFallbacks = "moodsphere.journal.analysis_fallbacks"
	MetricTextAnalyses      = "moodsphere.analysis.text"
	MetricUpstreamFailures  = "moodsphere.analysis.upstream_failures"

	MetricInsightsCacheHits   = "moodsphere.insights.cache_hits"
	MetricInsightsCacheMisses = "moodsphere.insights.cache_misses"

	MetricEventsPublished = "moodsphere.events.published"
	MetricEventsConsumed  = "moodsphere.events.consumed"
	MetricEventsDispatch  = "moodsphere.events.dispatch"
	MetricEventsRequeued  = "moodsphere.events.requeued"
	MetricEventsDropped   = "moodsphere.events.dropped"
)
