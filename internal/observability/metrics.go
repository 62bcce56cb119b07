package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates metrics for support operations.
type Metrics struct {
	mu sync.Mutex

	// Counters
	requestTotal    atomic.Int64
	requestFailed   atomic.Int64
	escalationTotal atomic.Int64

	// Category-specific metrics
	categoryMetrics map[string]*CategoryMetrics

	// Duration histogram data (simplified for internal use)
	durations    []time.Duration
	maxDurations int
}

// CategoryMetrics represents metrics for a specific message category.
type CategoryMetrics struct {
	dispatchCount atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		categoryMetrics: make(map[string]*CategoryMetrics),
		durations:       make([]time.Duration, 0, maxDurations),
		maxDurations:    maxDurations,
	}
}

// RecordRequest records a dispatched request.
func (m *Metrics) RecordRequest(category string) {
	m.requestTotal.Add(1)
	m.getCategoryMetrics(category).dispatchCount.Add(1)
}

// RecordFailure records a failed request. Failures count toward the
// request total as well.
func (m *Metrics) RecordFailure(category string) {
	m.requestTotal.Add(1)
	m.requestFailed.Add(1)
	m.getCategoryMetrics(category).errorCount.Add(1)
}

// RecordEscalation records a turn that triggered human escalation.
func (m *Metrics) RecordEscalation() {
	m.escalationTotal.Add(1)
}

// RecordDuration records a request duration.
func (m *Metrics) RecordDuration(category string, duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		// Remove oldest duration (FIFO)
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()

	m.getCategoryMetrics(category).totalDuration.Add(duration.Milliseconds())
}

// GetRequestTotal returns the total number of requests.
func (m *Metrics) GetRequestTotal() int64 {
	return m.requestTotal.Load()
}

// GetRequestFailed returns the total number of failed requests.
func (m *Metrics) GetRequestFailed() int64 {
	return m.requestFailed.Load()
}

// GetEscalationTotal returns the total number of escalated turns.
func (m *Metrics) GetEscalationTotal() int64 {
	return m.escalationTotal.Load()
}

// getCategoryMetrics gets or creates category metrics.
func (m *Metrics) getCategoryMetrics(category string) *CategoryMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, ok := m.categoryMetrics[category]
	if !ok {
		cm = &CategoryMetrics{}
		m.categoryMetrics[category] = cm
	}
	return cm
}

// GetAverageDuration returns the average duration in milliseconds for a category.
func (m *Metrics) GetAverageDuration(category string) int64 {
	cm := m.getCategoryMetrics(category)
	count := cm.dispatchCount.Load()
	if count == 0 {
		return 0
	}
	return cm.totalDuration.Load() / count
}

// GetAllCategories returns all categories that have been recorded.
func (m *Metrics) GetAllCategories() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make([]string, 0, len(m.categoryMetrics))
	for category := range m.categoryMetrics {
		categories = append(categories, category)
	}
	return categories
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.escalationTotal.Store(0)

	m.mu.Lock()
	m.categoryMetrics = make(map[string]*CategoryMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	categorySnapshots := make(map[string]*CategoryMetricsSnapshot, len(m.categoryMetrics))
	for category, cm := range m.categoryMetrics {
		count := cm.dispatchCount.Load()
		var avg int64
		if count > 0 {
			avg = cm.totalDuration.Load() / count
		}
		categorySnapshots[category] = &CategoryMetricsSnapshot{
			DispatchCount:   count,
			TotalDuration:   cm.totalDuration.Load(),
			ErrorCount:      cm.errorCount.Load(),
			AverageDuration: avg,
		}
	}

	return &MetricsSnapshot{
		RequestTotal:    m.requestTotal.Load(),
		RequestFailed:   m.requestFailed.Load(),
		EscalationTotal: m.escalationTotal.Load(),
		CategoryMetrics: categorySnapshots,
		DurationCount:   len(m.durations),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal    int64
	RequestFailed   int64
	EscalationTotal int64
	CategoryMetrics map[string]*CategoryMetricsSnapshot
	DurationCount   int
}

// CategoryMetricsSnapshot represents metrics for a specific category.
type CategoryMetricsSnapshot struct {
	DispatchCount   int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
