package qsearch

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query outcomes as they appear on the queries_total counter.
const (
	OutcomeFound   = "found"
	OutcomeMissed  = "missed"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

/*
Metrics counts solver activity in prometheus collectors and keeps a sliding
window of query latencies for percentile reporting.
*/
type Metrics struct {
	mu sync.RWMutex

	queries  *prometheus.CounterVec
	rounds   prometheus.Counter
	shots    prometheus.Counter
	warnings *prometheus.CounterVec
	duration prometheus.Histogram

	QueryCount     int64
	AverageLatency time.Duration
	P95Latency     time.Duration
	P99Latency     time.Duration

	latencyWindow []time.Duration
	windowSize    int
}

/*
NewMetrics creates the collectors and registers them with reg. A nil reg
leaves them unregistered, which is what tests that only read the window want.
*/
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qsearch",
			Name:      "queries_total",
			Help:      "Less-than-k queries by outcome.",
		}, []string{"outcome"}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsearch",
			Name:      "amplification_rounds_total",
			Help:      "Circuit executions performed by the amplifier.",
		}),
		shots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qsearch",
			Name:      "shots_total",
			Help:      "Measurement trials run by the sampling executor.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qsearch",
			Name:      "precision_warnings_total",
			Help:      "Numerical precision warnings by pipeline stage.",
		}, []string{"stage"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qsearch",
			Name:      "query_duration_seconds",
			Help:      "Wall time of a less-than-k query.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		latencyWindow: make([]time.Duration, 0, 1000),
		windowSize:    1000,
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.queries, m.rounds, m.shots, m.warnings, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) recordQuery(start time.Time, outcome string) {
	if m == nil {
		return
	}

	elapsed := time.Since(start)

	m.queries.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	m.updateLatencyPercentiles(elapsed)
}

func (m *Metrics) recordRounds(rounds, shots int) {
	if m == nil {
		return
	}

	m.rounds.Add(float64(rounds))
	m.shots.Add(float64(rounds * shots))
}

func (m *Metrics) recordWarning(stage string) {
	if m == nil {
		return
	}

	m.warnings.WithLabelValues(stage).Inc()
}

func (m *Metrics) updateLatencyPercentiles(elapsed time.Duration) {
	m.AverageLatency = (m.AverageLatency*time.Duration(m.QueryCount-1) + elapsed) /
		time.Duration(m.QueryCount)

	m.latencyWindow = append(m.latencyWindow, elapsed)
	if len(m.latencyWindow) > m.windowSize {
		m.latencyWindow = m.latencyWindow[1:]
	}

	sorted := make([]time.Duration, len(m.latencyWindow))
	copy(sorted, m.latencyWindow)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	m.P95Latency = sorted[min(int(float64(len(sorted))*0.95), len(sorted)-1)]
	m.P99Latency = sorted[min(int(float64(len(sorted))*0.99), len(sorted)-1)]
}

// ExportMetrics snapshots the latency window. Nil metrics export nothing.
func (m *Metrics) ExportMetrics() map[string]any {
	if m == nil {
		return map[string]any{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]any{
		"query_count": m.QueryCount,
		"avg_latency": m.AverageLatency.Microseconds(),
		"p95_latency": m.P95Latency.Microseconds(),
		"p99_latency": m.P99Latency.Microseconds(),
	}
}
