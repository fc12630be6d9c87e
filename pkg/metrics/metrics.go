// Package metrics defines the Prometheus collectors exported by the matching
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Match paths recorded on DocumentsMatchedTotal.
const (
	PathResultCache    = "result_cache"
	PathVerdictCache   = "verdict_cache"
	PathPartialVerdict = "verdict_partial"
	PathScan           = "scan"
	PathBruteForce     = "bruteforce"
)

// Metrics holds all Prometheus collectors for one engine.
type Metrics struct {
	SubscriptionsActive     prometheus.Gauge
	TopicsActive            prometheus.Gauge
	DocumentsMatchedTotal   *prometheus.CounterVec
	MatchDuration           *prometheus.HistogramVec
	CacheLookupsTotal       *prometheus.CounterVec
	CacheEvictionsTotal     *prometheus.CounterVec
	ResultsStaged           prometheus.Gauge
	ResultsRetrievedTotal   prometheus.Counter
	ResultsUnavailableTotal prometheus.Counter
}

// New creates the collectors under namespace and registers them with reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		SubscriptionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "subscriptions_active",
				Help:      "Number of registered subscriptions.",
			},
		),
		TopicsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "topics_active",
				Help:      "Number of distinct (word, metric, tolerance) topics.",
			},
		),
		DocumentsMatchedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_matched_total",
				Help:      "Documents matched by resolution path.",
			},
			[]string{"path"},
		),
		MatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "match_duration_seconds",
				Help:      "Latency of one document match.",
				Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"strategy"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by cache and outcome (hit, miss).",
			},
			[]string{"cache", "outcome"},
		),
		CacheEvictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_evictions_total",
				Help:      "Entries evicted from bounded caches.",
			},
			[]string{"cache"},
		),
		ResultsStaged: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "results_staged",
				Help:      "Results waiting to be retrieved.",
			},
		),
		ResultsRetrievedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "results_retrieved_total",
				Help:      "Staged results consumed by a retrieval.",
			},
		),
		ResultsUnavailableTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "results_unavailable_total",
				Help:      "Retrievals for which no result was staged.",
			},
		),
	}

	reg.MustRegister(
		m.SubscriptionsActive,
		m.TopicsActive,
		m.DocumentsMatchedTotal,
		m.MatchDuration,
		m.CacheLookupsTotal,
		m.CacheEvictionsTotal,
		m.ResultsStaged,
		m.ResultsRetrievedTotal,
		m.ResultsUnavailableTotal,
	)
	return m
}

// NewUnregistered returns collectors bound to a private registry, for engines
// running with metrics disabled.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry(), "")
}

// CacheHit records a lookup outcome for the named cache.
func (m *Metrics) CacheHit(cache string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(cache, outcome).Inc()
}

// Evicted returns a callback that counts evictions for the named cache.
func (m *Metrics) Evicted(cache string) func() {
	c := m.CacheEvictionsTotal.WithLabelValues(cache)
	return func() { c.Inc() }
}
