// Package observability holds the Prometheus metrics for the risk pipeline
// and the broadcast hub.
//
// All metric operations are safe for concurrent use. A nil *Metrics is valid
// and records nothing, which keeps tests and library callers free of
// registry plumbing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "riskwatch"

const (
	hubSubsystem      = "hub"
	analyzerSubsystem = "analyzer"
	monitorSubsystem  = "monitor"
)

// Metrics groups every collector the service exports.
type Metrics struct {
	// ConnectionsActive tracks registered subscribers.
	ConnectionsActive prometheus.Gauge

	// DeliveriesTotal counts delivery attempts.
	// Labels: type (risk_update, critical_alert, stats_update), result (ok, error)
	DeliveriesTotal *prometheus.CounterVec

	// SubscribersDroppedTotal counts subscribers removed after a failed delivery.
	SubscribersDroppedTotal prometheus.Counter

	// BroadcastDurationSeconds measures a full fan-out sweep.
	// Labels: type
	BroadcastDurationSeconds *prometheus.HistogramVec

	// AnalysesTotal counts evaluated texts.
	// Labels: profile, level
	AnalysesTotal *prometheus.CounterVec

	// RiskScore observes assessment scores.
	RiskScore prometheus.Histogram

	// CacheLookupsTotal counts assessment cache lookups.
	// Labels: result (hit, miss)
	CacheLookupsTotal *prometheus.CounterVec

	// PollsTotal counts monitor polls.
	// Labels: result (ok, error)
	PollsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg. Use a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ConnectionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: hubSubsystem,
			Name:      "connections_active",
			Help:      "Number of registered subscribers",
		}),
		DeliveriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: hubSubsystem,
			Name:      "deliveries_total",
			Help:      "Delivery attempts by message type and result",
		}, []string{"type", "result"}),
		SubscribersDroppedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: hubSubsystem,
			Name:      "subscribers_dropped_total",
			Help:      "Subscribers removed after a failed delivery",
		}),
		BroadcastDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: hubSubsystem,
			Name:      "broadcast_duration_seconds",
			Help:      "Time to fan a message out to all subscribers",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5, 10},
		}, []string{"type"}),
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analyzerSubsystem,
			Name:      "analyses_total",
			Help:      "Evaluated texts by profile and level",
		}, []string{"profile", "level"}),
		RiskScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: analyzerSubsystem,
			Name:      "risk_score",
			Help:      "Distribution of assessment scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		CacheLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analyzerSubsystem,
			Name:      "cache_lookups_total",
			Help:      "Assessment cache lookups by result",
		}, []string{"result"}),
		PollsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: monitorSubsystem,
			Name:      "polls_total",
			Help:      "Monitor polls by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) SetConnections(n int) {
	if m == nil {
		return
	}
	m.ConnectionsActive.Set(float64(n))
}

func (m *Metrics) ObserveDelivery(msgType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DeliveriesTotal.WithLabelValues(msgType, result).Inc()
}

func (m *Metrics) ObserveDrop() {
	if m == nil {
		return
	}
	m.SubscribersDroppedTotal.Inc()
}

func (m *Metrics) ObserveBroadcast(msgType string, seconds float64) {
	if m == nil {
		return
	}
	m.BroadcastDurationSeconds.WithLabelValues(msgType).Observe(seconds)
}

func (m *Metrics) ObserveAnalysis(profile, level string, score int) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(profile, level).Inc()
	m.RiskScore.Observe(float64(score))
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	m.CacheLookupsTotal.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObservePoll(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.PollsTotal.WithLabelValues("error").Inc()
		return
	}
	m.PollsTotal.WithLabelValues("ok").Inc()
}
