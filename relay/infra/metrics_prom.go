package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromMetrics implementa domain.Metrics com um registry próprio.
// Labels nunca incluem o tenant.
type PromMetrics struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	upstream *prometheus.HistogramVec
	rejects  *prometheus.CounterVec
}

func NewPromMetrics(namespace string) *PromMetrics {
	m := &PromMetrics{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_outcomes_total",
			Help:      "Relay requests by outcome",
		}, []string{"outcome"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Latency of the downstream workflow call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_requests_total",
			Help:      "Requests rejected at the edge by HTTP status",
		}, []string{"status"}),
	}
	m.registry.MustRegister(m.outcomes, m.upstream, m.rejects)
	return m
}

func (m *PromMetrics) IncOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *PromMetrics) ObserveUpstream(status int, d time.Duration) {
	m.upstream.WithLabelValues(strconv.Itoa(status)).Observe(d.Seconds())
}

// IncRejected conta rejeições da camada HTTP (origem, tenant ausente, edge guard...).
func (m *PromMetrics) IncRejected(status int) {
	m.rejects.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *PromMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
