package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
)

const namespace = "peptide_insights"

// Metrics owns a private registry so tests and multiple app instances never
// collide on the default one. A nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	analyticsLatency  *prometheus.HistogramVec
	analyticsFailures *prometheus.CounterVec

	experiencesSubmitted prometheus.Counter
	idempotentReplays    prometheus.Counter
	votesRecorded        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		analyticsLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_operation_duration_seconds",
			Help:      "Aggregation latency including the store scan.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		analyticsFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_operation_failures_total",
			Help:      "Failed aggregations by operation and reason.",
		}, []string{"operation", "reason"}),
		experiencesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experiences_submitted_total",
			Help:      "Experiences accepted.",
		}),
		idempotentReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experience_idempotent_replays_total",
			Help:      "Submissions answered from a stored Idempotency-Key result.",
		}),
		votesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_recorded_total",
			Help:      "Votes recorded by type.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.analyticsLatency,
		m.analyticsFailures,
		m.experiencesSubmitted,
		m.idempotentReplays,
		m.votesRecorded,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAnalytics records one aggregation. err selects the failure reason.
func (m *Metrics) ObserveAnalytics(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.analyticsLatency.WithLabelValues(operation).Observe(d.Seconds())
	if err != nil {
		m.analyticsFailures.WithLabelValues(operation, failureReason(err)).Inc()
	}
}

func (m *Metrics) IncExperienceSubmitted() {
	if m == nil {
		return
	}
	m.experiencesSubmitted.Inc()
}

func (m *Metrics) IncIdempotentReplay() {
	if m == nil {
		return
	}
	m.idempotentReplays.Inc()
}

func (m *Metrics) IncVote(voteType string) {
	if m == nil {
		return
	}
	m.votesRecorded.WithLabelValues(voteType).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, pkgerrors.ErrStoreUnavailable):
		return "store_unavailable"
	}
	return "internal"
}
