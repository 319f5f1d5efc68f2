// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/target/backoffice-ui/internal/observability/errors"
)

const namespace = "backoffice"

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics groups the collectors registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	listFetches      *prometheus.CounterVec
	listDuration     *prometheus.HistogramVec
}

// New builds the collectors on a fresh registry. Process and Go runtime
// collectors are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the finance backend.",
		}, []string{"resource", "method", "status", "error_class"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of finance backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
		listFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_fetches_total",
			Help:      "List collection fetches by outcome (ok, error, stale, unauthorized).",
		}, []string{"resource", "outcome"}),
		listDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_fetch_duration_seconds",
			Help:      "Time spent fetching list collections.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	reg.MustRegister(m.upstreamRequests, m.upstreamDuration, m.listFetches, m.listDuration)
	if withRuntime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// UpstreamCall describes one finance backend request.
type UpstreamCall struct {
	Resource string
	Method   string
	// Status is the HTTP status, 0 when no response was received.
	Status   int
	Duration time.Duration
	Err      error
}

// ObserveUpstream records a backend request. Safe on a nil receiver.
func (m *Metrics) ObserveUpstream(in UpstreamCall) {
	if m == nil {
		return
	}
	status := "none"
	if in.Status > 0 {
		status = statusClass(in.Status)
	}
	class := ""
	if in.Err != nil {
		class = obserrors.Classify(in.Err)
	}
	m.upstreamRequests.WithLabelValues(in.Resource, in.Method, status, class).Inc()
	m.upstreamDuration.WithLabelValues(in.Resource, in.Method).Observe(in.Duration.Seconds())
}

// ObserveFetch records a list fetch outcome. Safe on a nil receiver.
func (m *Metrics) ObserveFetch(resource, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.listFetches.WithLabelValues(resource, outcome).Inc()
	m.listDuration.WithLabelValues(resource).Observe(d.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code == http.StatusUnauthorized:
		return "401"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
