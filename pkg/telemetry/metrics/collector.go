package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the proxy's Prometheus metrics. All series are registered
// against the collector's own registry rather than the global default so
// multiple collectors can coexist in tests.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	chunksForwarded  *prometheus.CounterVec
	upstreamErrors   *prometheus.CounterVec
	inflightRequests prometheus.Gauge
	providerReloads  prometheus.Counter
}

// Options configures a Collector.
type Options struct {
	// Enabled gates all recording. A disabled collector still serves an
	// empty registry so the endpoint can stay mounted.
	Enabled bool

	// Namespace is the metric name prefix. Defaults to "ollamux".
	Namespace string

	// DurationBuckets overrides the request duration histogram buckets.
	DurationBuckets []float64
}

// NewCollector creates a collector with all proxy metrics registered.
func NewCollector(opts Options) *Collector {
	if opts.Namespace == "" {
		opts.Namespace = "ollamux"
	}
	if len(opts.DurationBuckets) == 0 {
		// LLM completions routinely run for tens of seconds.
		opts.DurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}
	}

	registry := prometheus.NewRegistry()

	c := &Collector{
		enabled:  opts.Enabled,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "requests_total",
			Help:      "Proxied requests by provider, native model, and HTTP status.",
		}, []string{"provider", "model", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end proxied request duration in seconds.",
			Buckets:   opts.DurationBuckets,
		}, []string{"provider", "model"}),

		chunksForwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "stream_chunks_forwarded_total",
			Help:      "Streaming units (SSE events or NDJSON lines) relayed downstream.",
		}, []string{"provider"}),

		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "upstream_errors_total",
			Help:      "Upstream failures by provider and kind (unreachable, status_4xx, status_5xx).",
		}, []string{"provider", "kind"}),

		inflightRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Name:      "inflight_requests",
			Help:      "Proxied requests currently being served.",
		}),

		providerReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Name:      "provider_table_reloads_total",
			Help:      "Successful provider table reloads from the configuration file.",
		}),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.chunksForwarded,
		c.upstreamErrors,
		c.inflightRequests,
		c.providerReloads,
	)

	return c
}

// RecordRequest records a completed proxied request.
func (c *Collector) RecordRequest(provider, model, status string, duration time.Duration) {
	if !c.enabled {
		return
	}
	c.requestsTotal.WithLabelValues(provider, model, status).Inc()
	c.requestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// RecordChunks adds forwarded streaming units for a provider.
func (c *Collector) RecordChunks(provider string, n int) {
	if !c.enabled || n <= 0 {
		return
	}
	c.chunksForwarded.WithLabelValues(provider).Add(float64(n))
}

// RecordUpstreamError records an upstream failure of the given kind.
func (c *Collector) RecordUpstreamError(provider, kind string) {
	if !c.enabled {
		return
	}
	c.upstreamErrors.WithLabelValues(provider, kind).Inc()
}

// RequestStarted marks a request in flight. The returned function marks it
// finished and is safe to defer.
func (c *Collector) RequestStarted() func() {
	if !c.enabled {
		return func() {}
	}
	c.inflightRequests.Inc()
	return c.inflightRequests.Dec
}

// RecordReload counts a successful provider table reload.
func (c *Collector) RecordReload() {
	if !c.enabled {
		return
	}
	c.providerReloads.Inc()
}

// Registry returns the Prometheus registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
