package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ollamux/ollamux/pkg/accesslog"
	"github.com/ollamux/ollamux/pkg/providers"
	"github.com/ollamux/ollamux/pkg/proxy"
	"github.com/ollamux/ollamux/pkg/proxy/middleware"
	"github.com/ollamux/ollamux/pkg/telemetry/metrics"
)

// ProxyHandler serves model requests: it resolves the tagged model against
// the current provider table, rewrites and authenticates the request, and
// relays the upstream response.
type ProxyHandler struct {
	holder       *providers.Holder
	router       *proxy.Router
	relay        *proxy.Relay
	metrics      *metrics.Collector
	recorder     accesslog.Recorder
	maxBodyBytes int64
	logger       *slog.Logger
}

// ProxyHandlerOptions configures a ProxyHandler.
type ProxyHandlerOptions struct {
	// Holder supplies the current provider table.
	Holder *providers.Holder

	// Relay performs upstream calls. Required.
	Relay *proxy.Relay

	// Metrics records request metrics. Required.
	Metrics *metrics.Collector

	// Recorder persists access records. Defaults to a no-op recorder.
	Recorder accesslog.Recorder

	// MaxBodyBytes caps the inbound body size. Default: 32 MiB.
	MaxBodyBytes int64

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewProxyHandler creates the relay endpoint handler.
func NewProxyHandler(opts ProxyHandlerOptions) *ProxyHandler {
	if opts.Recorder == nil {
		opts.Recorder = accesslog.NopRecorder{}
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &ProxyHandler{
		holder:       opts.Holder,
		router:       proxy.NewRouter(),
		relay:        opts.Relay,
		metrics:      opts.Metrics,
		recorder:     opts.Recorder,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       opts.Logger,
	}
}

// ServeHTTP runs one request through the route, inject, relay pipeline.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	done := h.metrics.RequestStarted()
	defer done()

	rec := accesslog.NewRecord(start)
	rec.RequestID = middleware.GetRequestID(r.Context())
	rec.Method = r.Method
	rec.Path = r.URL.Path

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.fail(w, r, rec, start, &proxy.MalformedRequestError{
			Reason: fmt.Sprintf("reading request body: %v", err),
		})
		return
	}

	reg := h.holder.Load()
	call, err := h.router.Route(reg, r, body)
	if err != nil {
		h.fail(w, r, rec, start, err)
		return
	}

	rec.Provider = call.Provider.Name
	rec.Model = call.NativeModel
	rec.TaggedModel = call.TaggedModel

	h.logger.DebugContext(r.Context(), "request routed",
		"request_id", rec.RequestID,
		"provider", call.Provider.Name,
		"model", call.NativeModel,
		"upstream_url", call.URL,
	)

	result, err := h.relay.Relay(r.Context(), call, w)
	if err != nil {
		h.metrics.RecordUpstreamError(call.Provider.Name, "unreachable")
		h.fail(w, r, rec, start, err)
		return
	}

	if result.Status >= 500 {
		h.metrics.RecordUpstreamError(call.Provider.Name, "status_5xx")
	} else if result.Status >= 400 {
		h.metrics.RecordUpstreamError(call.Provider.Name, "status_4xx")
	}

	duration := time.Since(start)
	h.metrics.RecordRequest(call.Provider.Name, call.NativeModel, fmt.Sprintf("%d", result.Status), duration)
	h.metrics.RecordChunks(call.Provider.Name, result.Chunks)

	rec.Status = result.Status
	rec.Streamed = result.Streamed
	rec.Chunks = result.Chunks
	rec.Duration = duration
	h.record(r, rec)
}

// fail resolves a pipeline error into a synthesized downstream response and
// records it. Pipeline errors never reach this point after headers have
// been written, so WriteError is always safe here.
func (h *ProxyHandler) fail(w http.ResponseWriter, r *http.Request, rec *accesslog.Record, start time.Time, err error) {
	status := proxy.StatusForError(err)

	h.logger.WarnContext(r.Context(), "request failed",
		"request_id", rec.RequestID,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)

	proxy.WriteError(w, err)

	h.metrics.RecordRequest(rec.Provider, rec.Model, fmt.Sprintf("%d", status), time.Since(start))

	rec.Status = status
	rec.Duration = time.Since(start)
	h.record(r, rec)
}

// record persists the access record. Failures are logged, never surfaced.
// The insert runs on a fresh context so a disconnected client does not lose
// its record.
func (h *ProxyHandler) record(r *http.Request, rec *accesslog.Record) {
	if err := h.recorder.Record(context.WithoutCancel(r.Context()), rec); err != nil {
		h.logger.WarnContext(r.Context(), "failed to persist access record",
			"request_id", rec.RequestID,
			"error", err,
		)
	}
}
