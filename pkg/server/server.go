package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ollamux/ollamux/pkg/accesslog"
	"github.com/ollamux/ollamux/pkg/config"
	"github.com/ollamux/ollamux/pkg/providers"
	"github.com/ollamux/ollamux/pkg/proxy"
	"github.com/ollamux/ollamux/pkg/proxy/handlers"
	"github.com/ollamux/ollamux/pkg/proxy/middleware"
	"github.com/ollamux/ollamux/pkg/telemetry/metrics"
)

// Server is the local HTTP listener that exposes the Ollama API surface and
// relays model requests to the configured providers.
type Server struct {
	config       *config.Config
	holder       *providers.Holder
	metrics      *metrics.Collector
	recorder     accesslog.Recorder
	version      string
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options configures a Server.
type Options struct {
	// Config is the validated configuration. Required.
	Config *config.Config

	// Holder supplies the current provider table. Required.
	Holder *providers.Holder

	// Metrics records request metrics. Required.
	Metrics *metrics.Collector

	// Recorder persists access records. Defaults to a no-op recorder.
	Recorder accesslog.Recorder

	// Version is reported by /api/version.
	Version string

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// New creates a server from validated configuration.
func New(opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = accesslog.NopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	return &Server{
		config:   opts.Config,
		holder:   opts.Holder,
		metrics:  opts.Metrics,
		recorder: opts.Recorder,
		version:  opts.Version,
		logger:   opts.Logger,
	}
}

// Start starts the HTTP server and blocks until the context is cancelled,
// a termination signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	// WriteTimeout stays zero: streamed completions hold the response open
	// for minutes, so only the header read and idle waits are bounded.
	s.httpServer = &http.Server{
		Addr:              s.config.Proxy.ListenAddress,
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: s.config.Proxy.ReadHeaderTimeout,
		IdleTimeout:       s.config.Proxy.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("proxy listening",
			"address", s.config.Proxy.ListenAddress,
			"providers", s.holder.Load().Len(),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown drains in-flight requests and closes the listener. Safe to call
// more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown",
			"timeout", s.config.Proxy.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Proxy.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("proxy server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	relay := proxy.NewRelay(proxy.RelayOptions{
		ConnectTimeout: s.config.Proxy.UpstreamConnectTimeout,
		IdleTimeout:    s.config.Proxy.UpstreamIdleTimeout,
		Logger:         s.logger,
	})

	proxyHandler := handlers.NewProxyHandler(handlers.ProxyHandlerOptions{
		Holder:       s.holder,
		Relay:        relay,
		Metrics:      s.metrics,
		Recorder:     s.recorder,
		MaxBodyBytes: s.config.Proxy.MaxBodyBytes,
		Logger:       s.logger,
	})

	mux.Handle("GET /{$}", handlers.RootHandler())
	mux.Handle("GET /health", handlers.HealthHandler())
	mux.Handle("GET /api/version", handlers.VersionHandler(s.version))
	mux.Handle("GET /api/tags", handlers.NewTagsHandler(s.holder))

	// Everything else under the API prefixes is relayed upstream.
	mux.Handle("/api/", proxyHandler)
	mux.Handle("/v1/", proxyHandler)

	if s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.Logging(s.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)
	return handler
}

// IsRunning reports whether the listener is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
