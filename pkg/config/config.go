package config

import "time"

// Config is the root configuration structure for ollamux.
type Config struct {
	// Proxy contains the local HTTP listener configuration.
	Proxy ProxyConfig `yaml:"proxy"`

	// Providers is the ordered upstream provider table. Order matters only
	// for catalog listings; resolution is order-independent.
	Providers []ProviderConfig `yaml:"providers"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// AccessLog contains the per-request SQLite access log configuration.
	AccessLog AccessLogConfig `yaml:"access_log"`

	// Watch contains the optional configuration-file watch settings.
	Watch WatchConfig `yaml:"watch"`
}

// ProxyConfig contains configuration for the local HTTP listener and the
// outbound relay client.
type ProxyConfig struct {
	// ListenAddress is the local address the proxy binds, in "host:port"
	// form. The local leg is plain HTTP and unauthenticated.
	// Default: "127.0.0.1:11434" (the native Ollama port).
	ListenAddress string `yaml:"listen_address"`

	// ReadHeaderTimeout bounds reading the inbound request headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	// IdleTimeout is the keep-alive idle timeout on the local leg.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to drain in-flight requests
	// on shutdown before the listener is closed forcibly.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the inbound request body size.
	// Default: 33554432 (32MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// UpstreamConnectTimeout bounds the upstream TCP/TLS handshake.
	// Default: 10s
	UpstreamConnectTimeout time.Duration `yaml:"upstream_connect_timeout"`

	// UpstreamIdleTimeout bounds the wait for the next byte of an upstream
	// response body, covering hung upstreams mid-stream. There is no
	// overall request deadline: streamed completions may legitimately run
	// for minutes.
	// Default: 120s
	UpstreamIdleTimeout time.Duration `yaml:"upstream_idle_timeout"`
}

// ProviderConfig describes one upstream provider record as written in the
// configuration file.
type ProviderConfig struct {
	// Name uniquely identifies the provider and prefixes its tagged models.
	Name string `yaml:"name"`

	// URL is the upstream base endpoint. HTTPS is required when a secret
	// is configured.
	URL string `yaml:"url"`

	// Secret is the optional upstream credential. For native Ollama
	// upstreams a "user:pass" value selects HTTP Basic; anything else is
	// sent as a Bearer token.
	Secret string `yaml:"secret"`

	// APIType is the upstream dialect: "ollama" or "openai"
	// (case-insensitive).
	APIType string `yaml:"api_type"`

	// Models lists the native model identifiers the provider serves.
	// Optional; when empty, model names are passed through unchecked.
	Models []string `yaml:"models"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path on the main listener.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "ollamux"
	Namespace string `yaml:"namespace"`
}

// AccessLogConfig contains configuration for the SQLite access log.
type AccessLogConfig struct {
	// Enabled controls whether relayed requests are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "data/accesslog.db"
	Path string `yaml:"path"`

	// RetentionDays is the age after which records are pruned.
	// Zero keeps records forever.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for scheduled pruning.
	// Empty disables the scheduler.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// WatchConfig contains configuration-file watch settings.
type WatchConfig struct {
	// Enabled controls whether the configuration file is watched for
	// changes. On change, the provider table is rebuilt and swapped
	// atomically; listener settings are not reloaded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DebounceInterval is the quiet period after a file event before the
	// reload runs, collapsing editor write bursts into one reload.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}
