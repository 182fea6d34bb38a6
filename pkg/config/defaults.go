package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults. The listen port is Ollama's native port so clients
	// configured for a local Ollama need no changes.
	DefaultListenAddress          = "127.0.0.1:11434"
	DefaultReadHeaderTimeout      = 10 * time.Second
	DefaultIdleTimeout            = 120 * time.Second
	DefaultShutdownTimeout        = 30 * time.Second
	DefaultMaxBodyBytes           = int64(32 * 1024 * 1024)
	DefaultUpstreamConnectTimeout = 10 * time.Second
	DefaultUpstreamIdleTimeout    = 120 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "ollamux"

	// Access log defaults
	DefaultAccessLogPath        = "data/accesslog.db"
	DefaultAccessLogRetention   = 30
	DefaultAccessLogSchedule    = "0 3 * * *"
	DefaultAccessLogBusyTimeout = 5 * time.Second

	// Watch defaults
	DefaultWatchDebounce = 200 * time.Millisecond
)

// ApplyDefaults fills zero-valued fields with their defaults. Booleans whose
// default is true are handled by the loader before unmarshalling, so a YAML
// `false` survives.
func ApplyDefaults(cfg *Config) {
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadHeaderTimeout == 0 {
		cfg.Proxy.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Proxy.UpstreamConnectTimeout == 0 {
		cfg.Proxy.UpstreamConnectTimeout = DefaultUpstreamConnectTimeout
	}
	if cfg.Proxy.UpstreamIdleTimeout == 0 {
		cfg.Proxy.UpstreamIdleTimeout = DefaultUpstreamIdleTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.AccessLog.Path == "" {
		cfg.AccessLog.Path = DefaultAccessLogPath
	}
	if cfg.AccessLog.RetentionDays == 0 {
		cfg.AccessLog.RetentionDays = DefaultAccessLogRetention
	}
	if cfg.AccessLog.PruneSchedule == "" {
		cfg.AccessLog.PruneSchedule = DefaultAccessLogSchedule
	}
	if cfg.AccessLog.BusyTimeout == 0 {
		cfg.AccessLog.BusyTimeout = DefaultAccessLogBusyTimeout
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounce
	}
}
