package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ollamux/ollamux/pkg/providers"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Booleans that default to true are pre-set so an explicit `false` in
	// the file survives unmarshalling.
	cfg := Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// OLLAMUX_SECTION_FIELD (e.g. OLLAMUX_PROXY_LISTEN_ADDRESS) and always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	// Re-validate after overrides.
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies OLLAMUX_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("OLLAMUX_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv("OLLAMUX_PROXY_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("OLLAMUX_PROXY_UPSTREAM_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.UpstreamConnectTimeout = d
		}
	}
	if val := os.Getenv("OLLAMUX_PROXY_UPSTREAM_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.UpstreamIdleTimeout = d
		}
	}

	if val := os.Getenv("OLLAMUX_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("OLLAMUX_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("OLLAMUX_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}

	if val := os.Getenv("OLLAMUX_ACCESS_LOG_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.AccessLog.Enabled = b
		}
	}
	if val := os.Getenv("OLLAMUX_ACCESS_LOG_PATH"); val != "" {
		cfg.AccessLog.Path = val
	}
	if val := os.Getenv("OLLAMUX_ACCESS_LOG_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.AccessLog.RetentionDays = i
		}
	}

	if val := os.Getenv("OLLAMUX_WATCH_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.Enabled = b
		}
	}
}

// BuildRegistry converts the validated provider records into the immutable
// provider table. Validate has already checked names, URLs, and API types,
// so a failure here indicates a programming error rather than bad input.
func BuildRegistry(cfg *Config) (*providers.Registry, error) {
	list := make([]*providers.Provider, 0, len(cfg.Providers))

	for _, pc := range cfg.Providers {
		apiType, err := providers.ParseAPIType(pc.APIType)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", pc.Name, err)
		}

		list = append(list, &providers.Provider{
			Name:    pc.Name,
			BaseURL: pc.URL,
			Secret:  pc.Secret,
			Type:    apiType,
			Models:  append([]string(nil), pc.Models...),
		})
	}

	return providers.NewRegistry(list)
}
