package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{
		Providers: []ProviderConfig{
			{Name: "ollama", URL: "http://localhost:11435", APIType: "ollama"},
			{Name: "aliyun", URL: "https://dashscope.aliyuncs.com", Secret: "sk-1", APIType: "openai", Models: []string{"qwen3-max"}},
		},
	}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty provider table",
			mutate:    func(c *Config) { c.Providers = nil },
			wantField: "providers",
		},
		{
			name: "duplicate provider names",
			mutate: func(c *Config) {
				c.Providers = append(c.Providers, c.Providers[0])
			},
			wantField: "providers[2].name",
		},
		{
			name:      "missing provider name",
			mutate:    func(c *Config) { c.Providers[0].Name = "" },
			wantField: "providers[0].name",
		},
		{
			name:      "whitespace in provider name",
			mutate:    func(c *Config) { c.Providers[0].Name = "my provider" },
			wantField: "providers[0].name",
		},
		{
			name:      "missing provider url",
			mutate:    func(c *Config) { c.Providers[0].URL = "" },
			wantField: "providers[0].url",
		},
		{
			name:      "non-http url scheme",
			mutate:    func(c *Config) { c.Providers[0].URL = "ftp://example.com" },
			wantField: "providers[0].url",
		},
		{
			name:      "secret requires https",
			mutate:    func(c *Config) { c.Providers[0].Secret = "tok" },
			wantField: "providers[0].url",
		},
		{
			name:      "invalid api_type",
			mutate:    func(c *Config) { c.Providers[0].APIType = "grpc" },
			wantField: "providers[0].api_type",
		},
		{
			name: "duplicate model within provider",
			mutate: func(c *Config) {
				c.Providers[1].Models = []string{"qwen3-max", "qwen3-max"}
			},
			wantField: "providers[1].models[1]",
		},
		{
			name:      "negative read header timeout",
			mutate:    func(c *Config) { c.Proxy.ReadHeaderTimeout = -1 * time.Second },
			wantField: "proxy.read_header_timeout",
		},
		{
			name:      "negative max body bytes",
			mutate:    func(c *Config) { c.Proxy.MaxBodyBytes = -1 },
			wantField: "proxy.max_body_bytes",
		},
		{
			name:      "bad listen address",
			mutate:    func(c *Config) { c.Proxy.ListenAddress = "not-an-address" },
			wantField: "proxy.listen_address",
		},
		{
			name:      "bad logging level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name: "access log enabled without path",
			mutate: func(c *Config) {
				c.AccessLog.Enabled = true
				c.AccessLog.Path = ""
			},
			wantField: "access_log.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention field %q", err.Error(), tt.wantField)
			}
		})
	}
}

func TestValidateAcceptsZeroTimeouts(t *testing.T) {
	// Zero means "use the default"; only negative values are rejected,
	// and the message says so.
	cfg := validConfig()
	cfg.Proxy.ReadHeaderTimeout = 0
	cfg.Proxy.IdleTimeout = 0
	cfg.Proxy.ShutdownTimeout = 0
	cfg.Proxy.MaxBodyBytes = 0

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate rejected zero timeouts: %v", err)
	}

	cfg.Proxy.IdleTimeout = -1 * time.Second
	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate accepted a negative timeout")
	}
	if !strings.Contains(err.Error(), "must not be negative") {
		t.Errorf("error %q does not state the rule", err.Error())
	}
}

func TestValidateSameModelAcrossProviders(t *testing.T) {
	// The same native model may be served by several providers; only
	// duplicates within one provider are rejected.
	cfg := validConfig()
	cfg.Providers[0].Models = []string{"glm-4.5"}
	cfg.Providers[1].Models = []string{"glm-4.5"}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
