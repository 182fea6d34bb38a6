package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
proxy:
  listen_address: "127.0.0.1:11434"
providers:
  - name: ollama
    url: "http://localhost:11435"
    api_type: Ollama
  - name: aliyun
    url: "https://dashscope.aliyuncs.com/compatible-mode"
    secret: "sk-123"
    api_type: OpenAI
    models:
      - qwen3-coder-plus
      - qwen3-max
      - glm-4.5
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Proxy.ListenAddress != "127.0.0.1:11434" {
		t.Errorf("listen_address = %q", cfg.Proxy.ListenAddress)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(cfg.Providers))
	}
	if cfg.Providers[1].Secret != "sk-123" {
		t.Errorf("secret = %q", cfg.Providers[1].Secret)
	}
	if len(cfg.Providers[1].Models) != 3 {
		t.Errorf("models = %v", cfg.Providers[1].Models)
	}

	// Defaults fill everything the file omits.
	if cfg.Proxy.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("shutdown_timeout = %v", cfg.Proxy.ShutdownTimeout)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should default to enabled")
	}
	if cfg.Proxy.UpstreamIdleTimeout != DefaultUpstreamIdleTimeout {
		t.Errorf("upstream_idle_timeout = %v", cfg.Proxy.UpstreamIdleTimeout)
	}
}

func TestLoadConfigExplicitFalseSurvives(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig+`
telemetry:
  metrics:
    enabled: false
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("explicit metrics.enabled=false was overwritten by defaults")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "unparseable yaml", contents: "providers: ["},
		{name: "empty provider table", contents: "proxy:\n  listen_address: \"127.0.0.1:11434\"\n"},
		{
			name: "secret over http",
			contents: `
providers:
  - name: leaky
    url: "http://insecure.example.com"
    secret: "sk-123"
    api_type: openai
`,
		},
		{
			name: "unknown api_type",
			contents: `
providers:
  - name: odd
    url: "https://odd.example.com"
    api_type: anthropic
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.contents)); err == nil {
				t.Fatal("LoadConfig succeeded, want error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadConfig succeeded for a missing file")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMUX_PROXY_LISTEN_ADDRESS", "127.0.0.1:19999")
	t.Setenv("OLLAMUX_TELEMETRY_LOGGING_LEVEL", "debug")
	t.Setenv("OLLAMUX_PROXY_UPSTREAM_IDLE_TIMEOUT", "45s")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Proxy.ListenAddress != "127.0.0.1:19999" {
		t.Errorf("listen_address = %q", cfg.Proxy.ListenAddress)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Proxy.UpstreamIdleTimeout != 45*time.Second {
		t.Errorf("upstream_idle_timeout = %v", cfg.Proxy.UpstreamIdleTimeout)
	}
}

func TestBuildRegistry(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	reg, err := BuildRegistry(cfg)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("registry has %d providers, want 2", reg.Len())
	}

	p, native, err := reg.Resolve("aliyun-qwen3-max")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Name != "aliyun" || native != "qwen3-max" {
		t.Errorf("Resolve = (%q, %q)", p.Name, native)
	}
	if p.Secret != "sk-123" {
		t.Errorf("secret = %q", p.Secret)
	}
}
