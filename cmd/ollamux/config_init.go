package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const sampleConfig = `# ollamux configuration
#
# Clients speak the native Ollama API to proxy.listen_address with no
# credentials. The provider is chosen from the model name prefix:
# "aliyun-qwen3-max" routes to the provider named "aliyun" with the model
# rewritten to "qwen3-max".

proxy:
  listen_address: "127.0.0.1:11434"

providers:
  # A remote native Ollama deployment, no credential.
  - name: ollama
    url: "http://localhost:11435"
    api_type: Ollama

  # An OpenAI-compatible endpoint with a Bearer token. HTTPS is required
  # whenever a secret is configured.
  - name: aliyun
    url: "https://dashscope.aliyuncs.com/compatible-mode"
    secret: "sk-your-key-here"
    api_type: OpenAI
    models:
      - qwen3-coder-plus
      - qwen3-max

  # A native Ollama deployment behind HTTP basic auth. A secret containing
  # a colon is sent as Basic user:pass credentials.
  - name: tsinghua
    url: "https://ollama.example.edu.cn"
    secret: "student:changeme"
    api_type: Ollama
    models:
      - glm-4.5

telemetry:
  logging:
    level: info
    format: json
  metrics:
    enabled: true
    path: /metrics

access_log:
  enabled: false
  path: data/accesslog.db
  retention_days: 30
  prune_schedule: "0 3 * * *"

watch:
  enabled: false
  debounce_interval: 200ms
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Write a commented sample configuration to the path given by --config.
Fails if the file already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", cfgFile)
		}

		if err := os.WriteFile(cfgFile, []byte(sampleConfig), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", cfgFile, err)
		}

		fmt.Printf("wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
