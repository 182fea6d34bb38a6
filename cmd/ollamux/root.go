package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "ollamux",
	Short: "Ollamux - local Ollama-compatible proxy for remote LLM backends",
	Long: `Ollamux is a local reverse proxy that speaks the native Ollama API and
routes each request to one of several remote LLM backends.

The provider is chosen from the model name prefix: a request for
"aliyun-qwen3-max" goes to the provider named "aliyun" with the model
rewritten to "qwen3-max" and the provider's credential attached. Responses,
including token streams, are relayed back unchanged.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}
