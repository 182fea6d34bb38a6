package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ollamux/ollamux/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file without starting the server",
	Long: `Validate a configuration file: parse the YAML, apply defaults, check
every provider record, and build the provider table exactly as run would,
then exit.

Examples:
  ollamux validate
  ollamux validate --config /etc/ollamux/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}

		reg, err := config.BuildRegistry(cfg)
		if err != nil {
			return fmt.Errorf("failed to build provider table: %w", err)
		}

		fmt.Printf("configuration valid: %d providers\n", reg.Len())
		for _, p := range reg.Providers() {
			auth := "none"
			if p.Secret != "" {
				auth = "configured"
			}
			fmt.Printf("  %-12s %-7s models=%-3d secret=%s\n",
				p.Name, p.Type, len(p.Models), auth)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
