package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ollamux/ollamux/pkg/accesslog"
	"github.com/ollamux/ollamux/pkg/config"
	"github.com/ollamux/ollamux/pkg/providers"
	"github.com/ollamux/ollamux/pkg/server"
	"github.com/ollamux/ollamux/pkg/telemetry/logging"
	"github.com/ollamux/ollamux/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the proxy server",
	Long: `Start the proxy server with the specified configuration.

The server listens on the configured address, serves the Ollama API surface,
and relays model requests to the configured providers.

Examples:
  # Start with default config
  ollamux run

  # Start with custom config
  ollamux run --config /etc/ollamux/config.yaml

  # Override listen address
  ollamux run --listen 0.0.0.0:11434`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.Setup(logging.Options{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return err
	}

	reg, err := config.BuildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to build provider table: %w", err)
	}
	holder := providers.NewHolder(reg)

	logger.Info("provider table loaded",
		"providers", reg.Len(),
		"config", cfgFile,
	)

	collector := metrics.NewCollector(metrics.Options{
		Enabled:   cfg.Telemetry.Metrics.Enabled,
		Namespace: cfg.Telemetry.Metrics.Namespace,
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var recorder accesslog.Recorder = accesslog.NopRecorder{}
	if cfg.AccessLog.Enabled {
		store, err := accesslog.NewSQLiteStoreWithConfig(accesslog.SQLiteStoreConfig{
			Path:        cfg.AccessLog.Path,
			BusyTimeout: cfg.AccessLog.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to open access log: %w", err)
		}
		defer store.Close()
		recorder = store

		pruner := accesslog.NewPruner(store, accesslog.RetentionConfig{
			RetentionDays: cfg.AccessLog.RetentionDays,
			Schedule:      cfg.AccessLog.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start access log pruner: %w", err)
		}
		defer pruner.Stop()
	}

	if cfg.Watch.Enabled {
		if err := startConfigWatcher(ctx, cfg, holder, collector, logger); err != nil {
			return err
		}
	}

	srv := server.New(server.Options{
		Config:   cfg,
		Holder:   holder,
		Metrics:  collector,
		Recorder: recorder,
		Version:  Version,
		Logger:   logger,
	})

	return srv.Start(ctx)
}

// startConfigWatcher reloads the provider table when the configuration file
// changes. A reload that fails validation keeps the previous table serving.
func startConfigWatcher(ctx context.Context, cfg *config.Config, holder *providers.Holder, collector *metrics.Collector, logger *slog.Logger) error {
	watcher, err := config.NewWatcher(cfgFile, cfg.Watch.DebounceInterval, logger)
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	go func() {
		err := watcher.Watch(ctx, func() error {
			next, err := config.LoadConfigWithEnvOverrides(cfgFile)
			if err != nil {
				return err
			}
			reg, err := config.BuildRegistry(next)
			if err != nil {
				return err
			}

			holder.Swap(reg)
			collector.RecordReload()
			logger.Info("provider table swapped", "providers", reg.Len())
			return nil
		})
		if err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()

	return nil
}
