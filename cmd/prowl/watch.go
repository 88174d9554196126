package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"prowl/internal/config"
	"prowl/internal/ingest"
	"prowl/internal/monitor"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch incoming messages for product matches",
		Long: `Start the webhook server and process incoming channel messages until
interrupted. Matches are stored and, when configured, sent as
notifications. The config file is hot-reloaded on change.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(cfg.Products) == 0 {
				return fmt.Errorf("no products configured, nothing to watch for")
			}

			store, cleanup, err := getStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open match database: %w", err)
			}
			defer cleanup()

			notifier, err := buildNotifier(cfg)
			if err != nil {
				return err
			}

			mon := monitor.New(buildEngine(cfg), store, notifier, monitorOptions(cfg))
			source := ingest.NewServer(cfg.Monitoring.ListenAddr, cfg.Channels)

			var wg sync.WaitGroup

			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := source.Run(ctx); err != nil {
					slog.Error("Ingest server stopped", "error", err)
					cancel()
				}
			}()

			if path := viper.ConfigFileUsed(); path != "" {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := config.Watch(ctx, path, func(newCfg *config.Config) {
						mon.UpdateEngine(buildEngine(newCfg), monitorOptions(newCfg))
					})
					if err != nil && ctx.Err() == nil {
						slog.Warn("Config watcher stopped", "error", err)
					}
				}()
			}

			slog.Info("Watching for product matches",
				"products", len(cfg.Products),
				"channels", len(cfg.Channels))

			stats := mon.Run(ctx, source.Messages())
			cancel()
			wg.Wait()

			slog.Info("Watch finished",
				"messages_scanned", stats.MessagesScanned,
				"matches_found", stats.MatchesFound)

			return nil
		},
	}
}
