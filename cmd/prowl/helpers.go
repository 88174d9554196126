package main

import (
	"log/slog"

	"prowl/internal/config"
	"prowl/internal/match"
	"prowl/internal/monitor"
	"prowl/internal/notify"
	"prowl/internal/service"
	"prowl/internal/storage"
)

// buildEngine constructs the matching engine for a loaded configuration.
func buildEngine(cfg *config.Config) *match.ProductMatcher {
	extractor := match.NewPriceExtractor(cfg.PricePatterns, cfg.PriceNumberFormat.Regex)
	return match.NewProductMatcher(cfg.Products, cfg.Matching, extractor)
}

// monitorOptions maps configuration onto the monitor's loop options.
func monitorOptions(cfg *config.Config) monitor.Options {
	return monitor.Options{
		MaxAgeDays:           cfg.Monitoring.MaxAgeDays,
		SaveMatches:          cfg.Monitoring.SaveMatches,
		NotificationsEnabled: cfg.Notifications.Enabled,
		NotificationDelay:    cfg.Notifications.Delay,
	}
}

// getStore opens the match database. The returned cleanup closes it.
func getStore(cfg *config.Config) (service.MatchStore, func(), error) {
	store, err := storage.NewSQLiteStore(cfg.Monitoring.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}

	return store, cleanup, nil
}

// buildNotifier constructs the configured notifier, or nil when
// notifications are disabled or unconfigured.
func buildNotifier(cfg *config.Config) (service.Notifier, error) {
	if !cfg.Notifications.Enabled {
		return nil, nil
	}
	if cfg.Notifications.Telegram.BotToken == "" {
		slog.Warn("Notifications enabled but no telegram bot token configured")
		return nil, nil
	}

	return notify.NewTelegramNotifier(
		cfg.Notifications.Telegram.BotToken,
		cfg.Notifications.Telegram.ChatID,
		notify.FormatOptions{
			IncludeLink:     cfg.Notifications.IncludeLink,
			IncludeKeywords: cfg.Notifications.IncludeKeywords,
		},
	)
}

// truncateString shortens a string for table display.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
