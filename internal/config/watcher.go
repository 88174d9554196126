package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// debounceDelay coalesces the bursts of write events editors produce for
// a single save.
const debounceDelay = 250 * time.Millisecond

// Watch re-loads the configuration whenever the config file changes and
// hands the fresh Config to onChange. A reload that fails to parse or
// validate is logged and the previous configuration stays in effect.
// Blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			slog.Warn("Failed to close config watcher", "error", closeErr)
		}
	}()

	// Watch the directory rather than the file: editors replace files on
	// save, which drops a direct file watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	var debounce *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Config watcher error", "error", err)

		case <-reload:
			if err := viper.ReadInConfig(); err != nil {
				slog.Error("Failed to re-read config, keeping previous", "error", err)
				continue
			}
			cfg, err := Load()
			if err != nil {
				slog.Error("Failed to reload config, keeping previous", "error", err)
				continue
			}
			slog.Info("Configuration reloaded", "path", path)
			onChange(cfg)
		}
	}
}
