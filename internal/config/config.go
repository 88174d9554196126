// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"prowl/internal/common"
	"prowl/internal/model"
)

// Config is the full typed configuration for a monitoring run. Treated
// as immutable once loaded; hot reload produces a fresh Config.
type Config struct {
	Matching          model.MatchingSettings `mapstructure:"matching"`
	PriceNumberFormat PriceNumberFormat      `mapstructure:"price_number_format"`
	Monitoring        MonitoringConfig       `mapstructure:"monitoring"`
	Notifications     NotificationsConfig    `mapstructure:"notifications"`
	Channels          []string               `mapstructure:"channels"`
	Products          []model.Product        `mapstructure:"products"`
	PricePatterns     []model.PricePattern   `mapstructure:"price_patterns"`
}

// PriceNumberFormat overrides the numeric sub-pattern substituted into
// price pattern templates.
type PriceNumberFormat struct {
	Regex string `mapstructure:"regex"`
}

// MonitoringConfig controls the processing loop and persistence.
type MonitoringConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	ListenAddr   string `mapstructure:"listen_addr"`
	MaxAgeDays   int    `mapstructure:"max_age_days"`
	SaveMatches  bool   `mapstructure:"save_matches"`
}

// NotificationsConfig controls outbound match notifications.
type NotificationsConfig struct {
	Telegram        TelegramConfig `mapstructure:"telegram"`
	Delay           time.Duration  `mapstructure:"delay"`
	Enabled         bool           `mapstructure:"enabled"`
	IncludeLink     bool           `mapstructure:"include_link"`
	IncludeKeywords bool           `mapstructure:"include_keywords"`
}

// TelegramConfig holds Bot API credentials and the destination chat.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// SetDefaults registers configuration defaults on the given viper
// instance. Called once before reading the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("matching.case_sensitive", false)
	v.SetDefault("matching.whole_word", false)
	v.SetDefault("matching.pattern_matching", true)

	v.SetDefault("price_number_format.regex", model.DefaultPriceNumberRegex)

	v.SetDefault("monitoring.max_age_days", 0)
	v.SetDefault("monitoring.save_matches", true)
	v.SetDefault("monitoring.database_path", "~/.local/share/prowl/prowl.db")
	v.SetDefault("monitoring.listen_addr", ":8337")

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.include_link", true)
	v.SetDefault("notifications.include_keywords", true)
	v.SetDefault("notifications.delay", 500*time.Millisecond)
}

// Load unmarshals the global viper state into a validated Config.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom unmarshals a specific viper instance into a validated Config.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	// Notify defaults to true per product; mapstructure has no per-field
	// default hook, so apply it where the key is absent.
	products := v.Get("products")
	if productList, ok := products.([]any); ok {
		for i := range cfg.Products {
			if i >= len(productList) {
				break
			}
			if entry, ok := productList[i].(map[string]any); ok {
				if _, set := entry["notify"]; !set {
					cfg.Products[i].Notify = true
				}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Monitoring.DatabasePath = ExpandPath(cfg.Monitoring.DatabasePath)

	return &cfg, nil
}

// Validate checks products and price patterns for configuration mistakes.
func (c *Config) Validate() error {
	for i := range c.Products {
		if err := c.Products[i].Validate(); err != nil {
			return fmt.Errorf("%w: product %d: %v", common.ErrInvalidConfig, i, err)
		}
	}

	for i := range c.PricePatterns {
		if err := c.PricePatterns[i].Validate(); err != nil {
			return fmt.Errorf("%w: price pattern %d: %v", common.ErrInvalidConfig, i, err)
		}
	}

	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
