package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoadConfigFromViper builds the configuration from defaults, then keys set
// in viper (config file and bound flags), then TTSTAG_* environment
// variables.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("log_level") {
		cfg.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("languages") {
		cfg.Languages = viper.GetStringSlice("languages")
	}

	// Session settings
	if viper.IsSet("session.dir") {
		cfg.Session.Dir = viper.GetString("session.dir")
	}
	if viper.IsSet("session.compression") {
		cfg.Session.Compression = viper.GetInt("session.compression")
	}
	if viper.IsSet("session.history_size") {
		cfg.Session.HistorySize = viper.GetInt("session.history_size")
	}

	if viper.IsSet("voices.dir") {
		cfg.Voices.Dir = viper.GetString("voices.dir")
	}

	// Editor settings
	if viper.IsSet("editor.autosave_interval") {
		cfg.Editor.AutosaveInterval = viper.GetDuration("editor.autosave_interval")
	}
	if viper.IsSet("editor.parse_cache_size") {
		cfg.Editor.ParseCacheSize = viper.GetInt("editor.parse_cache_size")
	}
	if viper.IsSet("editor.temperature") {
		cfg.Editor.Temperature = viper.GetFloat64("editor.temperature")
	}
	if viper.IsSet("editor.pause_duration") {
		cfg.Editor.PauseDuration = viper.GetString("editor.pause_duration")
	}
	if viper.IsSet("editor.font_size") {
		cfg.Editor.FontSize = viper.GetInt("editor.font_size")
	}
	if viper.IsSet("editor.font_family") {
		cfg.Editor.FontFamily = viper.GetString("editor.font_family")
	}
	if viper.IsSet("editor.sidebar_width") {
		cfg.Editor.SidebarWidth = viper.GetInt("editor.sidebar_width")
	}
	if viper.IsSet("editor.ui_scale") {
		cfg.Editor.UIScale = viper.GetFloat64("editor.ui_scale")
	}

	// Only variables that are present override.
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SetDefaults sets default values in viper.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("languages", defaults.Languages)

	viper.SetDefault("session.dir", defaults.Session.Dir)
	viper.SetDefault("session.compression", defaults.Session.Compression)
	viper.SetDefault("session.history_size", defaults.Session.HistorySize)

	viper.SetDefault("voices.dir", defaults.Voices.Dir)

	viper.SetDefault("editor.autosave_interval", defaults.Editor.AutosaveInterval.String())
	viper.SetDefault("editor.parse_cache_size", defaults.Editor.ParseCacheSize)
	viper.SetDefault("editor.temperature", defaults.Editor.Temperature)
	viper.SetDefault("editor.pause_duration", defaults.Editor.PauseDuration)
	viper.SetDefault("editor.font_size", defaults.Editor.FontSize)
	viper.SetDefault("editor.font_family", defaults.Editor.FontFamily)
	viper.SetDefault("editor.sidebar_width", defaults.Editor.SidebarWidth)
	viper.SetDefault("editor.ui_scale", defaults.Editor.UIScale)
}
