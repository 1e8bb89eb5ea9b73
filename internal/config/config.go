// Package config holds the ttstag configuration and loads it from viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"golang.org/x/text/language"

	"github.com/dgnsrekt/ttstag/internal/tags"
)

// Config contains all ttstag configuration options.
type Config struct {
	// Log level for stderr output: debug, info, warn or error
	LogLevel string `yaml:"log_level" env:"TTSTAG_LOG_LEVEL"`

	// Language codes recognized as tag prefixes
	Languages []string `yaml:"languages" env:"TTSTAG_LANGUAGES" envSeparator:","`

	Session SessionConfig `yaml:"session"`
	Voices  VoicesConfig  `yaml:"voices"`
	Editor  EditorConfig  `yaml:"editor"`
}

// SessionConfig contains session persistence settings.
type SessionConfig struct {
	// Directory for stored sessions; empty selects the user data dir
	Dir string `yaml:"dir" env:"TTSTAG_SESSION_DIR"`

	// Zstd level for blobs above 1 KiB, 0 disables compression
	Compression int `yaml:"compression" env:"TTSTAG_SESSION_COMPRESSION"`

	// Undo snapshots kept per session
	HistorySize int `yaml:"history_size" env:"TTSTAG_HISTORY_SIZE"`
}

// VoicesConfig contains character discovery settings.
type VoicesConfig struct {
	// Directory of reference voices; empty uses the built-in names
	Dir string `yaml:"dir" env:"TTSTAG_VOICES_DIR"`
}

// EditorConfig contains editor behavior and new-session preferences.
type EditorConfig struct {
	AutosaveInterval time.Duration `yaml:"autosave_interval" env:"TTSTAG_AUTOSAVE_INTERVAL"`
	ParseCacheSize   int           `yaml:"parse_cache_size" env:"TTSTAG_PARSE_CACHE_SIZE"`

	Temperature   float64 `yaml:"temperature" env:"TTSTAG_TEMPERATURE"`
	PauseDuration string  `yaml:"pause_duration" env:"TTSTAG_PAUSE_DURATION"`
	FontSize      int     `yaml:"font_size" env:"TTSTAG_FONT_SIZE"`
	FontFamily    string  `yaml:"font_family" env:"TTSTAG_FONT_FAMILY"`
	SidebarWidth  int     `yaml:"sidebar_width" env:"TTSTAG_SIDEBAR_WIDTH"`
	UIScale       float64 `yaml:"ui_scale" env:"TTSTAG_UI_SCALE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:  "warn",
		Languages: append([]string(nil), tags.DefaultLanguages...),
		Session: SessionConfig{
			Compression: 3,
			HistorySize: 100,
		},
		Editor: EditorConfig{
			AutosaveInterval: 2 * time.Second,
			ParseCacheSize:   64,
			Temperature:      0.7,
			PauseDuration:    "1s",
			FontSize:         14,
			FontFamily:       "monospace",
			SidebarWidth:     220,
			UIScale:          1.0,
		},
	}
}

// Validate checks if the configuration is valid. Language codes and the log
// level are lower-cased and paths are expanded in place.
func (c *Config) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if strings.EqualFold(c.LogLevel, l) {
			levelValid = true
			c.LogLevel = l
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels)
	}

	if len(c.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	for i, code := range c.Languages {
		code = strings.ToLower(strings.TrimSpace(code))
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("invalid language code '%s': %w", c.Languages[i], err)
		}
		c.Languages[i] = code
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session config: %w", err)
	}
	if err := c.Editor.Validate(); err != nil {
		return fmt.Errorf("editor config: %w", err)
	}

	var err error
	if c.Session.Dir, err = homedir.Expand(c.Session.Dir); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}
	if c.Voices.Dir, err = homedir.Expand(c.Voices.Dir); err != nil {
		return fmt.Errorf("voices dir: %w", err)
	}

	return nil
}

// Validate checks if the session configuration is valid.
func (c *SessionConfig) Validate() error {
	if c.Compression < 0 || c.Compression > 22 {
		return fmt.Errorf("compression must be between 0 and 22, got %d", c.Compression)
	}
	if c.HistorySize < 1 || c.HistorySize > 10000 {
		return fmt.Errorf("history_size must be between 1 and 10000, got %d", c.HistorySize)
	}
	return nil
}

// Validate checks if the editor configuration is valid.
func (c *EditorConfig) Validate() error {
	if c.AutosaveInterval < 0 {
		return fmt.Errorf("autosave_interval cannot be negative, got %v", c.AutosaveInterval)
	}
	if c.ParseCacheSize < 1 {
		return fmt.Errorf("parse_cache_size must be at least 1, got %d", c.ParseCacheSize)
	}
	if err := tags.CheckParameter("temperature", fmt.Sprint(c.Temperature)); err != nil {
		return err
	}
	if strings.TrimSpace(c.PauseDuration) == "" {
		return fmt.Errorf("pause_duration cannot be empty")
	}
	if c.FontSize < 6 || c.FontSize > 72 {
		return fmt.Errorf("font_size must be between 6 and 72, got %d", c.FontSize)
	}
	if c.SidebarWidth < 0 {
		return fmt.Errorf("sidebar_width cannot be negative, got %d", c.SidebarWidth)
	}
	if c.UIScale <= 0 || c.UIScale > 4.0 {
		return fmt.Errorf("ui_scale must be between 0 and 4.0, got %f", c.UIScale)
	}
	return nil
}

// SessionDir returns the configured session directory, falling back to the
// user data directory.
func (c *Config) SessionDir() (string, error) {
	if c.Session.Dir != "" {
		return c.Session.Dir, nil
	}
	return gap.NewScope(gap.User, "ttstag").DataPath("sessions")
}
