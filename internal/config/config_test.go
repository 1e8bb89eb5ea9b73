package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestDefaultConfig tests that default configuration is valid.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.Session.HistorySize != 100 {
		t.Errorf("Default history size should be 100, got %d", cfg.Session.HistorySize)
	}
	if len(cfg.Languages) != 9 {
		t.Errorf("Default languages = %v", cfg.Languages)
	}
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "log level case insensitive",
			modify: func(c *Config) { c.LogLevel = "DEBUG" },
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "no languages",
			modify:  func(c *Config) { c.Languages = nil },
			wantErr: true,
			errMsg:  "at least one language",
		},
		{
			name:    "bad language code",
			modify:  func(c *Config) { c.Languages = []string{"en", "not a language"} },
			wantErr: true,
			errMsg:  "invalid language code",
		},
		{
			name:    "compression too high",
			modify:  func(c *Config) { c.Session.Compression = 30 },
			wantErr: true,
			errMsg:  "compression must be between",
		},
		{
			name:    "history size zero",
			modify:  func(c *Config) { c.Session.HistorySize = 0 },
			wantErr: true,
			errMsg:  "history_size must be between",
		},
		{
			name:    "negative autosave",
			modify:  func(c *Config) { c.Editor.AutosaveInterval = -time.Second },
			wantErr: true,
			errMsg:  "autosave_interval",
		},
		{
			name:    "temperature out of range",
			modify:  func(c *Config) { c.Editor.Temperature = 5 },
			wantErr: true,
			errMsg:  "temperature must be between",
		},
		{
			name:    "font size",
			modify:  func(c *Config) { c.Editor.FontSize = 2 },
			wantErr: true,
			errMsg:  "font_size",
		},
		{
			name:    "ui scale",
			modify:  func(c *Config) { c.Editor.UIScale = 0 },
			wantErr: true,
			errMsg:  "ui_scale",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "Info"
	cfg.Languages = []string{" EN ", "Pl"}

	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"en", "pl"}) {
		t.Errorf("Languages = %v", cfg.Languages)
	}
}

func TestValidateExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := DefaultConfig()
	cfg.Voices.Dir = "~/voices"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Voices.Dir != filepath.Join(home, "voices") {
		t.Errorf("Voices.Dir = %q", cfg.Voices.Dir)
	}
}

// TestLoadConfigFromViper tests loading configuration from Viper.
func TestLoadConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("log_level", "info")
	viper.Set("languages", []string{"en", "pl"})
	viper.Set("session.history_size", 50)
	viper.Set("session.compression", 0)
	viper.Set("voices.dir", "/srv/voices")
	viper.Set("editor.autosave_interval", "500ms")
	viper.Set("editor.font_family", "serif")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"en", "pl"}) {
		t.Errorf("Languages = %v", cfg.Languages)
	}
	if cfg.Session.HistorySize != 50 || cfg.Session.Compression != 0 {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Voices.Dir != "/srv/voices" {
		t.Errorf("Voices.Dir = %q", cfg.Voices.Dir)
	}
	if cfg.Editor.AutosaveInterval != 500*time.Millisecond {
		t.Errorf("AutosaveInterval = %v", cfg.Editor.AutosaveInterval)
	}
	if cfg.Editor.FontFamily != "serif" || cfg.Editor.FontSize != 14 {
		t.Errorf("Editor = %+v", cfg.Editor)
	}
}

func TestLoadConfigFromViper_EnvOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("session.history_size", 50)
	t.Setenv("TTSTAG_HISTORY_SIZE", "25")
	t.Setenv("TTSTAG_LANGUAGES", "de,fr")
	t.Setenv("TTSTAG_AUTOSAVE_INTERVAL", "0s")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}
	if cfg.Session.HistorySize != 25 {
		t.Errorf("HistorySize = %d, want 25", cfg.Session.HistorySize)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"de", "fr"}) {
		t.Errorf("Languages = %v", cfg.Languages)
	}
	if cfg.Editor.AutosaveInterval != 0 {
		t.Errorf("AutosaveInterval = %v, want 0", cfg.Editor.AutosaveInterval)
	}
}

func TestLoadConfigFromViper_Invalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("session.history_size", -1)
	if _, err := LoadConfigFromViper(); err == nil {
		t.Error("expected an error for a negative history size")
	}
}

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	SetDefaults()

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}
	want := DefaultConfig()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("config from defaults = %+v, want %+v", cfg, want)
	}
}

func TestSessionDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Dir = "/tmp/sessions"
	if dir, err := cfg.SessionDir(); err != nil || dir != "/tmp/sessions" {
		t.Errorf("SessionDir() = %q, %v", dir, err)
	}

	cfg.Session.Dir = ""
	dir, err := cfg.SessionDir()
	if err != nil {
		t.Skipf("no user data dir: %v", err)
	}
	if filepath.Base(dir) != "sessions" {
		t.Errorf("SessionDir() = %q, want a sessions dir", dir)
	}
}
