package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/ttstag/internal/tags"
)

const defaultConfigTemplate = `# log level: debug, info, warn or error
log_level: "warn"
# language codes recognized as tag prefixes, e.g. [de:Bob]
languages: [%s]

# Session storage
session:
  # directory for stored sessions (default: user data dir)
  # dir: "~/.local/share/ttstag/sessions"
  # zstd level for large sessions, 0 disables compression
  compression: 3
  # undo snapshots kept per session
  history_size: 100

# Character discovery
voices:
  # directory of reference voices; file and folder names become characters
  # dir: "~/voices"

# Editor behavior and defaults for new sessions
editor:
  # save at most once per interval, 0 saves after every edit
  autosave_interval: "2s"
  # parsed texts kept in memory
  parse_cache_size: 64
  temperature: 0.7
  pause_duration: "1s"
  font_size: 14
  font_family: "monospace"
  sidebar_width: 220
  ui_scale: 1.0
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the ttstag config file",
	Long:    paragraph(fmt.Sprintf("\n%s the ttstag config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("ttstag config\nttstag config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("ttstag", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

// defaultConfig returns the YAML written for new installs.
func defaultConfig() string {
	quoted := make([]string, len(tags.DefaultLanguages))
	for i, code := range tags.DefaultLanguages {
		quoted[i] = strconv.Quote(code)
	}
	return fmt.Sprintf(defaultConfigTemplate, strings.Join(quoted, ", "))
}

// ensureConfigFile creates the config file with defaults unless one exists.
func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
	}
	return writeDefaultConfig(configFile)
}

// writeDefaultConfig writes defaultConfig to name. An existing file is left
// alone.
func writeDefaultConfig(name string) error {
	if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '.yaml' or '.yml'", ext)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to create config file: %w", err)
	}

	if _, err := f.WriteString(defaultConfig()); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to write config file: %w", err)
	}
	log.Debug("wrote default configuration", "path", name)
	return f.Close()
}
