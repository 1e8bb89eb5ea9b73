package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// debugConfig is read straight from the environment so logging is set up
// before the config file is parsed.
type debugConfig struct {
	Debug   bool   `env:"TTSTAG_DEBUG"`
	LogFile string `env:"TTSTAG_DEBUG_LOG"`
}

var debugLogging bool

func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)
	log.SetLevel(log.WarnLevel)

	dbg, err := env.ParseAs[debugConfig]()
	if err != nil {
		return nil, fmt.Errorf("invalid debug environment: %w", err)
	}
	if !dbg.Debug {
		return func() error { return nil }, nil
	}

	path := dbg.LogFile
	if path == "" {
		path, err = gap.NewScope(gap.User, "ttstag").LogPath("ttstag.log")
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}

	log.SetOutput(f)
	log.SetReportTimestamp(true)
	log.SetLevel(log.DebugLevel)
	debugLogging = true
	return f.Close, nil
}
