package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttstag/internal/cache"
	"github.com/dgnsrekt/ttstag/internal/characters"
	"github.com/dgnsrekt/ttstag/internal/editor"
	"github.com/dgnsrekt/ttstag/internal/session"
)

// workspace is a named session loaded from the store, ready for edits.
type workspace struct {
	name   string
	store  *cache.Store
	editor *editor.Editor
}

func openStore() (*cache.Store, error) {
	dir, err := cfg.SessionDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine session directory: %w", err)
	}
	store, err := cache.Open(dir, cfg.Session.Compression)
	if err != nil {
		return nil, fmt.Errorf("could not open session store: %w", err)
	}
	return store, nil
}

func openWorkspace(name string) (*workspace, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	state := session.New(characterProvider(),
		session.WithHistoryCapacity(cfg.Session.HistorySize),
		session.WithPrefs(defaultPrefs()),
	)

	data, err := store.Load(name)
	switch {
	case err == nil:
		if err := state.Deserialize(string(data)); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("session %s: %w", name, err)
		}
	case errors.Is(err, cache.ErrNotFound):
		log.Debug("starting new session", "session", name)
	default:
		_ = store.Close()
		return nil, fmt.Errorf("session %s: %w", name, err)
	}

	ed := editor.New(state,
		editor.WithLanguages(cfg.Languages),
		editor.WithParseCacheSize(cfg.Editor.ParseCacheSize),
		editor.WithAutosave(store, name, cfg.Editor.AutosaveInterval),
	)
	return &workspace{name: name, store: store, editor: ed}, nil
}

// Close saves pending edits and closes the store.
func (w *workspace) Close() error {
	err := w.editor.Close()
	stats := w.editor.ParseStats()
	log.Debug("session closed", "session", w.name, "parse_hits", stats.Hits, "parse_misses", stats.Misses)
	return errors.Join(err, w.store.Close())
}

// defaultPrefs returns the preferences of a new session, taken from the
// editor config.
func defaultPrefs() session.Prefs {
	p := session.DefaultPrefs()
	p.LastTemperature = cfg.Editor.Temperature
	p.LastPauseDuration = cfg.Editor.PauseDuration
	p.FontSize = cfg.Editor.FontSize
	p.FontFamily = cfg.Editor.FontFamily
	p.SidebarWidth = cfg.Editor.SidebarWidth
	p.UIScale = cfg.Editor.UIScale
	return p
}

func characterProvider() characters.Provider {
	if cfg.Voices.Dir == "" {
		return characters.Static(characters.Fallback)
	}
	return characters.NewDirProvider(cfg.Voices.Dir)
}

// withWorkspace runs fn against the current session and saves the result.
func withWorkspace(fn func(w *workspace) error) (err error) {
	w, err := openWorkspace(sessionName)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(w)
}
