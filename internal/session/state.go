// Package session bundles the editor text, its undo history, saved presets and
// UI preferences into one state that can be saved and restored as JSON.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttstag/internal/characters"
	"github.com/dgnsrekt/ttstag/internal/history"
	"github.com/dgnsrekt/ttstag/internal/preset"
)

// ErrCorruptState is returned when a session blob cannot be restored.
var ErrCorruptState = errors.New("corrupt session state")

// Prefs are the remembered editor choices.
type Prefs struct {
	LastCharacter      string  `json:"last_character" yaml:"last_character"`
	LastLanguage       string  `json:"last_language" yaml:"last_language"`
	LastSeed           int     `json:"last_seed" yaml:"last_seed"`
	LastTemperature    float64 `json:"last_temperature" yaml:"last_temperature"`
	LastPauseDuration  string  `json:"last_pause_duration" yaml:"last_pause_duration"`
	LastParameterType  string  `json:"last_parameter_type" yaml:"last_parameter_type"`
	SidebarExpanded    bool    `json:"sidebar_expanded" yaml:"sidebar_expanded"`
	LastCursorPosition int     `json:"last_cursor_position" yaml:"last_cursor_position"`
	FontSize           int     `json:"font_size" yaml:"font_size"`
	FontFamily         string  `json:"font_family" yaml:"font_family"`
	SidebarWidth       int     `json:"sidebar_width" yaml:"sidebar_width"`
	UIScale            float64 `json:"ui_scale" yaml:"ui_scale"`
}

// DefaultPrefs returns the preferences of a fresh session.
func DefaultPrefs() Prefs {
	return Prefs{
		LastTemperature:   0.7,
		LastPauseDuration: "1s",
		LastParameterType: "seed",
		SidebarExpanded:   true,
		FontSize:          14,
		FontFamily:        "monospace",
		SidebarWidth:      220,
		UIScale:           1.0,
	}
}

// State is the complete state of one editor.
type State struct {
	Text  string
	Prefs Prefs

	History *history.Stack
	Presets *preset.Store

	provider characters.Provider
}

// Option configures a State.
type Option func(*State)

// WithHistoryCapacity sets the number of undo snapshots kept.
func WithHistoryCapacity(n int) Option {
	return func(s *State) {
		s.History = history.New(n)
	}
}

// WithPrefs replaces the default preferences.
func WithPrefs(p Prefs) Option {
	return func(s *State) {
		s.Prefs = p
	}
}

// New returns a state with default values. provider supplies the character
// suggestions and may be nil.
func New(provider characters.Provider, opts ...Option) *State {
	s := &State{
		Prefs:    DefaultPrefs(),
		History:  history.New(history.DefaultCapacity),
		Presets:  preset.NewStore(),
		provider: provider,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset restores the defaults while keeping the provider, history capacity
// and preset clock.
func (s *State) Reset(prefs Prefs) {
	s.Text = ""
	s.Prefs = prefs
	s.History.Clear()
	s.Presets.Replace(nil)
}

// AvailableCharacters returns the provider's characters. Provider failures
// are logged and yield an empty list.
func (s *State) AvailableCharacters() []string {
	if s.provider == nil {
		return []string{}
	}
	names, err := s.provider.Characters()
	if err != nil {
		log.Warn("could not discover characters", "error", err)
		return []string{}
	}
	if names == nil {
		names = []string{}
	}
	return names
}

// blob is the persisted form of a State.
type blob struct {
	Text         string                   `json:"text"`
	History      []string                 `json:"history"`
	HistoryIndex int                      `json:"history_index"`
	Presets      map[string]preset.Preset `json:"presets"`
	Prefs
}

// Serialize encodes every field as indented JSON.
func (s *State) Serialize() (string, error) {
	b := blob{
		Text:         s.Text,
		History:      s.History.Entries(),
		HistoryIndex: s.History.Index(),
		Presets:      s.Presets.Snapshot(),
		Prefs:        s.Prefs,
	}
	if b.History == nil {
		b.History = []string{}
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return string(data), nil
}

// Deserialize merges a blob produced by Serialize over the current state.
// Keys present in the blob overwrite, missing keys keep their current value.
// A blob that is not a JSON object, or has a field of the wrong type, is
// rejected as a whole with ErrCorruptState and the state is left unchanged.
func (s *State) Deserialize(data string) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &keys); err != nil {
		return s.corrupt(err)
	}
	if keys == nil {
		return s.corrupt(errors.New("session is null"))
	}

	// Decoding into a copy of the current values leaves absent keys alone.
	b := blob{
		Text:         s.Text,
		HistoryIndex: s.History.Index(),
		Prefs:        s.Prefs,
	}
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return s.corrupt(err)
	}

	s.Text = b.Text
	s.Prefs = b.Prefs

	entries := s.History.Entries()
	if _, ok := keys["history"]; ok {
		entries = b.History
	}
	s.History.Restore(entries, b.HistoryIndex)

	if _, ok := keys["presets"]; ok {
		s.Presets.Replace(b.Presets)
	}

	log.Debug("session restored", "history", s.History.Len(), "presets", s.Presets.Len())
	return nil
}

func (s *State) corrupt(err error) error {
	log.Warn("failed to restore session state", "error", err)
	return fmt.Errorf("%w: %w", ErrCorruptState, err)
}
