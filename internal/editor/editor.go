// Package editor drives a session: every edit goes through here so it is
// recorded in the undo history, reflected in the remembered preferences and
// saved.
package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/ttstag/internal/cache"
	"github.com/dgnsrekt/ttstag/internal/session"
	"github.com/dgnsrekt/ttstag/internal/tags"
)

// Saver persists serialized sessions. *cache.Store implements it.
type Saver interface {
	Save(name string, data []byte) error
}

// Editor applies edits to a session state.
type Editor struct {
	state     *session.State
	languages []string

	parsed *cache.LRU[[]tags.Tag]

	saver   Saver
	name    string
	limiter *rate.Limiter
	dirty   bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLanguages sets the language codes recognized in tag heads.
func WithLanguages(languages []string) Option {
	return func(e *Editor) {
		e.languages = languages
	}
}

// WithParseCacheSize sets how many parsed texts are memoized.
func WithParseCacheSize(n int) Option {
	return func(e *Editor) {
		e.parsed = cache.NewLRU[[]tags.Tag](n)
	}
}

// WithAutosave saves the session under name after edits, at most once per
// interval. Edits inside the interval are saved by Flush or Close. A zero
// interval saves after every edit.
func WithAutosave(saver Saver, name string, interval time.Duration) Option {
	return func(e *Editor) {
		e.saver = saver
		e.name = name
		if interval <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
		} else {
			e.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// New returns an editor for state.
func New(state *session.State, opts ...Option) *Editor {
	e := &Editor{
		state:  state,
		parsed: cache.NewLRU[[]tags.Tag](64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the edited session.
func (e *Editor) State() *session.State {
	return e.state
}

// Text returns the live text.
func (e *Editor) Text() string {
	return e.state.Text
}

// Cursor returns the remembered caret offset, clamped to the text.
func (e *Editor) Cursor() int {
	return min(max(0, e.state.Prefs.LastCursorPosition), len(e.state.Text))
}

// MoveCursor sets the caret used by tag actions.
func (e *Editor) MoveCursor(pos int) {
	e.state.Prefs.LastCursorPosition = min(max(0, pos), len(e.state.Text))
	e.touch()
}

// Process is the host boundary: text passes through unchanged and becomes
// the live text without an undo snapshot.
func (e *Editor) Process(text string) string {
	if text != e.state.Text {
		e.state.Text = text
		e.touch()
	}
	return text
}

// SetText replaces the live text as a user edit.
func (e *Editor) SetText(text string) {
	e.apply(text, len(text))
}

// Insert places tag at position, or in front of the selection when wrap is
// set and the selection bounds are valid.
func (e *Editor) Insert(tag string, position int, wrap bool, selStart, selEnd int) {
	text := tags.InsertTagAtPosition(e.state.Text, tag, position, wrap, selStart, selEnd)

	caret := min(max(0, position), len(e.state.Text))
	if wrap && selStart >= 0 && selEnd >= 0 {
		caret = min(selStart, len(e.state.Text))
	}
	e.apply(text, caret+len(tag)+1)
}

// InsertPause inserts a pause tag at the cursor. An empty duration uses the
// last one chosen.
func (e *Editor) InsertPause(duration string) {
	if duration == "" {
		duration = e.state.Prefs.LastPauseDuration
	}
	e.state.Prefs.LastPauseDuration = duration
	e.Insert(tags.PauseTag(duration), e.Cursor(), false, -1, -1)
}

// SetCharacter switches the character of the tag at the cursor.
func (e *Editor) SetCharacter(char string) {
	text, caret := tags.SetCharacter(e.state.Text, e.Cursor(), char, e.languages)
	e.state.Prefs.LastCharacter = char
	e.apply(text, caret)
}

// SetLanguage sets the language of the tag at the cursor.
func (e *Editor) SetLanguage(lang string) error {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !tags.IsLanguageCode(lang, e.languages) {
		return fmt.Errorf("unknown language %q", lang)
	}

	text, caret := tags.SetLanguage(e.state.Text, e.Cursor(), lang, e.languages)
	e.state.Prefs.LastLanguage = lang
	e.apply(text, caret)
	return nil
}

// AddParameter sets a catalog parameter on the tag at the cursor.
func (e *Editor) AddParameter(name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)
	if err := tags.CheckParameter(name, value); err != nil {
		return err
	}

	switch name {
	case "seed":
		if seed, err := strconv.Atoi(value); err == nil {
			e.state.Prefs.LastSeed = seed
		}
	case "temperature":
		if temp, err := strconv.ParseFloat(value, 64); err == nil {
			e.state.Prefs.LastTemperature = temp
		}
	}
	e.state.Prefs.LastParameterType = name

	text, caret := tags.AddParameter(e.state.Text, e.Cursor(), name, value)
	e.apply(text, caret)
	return nil
}

// Format normalizes tag spacing in the live text.
func (e *Editor) Format() {
	e.apply(tags.Format(e.state.Text), e.Cursor())
}

// ApplyPreset inserts the preset's tag at the cursor.
func (e *Editor) ApplyPreset(name string) bool {
	tag, ok := e.state.Presets.Load(name)
	if !ok {
		return false
	}
	e.Insert(tag, e.Cursor(), false, -1, -1)
	return true
}

// SavePreset stores tag under name.
func (e *Editor) SavePreset(name, tag string) bool {
	if !e.state.Presets.Save(name, tag) {
		return false
	}
	e.touch()
	return true
}

// DeletePreset removes a preset.
func (e *Editor) DeletePreset(name string) bool {
	if !e.state.Presets.Delete(name) {
		return false
	}
	e.touch()
	return true
}

// Import restores a serialized session over the current one. A corrupt blob
// leaves the session unchanged.
func (e *Editor) Import(data string) error {
	if err := e.state.Deserialize(data); err != nil {
		return err
	}
	e.touch()
	return nil
}

// Reset clears the text, history and presets and starts over with prefs.
func (e *Editor) Reset(prefs session.Prefs) {
	e.state.Reset(prefs)
	e.parsed.Clear()
	e.touch()
}

// Undo restores the previous snapshot. It reports whether the history
// cursor moved.
func (e *Editor) Undo() bool {
	e.snapshotLive()
	before := e.state.History.Index()
	return e.restore(e.state.History.Undo(e.state.Text), before)
}

// Redo restores the next snapshot. It reports whether the history cursor
// moved.
func (e *Editor) Redo() bool {
	e.snapshotLive()
	before := e.state.History.Index()
	return e.restore(e.state.History.Redo(e.state.Text), before)
}

// Tags returns the tags in the live text.
func (e *Editor) Tags() []tags.Tag {
	text := e.state.Text
	if found, ok := e.parsed.Get(text); ok {
		return found
	}
	found := tags.Extract(text)
	e.parsed.Put(text, found)
	return found
}

// ParseStats returns the parse cache statistics.
func (e *Editor) ParseStats() cache.Stats {
	return e.parsed.Stats()
}

// Validate checks the live text.
func (e *Editor) Validate() (bool, string) {
	return tags.Validate(e.state.Text)
}

// Flush saves pending changes.
func (e *Editor) Flush() error {
	if !e.dirty || e.saver == nil {
		return nil
	}
	return e.save()
}

// Close flushes pending changes.
func (e *Editor) Close() error {
	return e.Flush()
}

// apply records text as a user edit and moves the caret.
func (e *Editor) apply(text string, caret int) {
	e.snapshotLive()
	if text != e.state.Text {
		e.state.History.Record(text)
	}

	e.state.Text = text
	e.state.Prefs.LastCursorPosition = min(max(0, caret), len(text))
	e.touch()
}

// snapshotLive records the live text when the history does not end on it,
// such as the starting text or text delivered through Process.
func (e *Editor) snapshotLive() {
	if cur, ok := e.state.History.Current(); !ok || cur != e.state.Text {
		e.state.History.Record(e.state.Text)
	}
}

func (e *Editor) restore(text string, before int) bool {
	if e.state.History.Index() == before {
		return false
	}
	e.state.Text = text
	e.state.Prefs.LastCursorPosition = len(text)
	e.touch()
	return true
}

// touch marks the session changed and saves it if the limiter allows.
func (e *Editor) touch() {
	e.dirty = true
	if e.saver == nil || !e.limiter.Allow() {
		return
	}
	if err := e.save(); err != nil {
		log.Warn("autosave failed", "session", e.name, "error", err)
	}
}

func (e *Editor) save() error {
	data, err := e.state.Serialize()
	if err != nil {
		return err
	}
	if err := e.saver.Save(e.name, []byte(data)); err != nil {
		return fmt.Errorf("failed to save session %s: %w", e.name, err)
	}
	e.dirty = false
	log.Debug("session saved", "session", e.name)
	return nil
}
