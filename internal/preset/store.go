// Package preset stores named tag templates such as "[en:Alice|seed:42]" for
// quick reuse.
package preset

import (
	"sort"
	"strings"
	"time"
)

// Preset is a saved tag. Tag is stored verbatim and never validated.
type Preset struct {
	Name    string `json:"-" yaml:"name"`
	Tag     string `json:"tag" yaml:"tag"`
	Created string `json:"created" yaml:"created"`
}

// CreatedAt parses the creation timestamp. The zero time is returned for
// timestamps that are not RFC 3339.
func (p Preset) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, p.Created)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Store maps preset names to presets.
type Store struct {
	presets map[string]Preset

	// now is swapped in tests.
	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		presets: make(map[string]Preset),
		now:     time.Now,
	}
}

// SetClock replaces the clock used to stamp new presets.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Save stores tag under name, overwriting any existing preset. It returns
// false and leaves the store unchanged when name is blank.
func (s *Store) Save(name, tag string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	s.presets[name] = Preset{
		Name:    name,
		Tag:     tag,
		Created: s.now().Format(time.RFC3339Nano),
	}
	return true
}

// Load returns the tag saved under name.
func (s *Store) Load(name string) (string, bool) {
	p, ok := s.presets[name]
	return p.Tag, ok
}

// Get returns the full preset saved under name.
func (s *Store) Get(name string) (Preset, bool) {
	p, ok := s.presets[name]
	return p, ok
}

// Delete removes the preset and reports whether it existed.
func (s *Store) Delete(name string) bool {
	if _, ok := s.presets[name]; !ok {
		return false
	}
	delete(s.presets, name)
	return true
}

// Len returns the number of presets.
func (s *Store) Len() int {
	return len(s.presets)
}

// Names returns the preset names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.presets))
	for name := range s.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all presets sorted by name.
func (s *Store) List() []Preset {
	list := make([]Preset, 0, len(s.presets))
	for _, name := range s.Names() {
		list = append(list, s.presets[name])
	}
	return list
}

// Snapshot returns a copy of the presets keyed by name.
func (s *Store) Snapshot() map[string]Preset {
	m := make(map[string]Preset, len(s.presets))
	for name, p := range s.presets {
		m[name] = p
	}
	return m
}

// Replace swaps the whole preset map. Names are taken from the keys.
func (s *Store) Replace(presets map[string]Preset) {
	s.presets = make(map[string]Preset, len(presets))
	for name, p := range presets {
		p.Name = name
		s.presets[name] = p
	}
}

// minDisplayChars is the shortest tag preview DisplayName produces.
const minDisplayChars = 8

// DisplayName returns the preset's tag shortened for a sidebar of the given
// pixel width, or name itself when the preset does not exist.
func (s *Store) DisplayName(name string, width int) string {
	p, ok := s.presets[name]
	if !ok {
		return name
	}

	limit := max(minDisplayChars, (width-30)/6)
	runes := []rune(p.Tag)
	if len(runes) <= limit {
		return p.Tag
	}
	return string(runes[:limit]) + "..."
}
