// Package characters discovers the character voices that tags can refer to.
//
// Discovery only feeds suggestions; tags naming unknown characters are still
// valid.
package characters

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// ErrNoVoiceDir is returned by a DirProvider without a directory.
var ErrNoVoiceDir = errors.New("no voice directory configured")

// Fallback is the character list offered when nothing can be discovered.
var Fallback = []string{"Alice", "Bob", "Charlie", "Diana", "Emma", "Frank", "Grace", "Henry"}

// Provider returns the names of the available character voices.
type Provider interface {
	Characters() ([]string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() ([]string, error)

// Characters calls f.
func (f ProviderFunc) Characters() ([]string, error) {
	return f()
}

// Static is a fixed list of characters.
type Static []string

// Characters returns a copy of the list.
func (s Static) Characters() ([]string, error) {
	return slices.Clone(s), nil
}

// voiceExtensions are the reference audio formats recognized as voices.
var voiceExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".opus": true,
}

// DirProvider discovers characters from a voices directory. Every reference
// audio file and every sub-directory names one character. Results are cached
// until Refresh is called or Watch sees a change.
type DirProvider struct {
	dir string

	mu     sync.RWMutex
	names  []string
	loaded bool
}

// NewDirProvider returns a provider scanning dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{dir: dir}
}

// Dir returns the scanned directory.
func (p *DirProvider) Dir() string {
	return p.dir
}

// Characters returns the cached character list, scanning on first use.
func (p *DirProvider) Characters() ([]string, error) {
	p.mu.RLock()
	if p.loaded {
		names := slices.Clone(p.names)
		p.mu.RUnlock()
		return names, nil
	}
	p.mu.RUnlock()

	return p.Refresh()
}

// Refresh rescans the directory and replaces the cached list.
func (p *DirProvider) Refresh() ([]string, error) {
	names, err := scanVoices(p.dir)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.names = names
	p.loaded = true
	p.mu.Unlock()

	return slices.Clone(names), nil
}

func scanVoices(dir string) ([]string, error) {
	if dir == "" {
		return nil, ErrNoVoiceDir
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		if !entry.IsDir() {
			ext := filepath.Ext(name)
			if !voiceExtensions[strings.ToLower(ext)] {
				continue
			}
			name = strings.TrimSuffix(name, ext)
		}

		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	slices.Sort(names)
	return names, nil
}
