package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const (
	indexFile = "sessions.index"

	// Blobs at or below this size are stored as is.
	compressThreshold = 1024
)

// Store keeps named session blobs on disk. Writes go through a temporary file
// and a rename, and the index is saved after every change so separate
// processes see each other's sessions.
type Store struct {
	basePath string

	// Compression
	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*storeEntry

	mu    sync.RWMutex
	stats Stats
}

// storeEntry represents an entry in the store index
type storeEntry struct {
	Name         string
	FilePath     string
	Size         int64 // Size on disk (compressed)
	OriginalSize int64
	Created      time.Time
	Updated      time.Time
	Compressed   bool
}

// Open opens or creates a store in basePath. A compression level of zero or
// less disables compression.
func Open(basePath string, compressionLevel int) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &Store{
		basePath: basePath,
		index:    make(map[string]*storeEntry),
	}

	if compressionLevel > 0 {
		var err error
		s.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
	}

	// Blobs written with compression stay readable after it is turned off.
	var err error
	s.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	if err := s.loadIndex(); err != nil {
		log.Warn("session index unreadable, starting empty", "path", basePath, "error", err)
		s.index = make(map[string]*storeEntry)
	}

	return s, nil
}

// Path returns the store directory.
func (s *Store) Path() string {
	return s.basePath
}

// Load returns the blob stored under name.
func (s *Store) Load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[name]
	if !ok {
		s.stats.Misses++
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		s.stats.Misses++
		if os.IsNotExist(err) {
			// Removed behind our back
			delete(s.index, name)
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read session %s: %w", name, err)
	}

	if entry.Compressed {
		decompressed, err := s.decoder.DecodeAll(data, nil)
		if err != nil {
			s.stats.Misses++
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupted, name, err)
		}
		data = decompressed
	}

	s.stats.Hits++
	s.stats.LastAccess = time.Now()

	return data, nil
}

// Save stores data under name, replacing any previous blob.
func (s *Store) Save(name string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	originalSize := int64(len(data))

	dataToWrite := data
	var compressed bool
	if s.encoder != nil && originalSize > compressThreshold {
		// Only use compression if it actually reduces size
		if c := s.encoder.EncodeAll(data, nil); len(c) < len(data) {
			dataToWrite = c
			compressed = true
		}
	}

	filePath := s.filePath(name)
	if err := writeFile(filePath, dataToWrite); err != nil {
		return fmt.Errorf("failed to write session %s: %w", name, err)
	}

	now := time.Now()
	created := now
	if existing, ok := s.index[name]; ok {
		created = existing.Created
	}

	s.index[name] = &storeEntry{
		Name:         name,
		FilePath:     filePath,
		Size:         int64(len(dataToWrite)),
		OriginalSize: originalSize,
		Created:      created,
		Updated:      now,
		Compressed:   compressed,
	}

	log.Debug("session saved", "name", name, "size", originalSize, "compressed", compressed)
	return s.saveIndex()
}

// Delete removes the blob stored under name and reports whether it existed.
func (s *Store) Delete(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.index[name]
	if !ok {
		return false, nil
	}

	if err := os.Remove(entry.FilePath); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to remove session %s: %w", name, err)
	}
	delete(s.index, name)

	return true, s.saveIndex()
}

// Prune removes sessions not updated since cutoff and returns their names.
func (s *Store) Prune(cutoff time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for name, entry := range s.index {
		if entry.Updated.Before(cutoff) {
			os.Remove(entry.FilePath) //nolint:errcheck
			delete(s.index, name)
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)

	if len(removed) == 0 {
		return nil, nil
	}
	return removed, s.saveIndex()
}

// Contains reports whether a session is stored under name.
func (s *Store) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[name]
	return ok
}

// List returns the stored sessions sorted by name.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.index))
	for _, e := range s.index {
		entries = append(entries, Entry{
			Name:         e.Name,
			Size:         e.Size,
			OriginalSize: e.OriginalSize,
			Compressed:   e.Compressed,
			Created:      e.Created,
			Updated:      e.Updated,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Stats returns store statistics.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.stats
	stats.ItemCount = int64(len(s.index))
	for _, e := range s.index {
		stats.Size += e.Size
	}
	stats.HitRate = hitRate(stats.Hits, stats.Misses)
	return stats
}

// Close releases the codecs and saves the index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder != nil {
		s.encoder.Close() //nolint:errcheck
	}
	s.decoder.Close()

	return s.saveIndex()
}

func (s *Store) filePath(name string) string {
	// Use SHA256 hash of the name for the filename
	hash := sha256.Sum256([]byte(name))
	return filepath.Join(s.basePath, hex.EncodeToString(hash[:16])+".session")
}

func (s *Store) loadIndex() error {
	file, err := os.Open(filepath.Join(s.basePath, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No index file yet
		}
		return err
	}
	defer file.Close() //nolint:errcheck

	return gob.NewDecoder(file).Decode(&s.index)
}

func (s *Store) saveIndex() error {
	indexPath := filepath.Join(s.basePath, indexFile)
	tempPath := indexPath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(file).Encode(s.index)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath) //nolint:errcheck
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath) //nolint:errcheck
		return closeErr
	}

	return os.Rename(tempPath, indexPath)
}

// writeFile writes to a temp file first, then renames it into place.
func writeFile(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath) //nolint:errcheck
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath) //nolint:errcheck
		return closeErr
	}

	return os.Rename(tempPath, path)
}
