package cache

import (
	"errors"
	"time"
)

// Common errors for cache operations
var (
	// ErrNotFound is returned when no session is stored under a name
	ErrNotFound = errors.New("session not found")

	// ErrCorrupted is returned when a stored blob cannot be decoded
	ErrCorrupted = errors.New("stored session corrupted")

	// ErrInvalidName is returned for blank session names
	ErrInvalidName = errors.New("invalid session name")
)

// Stats holds cache performance metrics
type Stats struct {
	// Current state
	Size      int64 // Bytes on disk, or entries for an LRU
	ItemCount int64 // Number of items

	// Performance metrics
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	LastAccess time.Time
}

// Entry describes a stored session.
type Entry struct {
	Name         string
	Size         int64 // Size on disk (compressed)
	OriginalSize int64 // Size of the blob
	Compressed   bool
	Created      time.Time
	Updated      time.Time
}

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
