// Package cache persists editor sessions on disk and memoizes tag parsing in
// memory. Store keeps named session blobs, zstd-compressed when that pays
// off, behind a gob index; LRU is a small least-recently-used map.
package cache
