// Package persist serializes the widget sequence to durable storage,
// loads and migrates it on startup, and falls back to the default seed
// when the stored value is corrupt.
//
// Saves are debounced: a drag produces a burst of reorders, and only the
// quiet state after the burst is worth a disk write. The pending write is
// flushed synchronously on shutdown so a reorder-then-quit is not lost.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrQuotaExceeded is returned by a Storage whose backing medium refuses
// the payload for being too large.
var ErrQuotaExceeded = errors.New("persist: storage quota exceeded")

// DefaultMaxBytes caps the layout file size. Well beyond any reasonable
// board, but small enough that a runaway notes blob trips the minimized
// retry path instead of growing without bound.
const DefaultMaxBytes = 256 * 1024

// LayoutFileName is the single durable key the board is stored under.
const LayoutFileName = "layout.json"

// Storage is the durable medium the Manager writes through. Implementations
// report a missing value with an error wrapping os.ErrNotExist and an
// oversized payload with ErrQuotaExceeded.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileStorage stores the layout as a single JSON file. Writes are atomic
// via temp-file-then-rename so a crash mid-write never leaves a torn file.
type FileStorage struct {
	path     string
	maxBytes int64
}

// NewFileStorage creates a FileStorage under dir. maxBytes of zero or
// below means DefaultMaxBytes.
func NewFileStorage(dir string, maxBytes int64) (*FileStorage, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persist: create directory %s: %w", dir, err)
	}
	return &FileStorage{
		path:     filepath.Join(dir, LayoutFileName),
		maxBytes: maxBytes,
	}, nil
}

// Path returns the layout file path.
func (f *FileStorage) Path() string {
	return f.path
}

// Read returns the stored layout bytes.
func (f *FileStorage) Read() ([]byte, error) {
	return os.ReadFile(f.path)
}

// Write stores data atomically, refusing payloads over the quota.
func (f *FileStorage) Write(data []byte) error {
	if int64(len(data)) > f.maxBytes {
		return fmt.Errorf("%w: %d bytes over %d limit", ErrQuotaExceeded, len(data), f.maxBytes)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".tmp-layout-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("persist: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("persist: rename into place: %w", err)
	}

	success = true
	return nil
}
