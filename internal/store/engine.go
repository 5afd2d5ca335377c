// Package store persists the whole catalog as one JSON document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"archivehub/internal/logging"
	"archivehub/internal/models"
)

// Engine is the only read/write path to the store file.
//
// Writers are serialized by one mutex held across load, mutate and save.
// Readers never take it: the file is replaced by an atomic rename, so a
// reader sees either the previous or the next document.
type Engine struct {
	path    string
	rotator *Rotator

	mu sync.Mutex

	// createTemp is swapped in tests to simulate a failing disk.
	createTemp func(dir, pattern string) (*os.File, error)
}

// NewEngine creates an engine for the store file at path. A nil rotator disables backups.
func NewEngine(path string, rotator *Rotator) *Engine {
	return &Engine{
		path:       path,
		rotator:    rotator,
		createTemp: os.CreateTemp,
	}
}

// Path returns the store file location.
func (e *Engine) Path() string { return e.path }

// Rotator returns the backup rotator, or nil.
func (e *Engine) Rotator() *Rotator { return e.rotator }

// Load reads and decodes the store file.
func (e *Engine) Load() (*models.Snapshot, error) {
	return decodeFile(e.path)
}

// Save persists snap, backing up the current file first.
func (e *Engine) Save(snap *models.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(snap)
}

// Update runs one load-mutate-save cycle under the write lock.
// If fn returns an error nothing is written and the error is returned as is.
func (e *Engine) Update(fn func(*models.Snapshot) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := decodeFile(e.path)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return e.save(snap)
}

// View loads the current document and hands it to fn.
// fn owns the snapshot; changes to it are never persisted.
func (e *Engine) View(fn func(*models.Snapshot) error) error {
	snap, err := decodeFile(e.path)
	if err != nil {
		return err
	}
	return fn(snap)
}

// Bootstrap writes defaults() when no store file exists. A corrupt file is
// reported, never overwritten.
func (e *Engine) Bootstrap(defaults func() *models.Snapshot) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := decodeFile(e.path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrStoreNotFound):
		if err := e.save(defaults()); err != nil {
			return false, err
		}
		logging.Log.Infof("Store initialized at %s", e.path)
		return true, nil
	default:
		return false, err
	}
}

func (e *Engine) save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorePersist, err)
	}

	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorePersist, err)
	}

	tmp, err := e.createTemp(dir, ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStorePersist, err)
	}
	tmpName := tmp.Name()
	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", ErrStorePersist, err)
	}

	if e.rotator != nil {
		if err := e.rotator.Rotate(e.path); err != nil {
			// backup failures never fail the save
			logging.Log.WithError(err).Warnf("Backup of %s failed; continuing with save", e.path)
		}
	}

	if err := os.Rename(tmpName, e.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrStorePersist, err)
	}

	logging.Log.Debugf("Store saved to %s (%d bytes)", e.path, len(data))
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func decodeFile(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}
		return nil, fmt.Errorf("read store %s: %w", path, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, path, err)
	}
	return &snap, nil
}
