package store

import "errors"

// Errors returned by the store. Callers test them with errors.Is.
var (
	// ErrStoreNotFound means the store file does not exist yet. Only expected on first run.
	ErrStoreNotFound = errors.New("store not found")
	// ErrCorruptStore means the store file exists but does not decode.
	ErrCorruptStore = errors.New("store is corrupt")
	// ErrStorePersist means a save failed. The previous content is still on disk.
	ErrStorePersist = errors.New("store persist failed")
	// ErrBackupNotFound is returned for an unknown backup name.
	ErrBackupNotFound = errors.New("backup not found")
)
