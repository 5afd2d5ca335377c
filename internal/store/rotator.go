package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"archivehub/internal/logging"
	"archivehub/internal/models"
)

const (
	backupPrefix = "backup-"
	backupSuffix = ".json"
	backupLayout = "20060102T150405.000000000Z"
)

// BackupInfo describes one snapshot file.
type BackupInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rotator copies the store file into a backup directory and keeps the newest Retention copies.
type Rotator struct {
	dir       string
	retention int

	mu    sync.Mutex
	last  time.Time
	nowFn func() time.Time
}

// NewRotator creates a rotator writing into dir. Retention below 1 is treated as 1.
func NewRotator(dir string, retention int) *Rotator {
	if retention < 1 {
		retention = 1
	}
	return &Rotator{dir: dir, retention: retention, nowFn: time.Now}
}

// Dir returns the backup directory.
func (r *Rotator) Dir() string { return r.dir }

// Rotate copies storePath into the backup directory and prunes old copies.
// A missing store file is not an error; there is nothing to back up yet.
func (r *Rotator) Rotate(storePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, err := os.Open(storePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open store for backup: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := backupName(r.stamp())
	dstPath := filepath.Join(r.dir, name)
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create backup %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("copy backup %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("close backup %s: %w", name, err)
	}

	return r.prune()
}

// stamp returns a timestamp strictly after the previous one so names never collide.
func (r *Rotator) stamp() time.Time {
	now := r.nowFn().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Nanosecond)
	}
	r.last = now
	return now
}

func (r *Rotator) prune() error {
	backups, err := r.list()
	if err != nil {
		return err
	}
	excess := len(backups) - r.retention
	var errs []error
	for i := 0; i < excess; i++ {
		if err := os.Remove(backups[i].Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		logging.Log.Debugf("Pruned backup %s", backups[i].Name)
	}
	return errors.Join(errs...)
}

// List returns the backups, oldest first.
func (r *Rotator) List() ([]BackupInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list()
}

func (r *Rotator) list() ([]BackupInfo, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		createdAt, ok := parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			Path:      filepath.Join(r.dir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: createdAt,
		})
	}
	slices.SortStableFunc(backups, func(a, b BackupInfo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return backups, nil
}

// Latest returns the newest backup.
func (r *Rotator) Latest() (BackupInfo, error) {
	backups, err := r.List()
	if err != nil {
		return BackupInfo{}, err
	}
	if len(backups) == 0 {
		return BackupInfo{}, ErrBackupNotFound
	}
	return backups[len(backups)-1], nil
}

// Open decodes the named backup.
func (r *Rotator) Open(name string) (*models.Snapshot, error) {
	path, err := r.pathFor(name)
	if err != nil {
		return nil, err
	}
	snap, err := decodeFile(path)
	if errors.Is(err, ErrStoreNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, name)
	}
	return snap, err
}

// Remove deletes the named backup.
func (r *Rotator) Remove(name string) error {
	path, err := r.pathFor(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, name)
		}
		return err
	}
	return nil
}

func (r *Rotator) pathFor(name string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("%w: invalid name %q", ErrBackupNotFound, name)
	}
	if _, ok := parseBackupName(name); !ok {
		return "", fmt.Errorf("%w: invalid name %q", ErrBackupNotFound, name)
	}
	return filepath.Join(r.dir, name), nil
}

func backupName(t time.Time) string {
	return backupPrefix + t.UTC().Format(backupLayout) + backupSuffix
}

func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	t, err := time.Parse(backupLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
