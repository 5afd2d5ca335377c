package store

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"archivehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotator_RetainsNewestSeven(t *testing.T) {
	dir := t.TempDir()
	rotator := NewRotator(filepath.Join(dir, "backups"), 7)
	engine := NewEngine(filepath.Join(dir, "database.json"), rotator)

	for i := 0; i < 10; i++ {
		snap := models.DefaultSnapshot(time.Now())
		snap.Settings.Tagline = strconv.Itoa(i)
		require.NoError(t, engine.Save(snap))
	}

	backups, err := rotator.List()
	require.NoError(t, err)
	require.Len(t, backups, 7)

	// the first save had nothing to back up, so the copies hold saves 2 through 8
	for i, b := range backups {
		snap, err := rotator.Open(b.Name)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(i+2), snap.Settings.Tagline, b.Name)
	}
	for i := 1; i < len(backups); i++ {
		assert.True(t, backups[i].CreatedAt.After(backups[i-1].CreatedAt))
	}
}

func TestRotator_MissingStoreIsNoop(t *testing.T) {
	dir := t.TempDir()
	rotator := NewRotator(filepath.Join(dir, "backups"), 7)

	require.NoError(t, rotator.Rotate(filepath.Join(dir, "absent.json")))
	assert.NoDirExists(t, filepath.Join(dir, "backups"))
}

func TestRotator_NamesStrictlyIncrease(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(store, []byte("{}"), 0o644))

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rotator := NewRotator(filepath.Join(dir, "backups"), 10)
	rotator.nowFn = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		require.NoError(t, rotator.Rotate(store))
	}
	backups, err := rotator.List()
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, "backup-20240601T120000.000000000Z.json", backups[0].Name)
	assert.Equal(t, "backup-20240601T120000.000000001Z.json", backups[1].Name)
	assert.Equal(t, "backup-20240601T120000.000000002Z.json", backups[2].Name)
}

func TestRotator_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	require.NoError(t, os.MkdirAll(backupDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "notes.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "backup-1712345678901.json"), []byte("{}"), 0o644))

	store := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(store, []byte("{}"), 0o644))

	rotator := NewRotator(backupDir, 1)
	require.NoError(t, rotator.Rotate(store))
	require.NoError(t, rotator.Rotate(store))

	backups, err := rotator.List()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
	assert.FileExists(t, filepath.Join(backupDir, "notes.txt"))
	assert.FileExists(t, filepath.Join(backupDir, "backup-1712345678901.json"))
}

func TestRotator_LatestOpenRemove(t *testing.T) {
	dir := t.TempDir()
	store := filepath.Join(dir, "database.json")
	rotator := NewRotator(filepath.Join(dir, "backups"), 7)

	_, err := rotator.Latest()
	assert.ErrorIs(t, err, ErrBackupNotFound)

	require.NoError(t, os.WriteFile(store, []byte(`{"settings":{"archiveName":"one"}}`), 0o644))
	require.NoError(t, rotator.Rotate(store))
	require.NoError(t, os.WriteFile(store, []byte(`not json`), 0o644))
	require.NoError(t, rotator.Rotate(store))

	latest, err := rotator.Latest()
	require.NoError(t, err)
	_, err = rotator.Open(latest.Name)
	assert.ErrorIs(t, err, ErrCorruptStore)

	backups, _ := rotator.List()
	snap, err := rotator.Open(backups[0].Name)
	require.NoError(t, err)
	assert.Equal(t, "one", snap.Settings.ArchiveName)

	require.NoError(t, rotator.Remove(latest.Name))
	assert.ErrorIs(t, rotator.Remove(latest.Name), ErrBackupNotFound)
	_, err = rotator.Open("../database.json")
	assert.ErrorIs(t, err, ErrBackupNotFound)
}
