// filepath: internal/housekeeping/service_test.go
package housekeeping

import (
	"errors"
	"testing"
	"time"

	"archivehub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackups is a mock implementation of the BackupStore interface for testing.
type MockBackups struct {
	mock.Mock
}

func (m *MockBackups) List() ([]store.BackupInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.BackupInfo), args.Error(1)
}

func (m *MockBackups) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func backupAt(name string, age time.Duration, size int64) store.BackupInfo {
	return store.BackupInfo{Name: name, Size: size, CreatedAt: now.Add(-age)}
}

func TestRun_CleanupByAge(t *testing.T) {
	mockBackups := new(MockBackups)
	backups := []store.BackupInfo{
		backupAt("b1", 40*24*time.Hour, 1024),
		backupAt("b2", 31*24*time.Hour, 1024),
		backupAt("b3", 2*24*time.Hour, 1024),
	}
	mockBackups.On("List").Return(backups, nil)
	mockBackups.On("Remove", "b1").Return(nil)
	mockBackups.On("Remove", "b2").Return(nil)

	report, err := Run(Dependencies{Backups: mockBackups}, Policy{MaxAge: 30 * 24 * time.Hour}, now)

	require.NoError(t, err)
	assert.Equal(t, 2, report.BackupsDeleted)
	assert.Equal(t, int64(2048), report.SpaceFreedBytes)
	assert.Contains(t, report.Message, "2 backups deleted")
	assert.Contains(t, report.Message, "2.0 kB")
	mockBackups.AssertNotCalled(t, "Remove", "b3")
}

func TestRun_NewestIsAlwaysKept(t *testing.T) {
	mockBackups := new(MockBackups)
	mockBackups.On("List").Return([]store.BackupInfo{
		backupAt("old", 90*24*time.Hour, 10),
		backupAt("newest", 60*24*time.Hour, 10),
	}, nil)
	mockBackups.On("Remove", "old").Return(nil)

	report, err := Run(Dependencies{Backups: mockBackups}, Policy{MaxAge: 24 * time.Hour, MaxTotalBytes: 1}, now)

	require.NoError(t, err)
	assert.Equal(t, 1, report.BackupsDeleted)
	mockBackups.AssertNotCalled(t, "Remove", "newest")
}

func TestRun_CleanupBySize(t *testing.T) {
	mockBackups := new(MockBackups)
	mockBackups.On("List").Return([]store.BackupInfo{
		backupAt("b1", 4*time.Hour, 400),
		backupAt("b2", 3*time.Hour, 400),
		backupAt("b3", 2*time.Hour, 400),
		backupAt("b4", time.Hour, 400),
	}, nil)
	mockBackups.On("Remove", "b1").Return(nil)
	mockBackups.On("Remove", "b2").Return(nil)

	report, err := Run(Dependencies{Backups: mockBackups}, Policy{MaxTotalBytes: 1000}, now)

	require.NoError(t, err)
	assert.Equal(t, 2, report.BackupsDeleted)
	assert.Equal(t, int64(800), report.SpaceFreedBytes)
	mockBackups.AssertNotCalled(t, "Remove", "b3")
}

func TestRun_Disabled(t *testing.T) {
	mockBackups := new(MockBackups)
	mockBackups.On("List").Return([]store.BackupInfo{
		backupAt("b1", 400*24*time.Hour, 1 << 30),
		backupAt("b2", time.Hour, 1 << 30),
	}, nil)

	report, err := Run(Dependencies{Backups: mockBackups}, Policy{}, now)

	require.NoError(t, err)
	assert.Zero(t, report.BackupsDeleted)
	assert.Equal(t, "Housekeeping complete. 0 backups deleted, freeing 0 B.", report.Message)
	mockBackups.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestRun_RemoveFailureIsSkipped(t *testing.T) {
	mockBackups := new(MockBackups)
	mockBackups.On("List").Return([]store.BackupInfo{
		backupAt("b1", 48*time.Hour, 100),
		backupAt("b2", 47*time.Hour, 100),
		backupAt("b3", time.Hour, 100),
	}, nil)
	mockBackups.On("Remove", "b1").Return(errors.New("permission denied"))
	mockBackups.On("Remove", "b2").Return(nil)

	report, err := Run(Dependencies{Backups: mockBackups}, Policy{MaxAge: 24 * time.Hour}, now)

	require.NoError(t, err)
	assert.Equal(t, 1, report.BackupsDeleted)
	assert.Equal(t, int64(100), report.SpaceFreedBytes)
}

func TestRun_ListError(t *testing.T) {
	mockBackups := new(MockBackups)
	mockBackups.On("List").Return(nil, errors.New("disk gone"))

	_, err := Run(Dependencies{Backups: mockBackups}, Policy{MaxAge: time.Hour}, now)
	assert.Error(t, err)
}

func TestService_NextInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		expected time.Duration
	}{
		{"zero uses default", 0, DefaultCheckInterval},
		{"too short is clamped", time.Second, MinCheckInterval},
		{"configured", 6 * time.Hour, 6 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(Dependencies{}, Policy{}, tt.interval)
			assert.Equal(t, tt.expected, s.nextInterval())
		})
	}
}

func TestService_StartRunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	mockBackups := new(MockBackups)
	mockBackups.On("List").Return([]store.BackupInfo{}, nil).Run(func(mock.Arguments) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	s := NewService(Dependencies{Backups: mockBackups}, Policy{MaxAge: time.Hour}, time.Hour)
	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("housekeeping did not run on start")
	}
	s.Stop()

	mockBackups.AssertCalled(t, "List")
}

func TestRun_WithRotator(t *testing.T) {
	r := store.NewRotator(t.TempDir(), 10)
	report, err := Run(Dependencies{Backups: r}, Policy{MaxAge: time.Hour}, now)
	require.NoError(t, err)
	assert.Zero(t, report.BackupsDeleted)
}
