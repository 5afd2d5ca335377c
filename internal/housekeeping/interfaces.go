// filepath: internal/housekeeping/interfaces.go
package housekeeping

import "archivehub/internal/store"

// BackupStore defines the backup methods required by the housekeeping service.
// *store.Rotator satisfies it.
type BackupStore interface {
	List() ([]store.BackupInfo, error) // oldest first
	Remove(name string) error
}
