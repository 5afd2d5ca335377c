// filepath: internal/housekeeping/tasks.go
package housekeeping

import (
	"fmt"
	"time"

	"archivehub/internal/logging"
	"archivehub/internal/store"

	"github.com/dustin/go-humanize"
)

// Dependencies defines the required services for the housekeeping tasks.
type Dependencies struct {
	Backups BackupStore
}

// Policy holds the cleanup limits. A zero value disables that limit.
type Policy struct {
	MaxAge        time.Duration
	MaxTotalBytes uint64
}

// Report summarizes one housekeeping run.
type Report struct {
	BackupsDeleted  int    `json:"backupsDeleted"`
	SpaceFreedBytes int64  `json:"spaceFreedBytes"`
	Message         string `json:"message"`
}

// Run deletes backups that are older than the age limit, then the oldest ones while
// the directory exceeds the size limit. The newest backup is never deleted.
func Run(deps Dependencies, policy Policy, now time.Time) (*Report, error) {
	backups, err := deps.Backups.List()
	if err != nil {
		return nil, fmt.Errorf("could not list backups: %w", err)
	}

	report := &Report{}
	if len(backups) > 1 {
		// Only older copies are candidates.
		candidates := backups[:len(backups)-1]
		candidates = cleanupByAge(deps, policy, now, candidates, report)
		cleanupBySize(deps, policy, backups[len(backups)-1], candidates, report)
	}

	report.Message = fmt.Sprintf("Housekeeping complete. %d backups deleted, freeing %s.",
		report.BackupsDeleted, humanize.Bytes(uint64(report.SpaceFreedBytes)))
	return report, nil
}

// cleanupByAge deletes candidates older than the max age and returns the survivors.
func cleanupByAge(deps Dependencies, policy Policy, now time.Time, candidates []store.BackupInfo, report *Report) []store.BackupInfo {
	if policy.MaxAge == 0 {
		logging.Log.Debug("Housekeeping cleanup by age is disabled (max_age is 0).")
		return candidates
	}

	cutoff := now.Add(-policy.MaxAge)
	var kept []store.BackupInfo
	for _, b := range candidates {
		if !b.CreatedAt.Before(cutoff) {
			kept = append(kept, b)
			continue
		}
		if !deleteBackup(deps, b, report) {
			kept = append(kept, b)
		}
	}
	return kept
}

// cleanupBySize deletes the oldest candidates until the total fits the limit.
func cleanupBySize(deps Dependencies, policy Policy, newest store.BackupInfo, candidates []store.BackupInfo, report *Report) {
	if policy.MaxTotalBytes == 0 {
		logging.Log.Debug("Housekeeping cleanup by size is disabled (max_size is 0).")
		return
	}

	total := uint64(newest.Size)
	for _, b := range candidates {
		total += uint64(b.Size)
	}
	if total <= policy.MaxTotalBytes {
		logging.Log.Debugf("Backups use %s, within the %s limit.", humanize.Bytes(total), humanize.Bytes(policy.MaxTotalBytes))
		return
	}

	logging.Log.Infof("Backups are over the size limit by %s. Deleting oldest copies...", humanize.Bytes(total-policy.MaxTotalBytes))
	for _, b := range candidates {
		if total <= policy.MaxTotalBytes {
			break
		}
		if deleteBackup(deps, b, report) {
			total -= uint64(b.Size)
		}
	}
}

func deleteBackup(deps Dependencies, b store.BackupInfo, report *Report) bool {
	if err := deps.Backups.Remove(b.Name); err != nil {
		logging.Log.Errorf("Housekeeping: Failed to delete backup %s: %v", b.Name, err)
		return false
	}
	report.BackupsDeleted++
	report.SpaceFreedBytes += b.Size
	return true
}
