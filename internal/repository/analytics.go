package repository

import (
	"strings"

	"archivehub/internal/models"
)

// AnalyticsRepo maintains the global counters and the bounded search log.
// The counters are independent of the per-document ones and are never recomputed.
type AnalyticsRepo struct{ *base }

func (r *AnalyticsRepo) Get() (models.Analytics, error) {
	var out models.Analytics
	err := r.view(func(s *models.Snapshot) error {
		out = s.Analytics
		return nil
	})
	return out, err
}

func (r *AnalyticsRepo) TrackView() error {
	return r.update(func(s *models.Snapshot) error {
		s.Analytics.TotalViews++
		return nil
	})
}

func (r *AnalyticsRepo) TrackDownload() error {
	return r.update(func(s *models.Snapshot) error {
		s.Analytics.TotalDownloads++
		return nil
	})
}

// TrackSearch appends query to the search log, keeping the newest MaxSearchQueries entries.
// Blank queries are ignored.
func (r *AnalyticsRepo) TrackSearch(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	entry := models.SearchQuery{Query: query, Timestamp: r.now()}
	return r.update(func(s *models.Snapshot) error {
		log := append(s.Analytics.SearchQueries, entry)
		if over := len(log) - models.MaxSearchQueries; over > 0 {
			log = log[over:]
		}
		s.Analytics.SearchQueries = log
		return nil
	})
}
