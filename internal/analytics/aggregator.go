// Package analytics derives dashboard figures from a store snapshot.
// Nothing here is stored; every figure is recomputed on request.
package analytics

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"archivehub/internal/models"
)

// MonthlyWindow is the trailing window counted as "this month" for uploads.
const MonthlyWindow = 30 * 24 * time.Hour

// Viewer hands out a read-only snapshot of the store.
type Viewer interface {
	View(fn func(*models.Snapshot) error) error
}

// Overview is the admin dashboard summary.
type Overview struct {
	TotalDocuments   int   `json:"totalDocuments"`
	TotalCollections int   `json:"totalCollections"`
	TotalViews       int64 `json:"totalViews"`
	TotalDownloads   int64 `json:"totalDownloads"`
	MonthlyUploads   int   `json:"monthlyUploads"`
	PendingRequests  int   `json:"pendingRequests"`
}

// KeywordCount is one entry of the search trend table.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// PublicStats are the figures shown on the public home page.
type PublicStats struct {
	TotalDocuments   int `json:"totalDocuments"`
	TotalPhotographs int `json:"totalPhotographs"`
	TotalManuscripts int `json:"totalManuscripts"`
	YearsCovered     int `json:"yearsCovered"`
}

// ComputeOverview summarizes s as of now. View and download totals come from the
// global counters, not from summing documents.
func ComputeOverview(s *models.Snapshot, now time.Time) Overview {
	cutoff := now.Add(-MonthlyWindow)
	o := Overview{
		TotalDocuments:   len(s.Documents),
		TotalCollections: len(s.Collections),
		TotalViews:       s.Analytics.TotalViews,
		TotalDownloads:   s.Analytics.TotalDownloads,
	}
	for _, d := range s.Documents {
		if d.CreatedAt.After(cutoff) {
			o.MonthlyUploads++
		}
	}
	for _, r := range s.ResearchRequests {
		if r.Status == models.StatusPending {
			o.PendingRequests++
		}
	}
	return o
}

// ComputeSearchTrends counts case-folded queries, most frequent first and
// alphabetical among equals. limit <= 0 returns every keyword.
func ComputeSearchTrends(s *models.Snapshot, limit int) []KeywordCount {
	counts := make(map[string]int)
	for _, q := range s.Analytics.SearchQueries {
		keyword := strings.ToLower(strings.TrimSpace(q.Query))
		if keyword != "" {
			counts[keyword]++
		}
	}
	out := make([]KeywordCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KeywordCount{Keyword: k, Count: n})
	}
	slices.SortFunc(out, func(a, b KeywordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Keyword, b.Keyword)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ComputePublicStats counts published holdings. YearsCovered spans the earliest
// and latest date.from year over all documents, and is 0 when no year is known.
func ComputePublicStats(s *models.Snapshot) PublicStats {
	var st PublicStats
	minYear, maxYear := 0, 0
	for _, d := range s.Documents {
		if year, ok := startYear(d); ok {
			if minYear == 0 || year < minYear {
				minYear = year
			}
			if year > maxYear {
				maxYear = year
			}
		}
		if !d.Published {
			continue
		}
		st.TotalDocuments++
		if slices.ContainsFunc(d.Files, func(f models.DocumentFile) bool { return f.Type == "image" }) {
			st.TotalPhotographs++
		}
		if slices.ContainsFunc(d.Subjects, func(sub string) bool { return strings.EqualFold(sub, "Manuscripts") }) {
			st.TotalManuscripts++
		}
	}
	if minYear > 0 {
		st.YearsCovered = maxYear - minYear
	}
	return st
}

func startYear(d models.Document) (int, bool) {
	if len(d.Date.From) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(d.Date.From[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// Aggregator computes figures from the live store.
type Aggregator struct {
	src   Viewer
	nowFn func() time.Time
}

// New creates an Aggregator reading from src.
func New(src Viewer) *Aggregator {
	return &Aggregator{src: src, nowFn: time.Now}
}

// WithClock replaces the time source used for the monthly window.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.nowFn = now
	return a
}

func (a *Aggregator) Overview() (Overview, error) {
	var o Overview
	err := a.src.View(func(s *models.Snapshot) error {
		o = ComputeOverview(s, a.nowFn())
		return nil
	})
	return o, err
}

func (a *Aggregator) SearchTrends(limit int) ([]KeywordCount, error) {
	var out []KeywordCount
	err := a.src.View(func(s *models.Snapshot) error {
		out = ComputeSearchTrends(s, limit)
		return nil
	})
	return out, err
}

func (a *Aggregator) PublicStats() (PublicStats, error) {
	var st PublicStats
	err := a.src.View(func(s *models.Snapshot) error {
		st = ComputePublicStats(s)
		return nil
	})
	return st, err
}
