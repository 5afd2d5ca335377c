package repository

import (
	"cmp"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/models"
)

// DefaultNewsLimit is the page size of news listings.
const DefaultNewsLimit = 10

// NewsFilter selects news items. Scheduled items are hidden unless IncludeScheduled is set.
type NewsFilter struct {
	IncludeScheduled bool
	Featured         *bool
}

var newsSortKeys = comparators[models.News]{
	"id":          stringCmp(func(n models.News) string { return n.ID }),
	"title":       stringCmp(func(n models.News) string { return n.Title }),
	"author":      stringCmp(func(n models.News) string { return n.Author }),
	"featured":    func(a, b models.News) int { return compareBool(a.Featured, b.Featured) },
	"publishedAt": func(a, b models.News) int { return compareTime(a.PublishedAt, b.PublishedAt) },
}

// NewsRepo manages announcements.
type NewsRepo struct{ *base }

// List returns news, latest publishedAt first by default.
func (r *NewsRepo) List(f NewsFilter, opts ListOptions) ([]models.News, int, error) {
	now := r.now()
	var (
		items []models.News
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.News, func(n models.News) bool {
			if !f.IncludeScheduled && n.PublishedAt.After(now) {
				return false
			}
			return f.Featured == nil || n.Featured == *f.Featured
		}, newsSortKeys, opts, "publishedAt", DefaultNewsLimit)
		return err
	})
	return items, total, err
}

// Get returns the news item with id, scheduled or not.
func (r *NewsRepo) Get(id string) (models.News, error) {
	var item models.News
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.News, func(n models.News) bool { return n.ID == id })
		if i < 0 {
			return notFound("news", id)
		}
		item = s.News[i]
		return nil
	})
	return item, err
}

// Create stores a news item. A nil PublishedAt means now and an empty author becomes the archive team.
func (r *NewsRepo) Create(in models.NewsInput) (models.News, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.News{}, invalid("title is required")
	}
	now := r.now()
	published := now
	if in.PublishedAt != nil {
		published = in.PublishedAt.UTC()
	}
	item := models.News{
		ID:          idgen.NewAt(idgen.PrefixNews, now),
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		Image:       in.Image,
		PublishedAt: published,
		Featured:    in.Featured,
		Author:      cmp.Or(in.Author, models.DefaultNewsAuthor),
	}
	err := r.update(func(s *models.Snapshot) error {
		s.News = append(s.News, item)
		return nil
	})
	if err != nil {
		return models.News{}, err
	}
	return item, nil
}

// Update applies p to the news item with id.
func (r *NewsRepo) Update(id string, p models.NewsPatch) (models.News, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return models.News{}, invalid("title cannot be empty")
	}
	var item models.News
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.News, func(n models.News) bool { return n.ID == id })
		if i < 0 {
			return notFound("news", id)
		}
		p.Apply(&s.News[i])
		item = s.News[i]
		return nil
	})
	return item, err
}

// Delete removes the news item with id.
func (r *NewsRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.News, func(n models.News) bool { return n.ID == id })
		if i < 0 {
			return notFound("news", id)
		}
		s.News = slices.Delete(s.News, i, i+1)
		return nil
	})
}
