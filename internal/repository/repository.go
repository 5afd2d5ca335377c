// filepath: internal/repository/repository.go
// Package repository provides typed views over the store, one per entity collection.
// No repository keeps entity state of its own; every call reads or writes the store.
package repository

import (
	"regexp"
	"time"

	"archivehub/internal/models"
	"archivehub/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// base is shared by every sub-repository.
type base struct {
	engine *store.Engine
	nowFn  func() time.Time
}

func (b *base) now() time.Time { return b.nowFn().UTC() }

// update runs one serialized load-mutate-save cycle.
func (b *base) update(fn func(*models.Snapshot) error) error {
	return b.engine.Update(func(s *models.Snapshot) error {
		s.Normalize()
		return fn(s)
	})
}

// view reads the current snapshot.
func (b *base) view(fn func(*models.Snapshot) error) error {
	return b.engine.View(func(s *models.Snapshot) error {
		s.Normalize()
		return fn(s)
	})
}

// Repository groups the entity repositories over one store.
type Repository struct {
	base *base

	Documents     *DocumentRepo
	Collections   *CollectionRepo
	News          *NewsRepo
	Gallery       *GalleryRepo
	Notifications *NotificationRepo
	Research      *ResearchRepo
	Contact       *ContactRepo
	Subscribers   *SubscriberRepo
	Settings      *SettingsRepo
	Pages         *PageRepo
	Users         *UserRepo
	Analytics     *AnalyticsRepo
}

// New creates the repositories over engine.
func New(engine *store.Engine) *Repository {
	b := &base{engine: engine, nowFn: time.Now}
	return &Repository{
		base:          b,
		Documents:     &DocumentRepo{b},
		Collections:   &CollectionRepo{b},
		News:          &NewsRepo{b},
		Gallery:       &GalleryRepo{b},
		Notifications: &NotificationRepo{b},
		Research:      &ResearchRepo{b},
		Contact:       &ContactRepo{b},
		Subscribers:   &SubscriberRepo{b},
		Settings:      &SettingsRepo{b},
		Pages:         &PageRepo{b},
		Users:         &UserRepo{b},
		Analytics:     &AnalyticsRepo{b},
	}
}

// WithClock replaces the time source of every repository.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.base.nowFn = now
	return r
}

// Engine returns the underlying store engine.
func (r *Repository) Engine() *store.Engine { return r.base.engine }

// Snapshot returns a copy of the whole store, for read-only aggregation.
func (r *Repository) Snapshot() (*models.Snapshot, error) {
	var out *models.Snapshot
	err := r.base.view(func(s *models.Snapshot) error {
		out = s
		return nil
	})
	return out, err
}
