package repository

import (
	"cmp"
	"path"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/models"
)

// GalleryFilter selects gallery items.
type GalleryFilter struct {
	Published *bool
}

var gallerySortKeys = comparators[models.GalleryItem]{
	"id":         stringCmp(func(g models.GalleryItem) string { return g.ID }),
	"title":      stringCmp(func(g models.GalleryItem) string { return g.Title }),
	"published":  func(a, b models.GalleryItem) int { return compareBool(a.Published, b.Published) },
	"uploadedAt": func(a, b models.GalleryItem) int { return compareTime(a.UploadedAt, b.UploadedAt) },
}

// GalleryRepo manages standalone gallery images.
type GalleryRepo struct{ *base }

// List returns gallery items in stored order unless opts sorts them.
func (r *GalleryRepo) List(f GalleryFilter, opts ListOptions) ([]models.GalleryItem, int, error) {
	var (
		items []models.GalleryItem
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.Gallery, func(g models.GalleryItem) bool {
			return f.Published == nil || g.Published == *f.Published
		}, gallerySortKeys, opts, "", 0)
		return err
	})
	return items, total, err
}

// Get returns the gallery item with id.
func (r *GalleryRepo) Get(id string) (models.GalleryItem, error) {
	var item models.GalleryItem
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Gallery, func(g models.GalleryItem) bool { return g.ID == id })
		if i < 0 {
			return notFound("gallery item", id)
		}
		item = s.Gallery[i]
		return nil
	})
	return item, err
}

// Create stores one uploaded image.
func (r *GalleryRepo) Create(in models.GalleryInput, uploadedBy string) (models.GalleryItem, error) {
	items, err := r.CreateBatch([]models.GalleryInput{in}, uploadedBy)
	if err != nil {
		return models.GalleryItem{}, err
	}
	return items[0], nil
}

// CreateBatch stores several images in a single save. Nothing is stored if any input is invalid.
func (r *GalleryRepo) CreateBatch(ins []models.GalleryInput, uploadedBy string) ([]models.GalleryItem, error) {
	if len(ins) == 0 {
		return nil, invalid("no gallery items given")
	}
	now := r.now()
	items := make([]models.GalleryItem, 0, len(ins))
	for i, in := range ins {
		if strings.TrimSpace(in.URL) == "" {
			return nil, invalid("item %d: url is required", i)
		}
		items = append(items, models.GalleryItem{
			ID:          idgen.NewAt(idgen.PrefixGallery, now),
			Title:       cmp.Or(in.Title, path.Base(in.URL)),
			Description: in.Description,
			URL:         in.URL,
			Thumbnail:   cmp.Or(in.Thumbnail, in.URL),
			Published:   in.Published,
			UploadedAt:  now,
			UploadedBy:  uploadedBy,
		})
	}
	err := r.update(func(s *models.Snapshot) error {
		s.Gallery = append(s.Gallery, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies p to the gallery item with id.
func (r *GalleryRepo) Update(id string, p models.GalleryPatch) (models.GalleryItem, error) {
	var item models.GalleryItem
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Gallery, func(g models.GalleryItem) bool { return g.ID == id })
		if i < 0 {
			return notFound("gallery item", id)
		}
		p.Apply(&s.Gallery[i])
		item = s.Gallery[i]
		return nil
	})
	return item, err
}

// Delete removes the gallery item with id.
func (r *GalleryRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Gallery, func(g models.GalleryItem) bool { return g.ID == id })
		if i < 0 {
			return notFound("gallery item", id)
		}
		s.Gallery = slices.Delete(s.Gallery, i, i+1)
		return nil
	})
}
