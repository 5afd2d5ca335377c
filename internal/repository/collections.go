package repository

import (
	"cmp"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/logging"
	"archivehub/internal/models"
)

// CollectionFilter selects collections.
type CollectionFilter struct {
	Featured *bool
}

var collectionSortKeys = comparators[models.Collection]{
	"id":        stringCmp(func(c models.Collection) string { return c.ID }),
	"name":      stringCmp(func(c models.Collection) string { return c.Name }),
	"dateRange": stringCmp(func(c models.Collection) string { return c.DateRange }),
	"itemCount": func(a, b models.Collection) int { return cmp.Compare(a.ItemCount, b.ItemCount) },
	"featured":  func(a, b models.Collection) int { return compareBool(a.Featured, b.Featured) },
	"createdAt": func(a, b models.Collection) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

// CollectionRepo manages collections. ItemCount is stored as given and never derived from documents.
type CollectionRepo struct{ *base }

// List returns collections matching f.
func (r *CollectionRepo) List(f CollectionFilter, opts ListOptions) ([]models.Collection, int, error) {
	var (
		items []models.Collection
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.Collections, func(c models.Collection) bool {
			return f.Featured == nil || c.Featured == *f.Featured
		}, collectionSortKeys, opts, "", 0)
		return err
	})
	return items, total, err
}

// Get returns the collection with id.
func (r *CollectionRepo) Get(id string) (models.Collection, error) {
	var col models.Collection
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Collections, func(c models.Collection) bool { return c.ID == id })
		if i < 0 {
			return notFound("collection", id)
		}
		col = s.Collections[i]
		return nil
	})
	return col, err
}

// Featured resolves settings.featuredCollections in order. Dangling ids are skipped.
func (r *CollectionRepo) Featured() ([]models.Collection, error) {
	out := []models.Collection{}
	err := r.view(func(s *models.Snapshot) error {
		for _, id := range s.Settings.FeaturedCollections {
			i := slices.IndexFunc(s.Collections, func(c models.Collection) bool { return c.ID == id })
			if i >= 0 {
				out = append(out, s.Collections[i])
			}
		}
		return nil
	})
	return out, err
}

func (r *CollectionRepo) Create(in models.CollectionInput) (models.Collection, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Collection{}, invalid("name is required")
	}
	if in.ItemCount < 0 {
		return models.Collection{}, invalid("itemCount cannot be negative")
	}
	now := r.now()
	col := models.Collection{
		ID:          idgen.NewAt(idgen.PrefixCollection, now),
		Name:        in.Name,
		Description: in.Description,
		CoverImage:  in.CoverImage,
		ItemCount:   in.ItemCount,
		DateRange:   in.DateRange,
		Featured:    in.Featured,
		CreatedAt:   now,
	}
	err := r.update(func(s *models.Snapshot) error {
		s.Collections = append(s.Collections, col)
		return nil
	})
	if err != nil {
		return models.Collection{}, err
	}
	logging.Log.Debugf("CollectionRepo: created %s (%q)", col.ID, col.Name)
	return col, nil
}

func (r *CollectionRepo) Update(id string, p models.CollectionPatch) (models.Collection, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return models.Collection{}, invalid("name cannot be empty")
	}
	if p.ItemCount != nil && *p.ItemCount < 0 {
		return models.Collection{}, invalid("itemCount cannot be negative")
	}
	var col models.Collection
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Collections, func(c models.Collection) bool { return c.ID == id })
		if i < 0 {
			return notFound("collection", id)
		}
		p.Apply(&s.Collections[i])
		col = s.Collections[i]
		return nil
	})
	return col, err
}

// Delete removes the collection. Documents still referencing it are left alone.
func (r *CollectionRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Collections, func(c models.Collection) bool { return c.ID == id })
		if i < 0 {
			return notFound("collection", id)
		}
		s.Collections = slices.Delete(s.Collections, i, i+1)
		return nil
	})
}
