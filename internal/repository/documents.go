package repository

import (
	"cmp"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/logging"
	"archivehub/internal/models"
)

// DefaultDocumentLimit is the page size of document listings.
const DefaultDocumentLimit = 20

// DocumentFilter selects documents. Zero values match everything.
type DocumentFilter struct {
	Published  *bool
	Featured   *bool
	Search     string
	Collection string
	Language   string
	// DateFrom and DateTo are zero-padded ISO dates compared as strings.
	DateFrom string
	DateTo   string
}

func (f DocumentFilter) match(d models.Document) bool {
	if f.Published != nil && d.Published != *f.Published {
		return false
	}
	if f.Featured != nil && d.Featured != *f.Featured {
		return false
	}
	if f.Collection != "" && d.Collection != f.Collection {
		return false
	}
	if f.Language != "" && !slices.Contains(d.Language, f.Language) {
		return false
	}
	// Dates compare as strings. An empty date.to sorts first, so open ranges pass DateTo.
	if f.DateFrom != "" && d.Date.From < f.DateFrom {
		return false
	}
	if f.DateTo != "" && d.Date.To > f.DateTo {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !containsFold(d.Title, q) && !containsFold(d.Description, q) &&
			!slices.ContainsFunc(d.Subjects, func(s string) bool { return containsFold(s, q) }) {
			return false
		}
	}
	return true
}

var documentSortKeys = comparators[models.Document]{
	"id":                 stringCmp(func(d models.Document) string { return d.ID }),
	"referenceNumber":    stringCmp(func(d models.Document) string { return d.ReferenceNumber }),
	"title":              stringCmp(func(d models.Document) string { return d.Title }),
	"creator":            stringCmp(func(d models.Document) string { return d.Creator }),
	"collection":         stringCmp(func(d models.Document) string { return d.Collection }),
	"location":           stringCmp(func(d models.Document) string { return d.Location }),
	"accessRestrictions": stringCmp(func(d models.Document) string { return d.AccessRestrictions }),
	"copyrightStatus":    stringCmp(func(d models.Document) string { return d.CopyrightStatus }),
	"date":               stringCmp(func(d models.Document) string { return d.Date.From }),
	"views":              func(a, b models.Document) int { return cmp.Compare(a.Views, b.Views) },
	"downloads":          func(a, b models.Document) int { return cmp.Compare(a.Downloads, b.Downloads) },
	"featured":           func(a, b models.Document) int { return compareBool(a.Featured, b.Featured) },
	"published":          func(a, b models.Document) int { return compareBool(a.Published, b.Published) },
	"createdAt":          func(a, b models.Document) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updatedAt":          func(a, b models.Document) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
}

// DocumentRepo manages catalogued documents.
type DocumentRepo struct{ *base }

// List returns one page of matching documents, newest first by default, and the filtered total.
func (r *DocumentRepo) List(f DocumentFilter, opts ListOptions) ([]models.Document, int, error) {
	var (
		items []models.Document
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.Documents, f.match, documentSortKeys, opts, "createdAt", DefaultDocumentLimit)
		return err
	})
	return items, total, err
}

// ListPublic is List restricted to published documents.
func (r *DocumentRepo) ListPublic(f DocumentFilter, opts ListOptions) ([]models.Document, int, error) {
	f.Published = models.Bool(true)
	return r.List(f, opts)
}

// Get returns a document regardless of its published flag.
func (r *DocumentRepo) Get(id string) (models.Document, error) {
	var doc models.Document
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Documents, func(d models.Document) bool { return d.ID == id })
		if i < 0 {
			return notFound("document", id)
		}
		doc = s.Documents[i]
		return nil
	})
	return doc, err
}

// GetPublished returns a document only if it is published.
func (r *DocumentRepo) GetPublished(id string) (models.Document, error) {
	doc, err := r.Get(id)
	if err != nil {
		return models.Document{}, err
	}
	if !doc.Published {
		return models.Document{}, notFound("document", id)
	}
	return doc, nil
}

// Create stores a new document with zeroed counters.
func (r *DocumentRepo) Create(in models.DocumentInput, createdBy string) (models.Document, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Document{}, invalid("title is required")
	}
	now := r.now()
	doc := models.Document{
		ID:                  idgen.NewAt(idgen.PrefixDocument, now),
		ReferenceNumber:     in.ReferenceNumber,
		Title:               in.Title,
		Description:         in.Description,
		Creator:             in.Creator,
		Date:                in.Date,
		Language:            nonNil(in.Language),
		PhysicalDescription: in.PhysicalDescription,
		Subjects:            nonNil(in.Subjects),
		Collection:          in.Collection,
		Location:            in.Location,
		AccessRestrictions:  cmp.Or(in.AccessRestrictions, models.DefaultAccessRestrictions),
		CopyrightStatus:     cmp.Or(in.CopyrightStatus, models.DefaultCopyrightStatus),
		CoverImage:          in.CoverImage,
		Files:               nonNil(in.Files),
		Featured:            in.Featured,
		Published:           in.Published,
		CreatedAt:           now,
		UpdatedAt:           now,
		CreatedBy:           createdBy,
	}
	err := r.update(func(s *models.Snapshot) error {
		s.Documents = append(s.Documents, doc)
		return nil
	})
	if err != nil {
		return models.Document{}, err
	}
	logging.Log.Debugf("DocumentRepo: created %s (%q)", doc.ID, doc.Title)
	return doc, nil
}

// Update applies an allow-listed patch. Counters are never touched.
func (r *DocumentRepo) Update(id string, p models.DocumentPatch) (models.Document, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return models.Document{}, invalid("title cannot be empty")
	}
	var doc models.Document
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Documents, func(d models.Document) bool { return d.ID == id })
		if i < 0 {
			return notFound("document", id)
		}
		p.Apply(&s.Documents[i])
		s.Documents[i].UpdatedAt = r.now()
		doc = s.Documents[i]
		return nil
	})
	return doc, err
}

// Delete removes a document permanently.
func (r *DocumentRepo) Delete(id string) error {
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Documents, func(d models.Document) bool { return d.ID == id })
		if i < 0 {
			return notFound("document", id)
		}
		s.Documents = slices.Delete(s.Documents, i, i+1)
		return nil
	})
	if err == nil {
		logging.Log.Debugf("DocumentRepo: deleted %s", id)
	}
	return err
}

// IncrementViews adds one view to the document and to the global counter in one cycle.
func (r *DocumentRepo) IncrementViews(id string) (models.Document, error) {
	return r.increment(id, func(d *models.Document, a *models.Analytics) {
		d.Views++
		a.TotalViews++
	})
}

// IncrementDownloads adds one download to the document and to the global counter in one cycle.
func (r *DocumentRepo) IncrementDownloads(id string) (models.Document, error) {
	return r.increment(id, func(d *models.Document, a *models.Analytics) {
		d.Downloads++
		a.TotalDownloads++
	})
}

func (r *DocumentRepo) increment(id string, bump func(*models.Document, *models.Analytics)) (models.Document, error) {
	var doc models.Document
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Documents, func(d models.Document) bool { return d.ID == id })
		if i < 0 {
			return notFound("document", id)
		}
		bump(&s.Documents[i], &s.Analytics)
		doc = s.Documents[i]
		return nil
	})
	return doc, err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
