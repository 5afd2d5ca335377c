package repository

import (
	"regexp"

	"archivehub/internal/models"
)

var pageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// SettingsRepo manages the singleton site settings.
type SettingsRepo struct{ *base }

func (r *SettingsRepo) Get() (models.Settings, error) {
	var out models.Settings
	err := r.view(func(s *models.Snapshot) error {
		out = s.Settings
		return nil
	})
	return out, err
}

// Update applies a patch. Featured collection ids are stored as given, even if dangling.
func (r *SettingsRepo) Update(p models.SettingsPatch) (models.Settings, error) {
	var out models.Settings
	err := r.update(func(s *models.Snapshot) error {
		p.Apply(&s.Settings)
		s.Settings.FeaturedCollections = nonNil(s.Settings.FeaturedCollections)
		out = s.Settings
		return nil
	})
	return out, err
}

// PageRepo manages editable static page content.
type PageRepo struct{ *base }

func (r *PageRepo) Get(name string) (models.Page, error) {
	var page models.Page
	err := r.view(func(s *models.Snapshot) error {
		p, ok := s.Pages[name]
		if !ok {
			return notFound("page", name)
		}
		page = p
		return nil
	})
	return page, err
}

// List returns all pages keyed by name.
func (r *PageRepo) List() (map[string]models.Page, error) {
	var out map[string]models.Page
	err := r.view(func(s *models.Snapshot) error {
		out = s.Pages
		return nil
	})
	return out, err
}

// Put creates a page or replaces its content.
func (r *PageRepo) Put(name, content string) (models.Page, error) {
	if !pageNamePattern.MatchString(name) {
		return models.Page{}, invalid("invalid page name %q", name)
	}
	now := r.now()
	var page models.Page
	err := r.update(func(s *models.Snapshot) error {
		if s.Pages == nil {
			s.Pages = map[string]models.Page{}
		}
		page = s.Pages[name]
		page.Content = content
		page.UpdatedAt = &now
		s.Pages[name] = page
		return nil
	})
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}
