package repository

import (
	"cmp"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/models"
)

var notificationTypes = []string{
	models.NotificationInfo,
	models.NotificationSuccess,
	models.NotificationWarning,
	models.NotificationError,
}

// NotificationFilter selects notifications. Public callers set Published.
type NotificationFilter struct {
	Published *bool
}

var notificationSortKeys = comparators[models.Notification]{
	"id":        stringCmp(func(n models.Notification) string { return n.ID }),
	"type":      stringCmp(func(n models.Notification) string { return n.Type }),
	"title":     stringCmp(func(n models.Notification) string { return n.Title }),
	"published": func(a, b models.Notification) int { return compareBool(a.Published, b.Published) },
	"createdAt": func(a, b models.Notification) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

// NotificationRepo manages site-wide banner messages.
type NotificationRepo struct{ *base }

// List returns notifications, newest first by default.
func (r *NotificationRepo) List(f NotificationFilter, opts ListOptions) ([]models.Notification, int, error) {
	var (
		items []models.Notification
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.Notifications, func(n models.Notification) bool {
			return f.Published == nil || n.Published == *f.Published
		}, notificationSortKeys, opts, "createdAt", 0)
		return err
	})
	return items, total, err
}

// Get returns the notification with id.
func (r *NotificationRepo) Get(id string) (models.Notification, error) {
	var item models.Notification
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Notifications, func(n models.Notification) bool { return n.ID == id })
		if i < 0 {
			return notFound("notification", id)
		}
		item = s.Notifications[i]
		return nil
	})
	return item, err
}

// Create stores a notification. An empty type defaults to info.
func (r *NotificationRepo) Create(in models.NotificationInput, createdBy string) (models.Notification, error) {
	in.Type = cmp.Or(in.Type, models.NotificationInfo)
	if !slices.Contains(notificationTypes, in.Type) {
		return models.Notification{}, invalid("unknown notification type %q", in.Type)
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Notification{}, invalid("title is required")
	}
	now := r.now()
	item := models.Notification{
		ID:        idgen.NewAt(idgen.PrefixNotification, now),
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		Link:      in.Link,
		LinkText:  in.LinkText,
		Published: in.Published,
		CreatedAt: now,
		CreatedBy: createdBy,
	}
	err := r.update(func(s *models.Snapshot) error {
		s.Notifications = append(s.Notifications, item)
		return nil
	})
	if err != nil {
		return models.Notification{}, err
	}
	return item, nil
}

// Update applies p to the notification with id. The type must stay a known one.
func (r *NotificationRepo) Update(id string, p models.NotificationPatch) (models.Notification, error) {
	if p.Type != nil && !slices.Contains(notificationTypes, *p.Type) {
		return models.Notification{}, invalid("unknown notification type %q", *p.Type)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return models.Notification{}, invalid("title cannot be empty")
	}
	var item models.Notification
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Notifications, func(n models.Notification) bool { return n.ID == id })
		if i < 0 {
			return notFound("notification", id)
		}
		p.Apply(&s.Notifications[i])
		item = s.Notifications[i]
		return nil
	})
	return item, err
}

// Delete removes the notification with id.
func (r *NotificationRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Notifications, func(n models.Notification) bool { return n.ID == id })
		if i < 0 {
			return notFound("notification", id)
		}
		s.Notifications = slices.Delete(s.Notifications, i, i+1)
		return nil
	})
}
