package repository

import (
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/models"
)

// ContactFilter selects contact messages.
type ContactFilter struct {
	Unread bool
}

var contactSortKeys = comparators[models.ContactMessage]{
	"id":        stringCmp(func(m models.ContactMessage) string { return m.ID }),
	"name":      stringCmp(func(m models.ContactMessage) string { return m.Name }),
	"email":     stringCmp(func(m models.ContactMessage) string { return m.Email }),
	"subject":   stringCmp(func(m models.ContactMessage) string { return m.Subject }),
	"read":      func(a, b models.ContactMessage) int { return compareBool(a.Read, b.Read) },
	"createdAt": func(a, b models.ContactMessage) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

// ContactRepo manages messages from the contact form.
type ContactRepo struct{ *base }

// List returns contact messages, newest first by default.
func (r *ContactRepo) List(f ContactFilter, opts ListOptions) ([]models.ContactMessage, int, error) {
	var (
		items []models.ContactMessage
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.ContactMessages, func(m models.ContactMessage) bool {
			return !f.Unread || !m.Read
		}, contactSortKeys, opts, "createdAt", 0)
		return err
	})
	return items, total, err
}

// Get returns the contact message with id.
func (r *ContactRepo) Get(id string) (models.ContactMessage, error) {
	var msg models.ContactMessage
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ContactMessages, func(m models.ContactMessage) bool { return m.ID == id })
		if i < 0 {
			return notFound("contact message", id)
		}
		msg = s.ContactMessages[i]
		return nil
	})
	return msg, err
}

// Create stores an unread message. Name, a valid email and the message text are required.
func (r *ContactRepo) Create(in models.ContactMessageInput) (models.ContactMessage, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return models.ContactMessage{}, invalid("name is required")
	case !emailPattern.MatchString(in.Email):
		return models.ContactMessage{}, invalid("a valid email is required")
	case strings.TrimSpace(in.Message) == "":
		return models.ContactMessage{}, invalid("message is required")
	}
	now := r.now()
	msg := models.ContactMessage{
		ID:        idgen.NewAt(idgen.PrefixMessage, now),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: now,
	}
	err := r.update(func(s *models.Snapshot) error {
		s.ContactMessages = append(s.ContactMessages, msg)
		return nil
	})
	if err != nil {
		return models.ContactMessage{}, err
	}
	return msg, nil
}

// Update applies p to the contact message with id.
func (r *ContactRepo) Update(id string, p models.ContactMessagePatch) (models.ContactMessage, error) {
	var msg models.ContactMessage
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ContactMessages, func(m models.ContactMessage) bool { return m.ID == id })
		if i < 0 {
			return notFound("contact message", id)
		}
		p.Apply(&s.ContactMessages[i])
		msg = s.ContactMessages[i]
		return nil
	})
	return msg, err
}

// MarkRead flags a message as read.
func (r *ContactRepo) MarkRead(id string) (models.ContactMessage, error) {
	return r.Update(id, models.ContactMessagePatch{Read: models.Bool(true)})
}

// Delete removes the contact message with id.
func (r *ContactRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ContactMessages, func(m models.ContactMessage) bool { return m.ID == id })
		if i < 0 {
			return notFound("contact message", id)
		}
		s.ContactMessages = slices.Delete(s.ContactMessages, i, i+1)
		return nil
	})
}
