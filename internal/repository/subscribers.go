package repository

import (
	"fmt"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/models"
)

// SubscriberRepo manages newsletter subscriptions.
type SubscriberRepo struct{ *base }

// Subscribe adds an active subscription. An address already on the list is a conflict.
func (r *SubscriberRepo) Subscribe(email string) (models.Subscriber, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return models.Subscriber{}, invalid("a valid email is required")
	}
	now := r.now()
	sub := models.Subscriber{
		ID:           idgen.NewAt(idgen.PrefixSubscriber, now),
		Email:        email,
		SubscribedAt: now,
		Active:       true,
	}
	err := r.update(func(s *models.Snapshot) error {
		if slices.ContainsFunc(s.NewsletterSubscribers, func(x models.Subscriber) bool {
			return strings.EqualFold(x.Email, email)
		}) {
			return fmt.Errorf("%w: %s is already subscribed", ErrConflict, email)
		}
		s.NewsletterSubscribers = append(s.NewsletterSubscribers, sub)
		return nil
	})
	if err != nil {
		return models.Subscriber{}, err
	}
	return sub, nil
}

// List returns every subscription in signup order.
func (r *SubscriberRepo) List() ([]models.Subscriber, error) {
	var out []models.Subscriber
	err := r.view(func(s *models.Snapshot) error {
		out = s.NewsletterSubscribers
		return nil
	})
	return out, err
}

func (r *SubscriberRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.NewsletterSubscribers, func(x models.Subscriber) bool { return x.ID == id })
		if i < 0 {
			return notFound("subscriber", id)
		}
		s.NewsletterSubscribers = slices.Delete(s.NewsletterSubscribers, i, i+1)
		return nil
	})
}
