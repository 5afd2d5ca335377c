package models

import "time"

// MaxSearchQueries bounds Analytics.SearchQueries.
const MaxSearchQueries = 1000

// Snapshot is the root document persisted by the store.
type Snapshot struct {
	Documents             []Document        `json:"documents"`
	Collections           []Collection      `json:"collections"`
	News                  []News            `json:"news"`
	Gallery               []GalleryItem     `json:"gallery"`
	Notifications         []Notification    `json:"notifications"`
	ResearchRequests      []ResearchRequest `json:"research_requests"`
	ContactMessages       []ContactMessage  `json:"contact_messages"`
	Users                 []User            `json:"users"`
	Settings              Settings          `json:"settings"`
	Analytics             Analytics         `json:"analytics"`
	Pages                 map[string]Page   `json:"pages"`
	NewsletterSubscribers []Subscriber      `json:"newsletter_subscribers"`

	// Extra keeps collections such as events or feedback that no repository manages.
	Extra Extra `json:"-"`
}

// DefaultPageNames are the pages created on first run.
var DefaultPageNames = []string{"about", "services", "research"}

// DefaultSnapshot returns the document written when no store exists yet.
func DefaultSnapshot(now time.Time) *Snapshot {
	now = now.UTC()
	pages := make(map[string]Page, len(DefaultPageNames))
	for _, name := range DefaultPageNames {
		pages[name] = Page{Content: "", UpdatedAt: &now}
	}
	return &Snapshot{
		Documents:        []Document{},
		Collections:      []Collection{},
		News:             []News{},
		Gallery:          []GalleryItem{},
		Notifications:    []Notification{},
		ResearchRequests: []ResearchRequest{},
		ContactMessages:  []ContactMessage{},
		Users:            []User{},
		Settings: Settings{
			ArchiveName:         "Digital Archive",
			FeaturedCollections: []string{},
		},
		Analytics: Analytics{
			SearchQueries: []SearchQuery{},
		},
		Pages:                 pages,
		NewsletterSubscribers: []Subscriber{},
	}
}

// Normalize replaces nil collections with empty ones so that a store written
// by an older version, or by hand, behaves like a fresh one.
func (s *Snapshot) Normalize() {
	if s.Documents == nil {
		s.Documents = []Document{}
	}
	if s.Collections == nil {
		s.Collections = []Collection{}
	}
	if s.News == nil {
		s.News = []News{}
	}
	if s.Gallery == nil {
		s.Gallery = []GalleryItem{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	if s.ResearchRequests == nil {
		s.ResearchRequests = []ResearchRequest{}
	}
	if s.ContactMessages == nil {
		s.ContactMessages = []ContactMessage{}
	}
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Settings.FeaturedCollections == nil {
		s.Settings.FeaturedCollections = []string{}
	}
	if s.Analytics.SearchQueries == nil {
		s.Analytics.SearchQueries = []SearchQuery{}
	}
	if s.Pages == nil {
		s.Pages = map[string]Page{}
	}
	if s.NewsletterSubscribers == nil {
		s.NewsletterSubscribers = []Subscriber{}
	}
}
