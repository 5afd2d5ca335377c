// filepath: internal/models/models.go
// Package models contains the persisted data structures of the archive catalog.
package models

import "time"

// Research request states.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Notification types.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// User roles.
const (
	RoleSuperadmin = "superadmin"
	RoleArchivist  = "archivist"
	RoleCataloguer = "cataloguer"
	RoleEditor     = "editor"
)

// Document defaults applied on creation.
const (
	DefaultAccessRestrictions = "Public"
	DefaultCopyrightStatus    = "Unknown"
	DefaultNewsAuthor         = "Archives Team"
)

// DateRange holds ISO date strings. Either bound may be empty.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DocumentFile is one digitized file attached to a document.
type DocumentFile struct {
	Type         string `json:"type"`
	URL          string `json:"url"`
	Thumbnail    string `json:"thumbnail"`
	OriginalName string `json:"originalName,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

// Document is a catalogued archival item.
type Document struct {
	ID                  string         `json:"id"`
	ReferenceNumber     string         `json:"referenceNumber"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Creator             string         `json:"creator"`
	Date                DateRange      `json:"date"`
	Language            []string       `json:"language"`
	PhysicalDescription string         `json:"physicalDescription"`
	Subjects            []string       `json:"subjects"`
	Collection          string         `json:"collection"`
	Location            string         `json:"location"`
	AccessRestrictions  string         `json:"accessRestrictions"`
	CopyrightStatus     string         `json:"copyrightStatus"`
	CoverImage          string         `json:"coverImage"`
	Files               []DocumentFile `json:"files"`
	Views               int64          `json:"views"`
	Downloads           int64          `json:"downloads"`
	Featured            bool           `json:"featured"`
	Published           bool           `json:"published"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	CreatedBy           string         `json:"createdBy"`

	Extra Extra `json:"-"`
}

// Collection groups documents. ItemCount is maintained by callers, not derived.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverImage  string    `json:"coverImage"`
	ItemCount   int       `json:"itemCount"`
	DateRange   string    `json:"dateRange"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`

	Extra Extra `json:"-"`
}

// News is an announcement. Items with a future PublishedAt are scheduled.
type News struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"publishedAt"`
	Featured    bool      `json:"featured"`
	Author      string    `json:"author"`

	Extra Extra `json:"-"`
}

// GalleryItem is a standalone published image.
type GalleryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail"`
	Published   bool      `json:"published"`
	UploadedAt  time.Time `json:"uploadedAt"`
	UploadedBy  string    `json:"uploadedBy"`

	Extra Extra `json:"-"`
}

// Notification is a site-wide banner message.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	LinkText  string    `json:"linkText"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`

	Extra Extra `json:"-"`
}

// ResearchRequest is a researcher's request for archive access.
type ResearchRequest struct {
	ID                   string    `json:"id"`
	ResearcherName       string    `json:"researcherName"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	Affiliation          string    `json:"affiliation"`
	ResearchTopic        string    `json:"researchTopic"`
	SpecificRequirements string    `json:"specificRequirements"`
	Timeframe            string    `json:"timeframe"`
	Attachments          []string  `json:"attachments"`
	Status               string    `json:"status"`
	SubmittedAt          time.Time `json:"submittedAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	Messages             []string  `json:"messages"`

	Extra Extra `json:"-"`
}

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`

	Extra Extra `json:"-"`
}

// User is a staff account. Password holds the bcrypt hash.
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	Role        string     `json:"role"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin"`

	Extra Extra `json:"-"`
}

// Settings is the singleton site configuration.
type Settings struct {
	ArchiveName         string   `json:"archiveName"`
	Tagline             string   `json:"tagline"`
	Address             string   `json:"address"`
	Phone               string   `json:"phone"`
	Email               string   `json:"email"`
	Hours               string   `json:"hours"`
	FeaturedCollections []string `json:"featuredCollections"`

	Extra Extra `json:"-"`
}

// SearchQuery is one entry of the bounded search log.
type SearchQuery struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Analytics holds counters tracked independently of the per-document counters.
type Analytics struct {
	TotalViews     int64         `json:"totalViews"`
	TotalDownloads int64         `json:"totalDownloads"`
	SearchQueries  []SearchQuery `json:"searchQueries"`

	Extra Extra `json:"-"`
}

// Page is editable static page content.
type Page struct {
	Content   string     `json:"content"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	Extra Extra `json:"-"`
}

// Subscriber is a newsletter subscription.
type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	Active       bool      `json:"active"`

	Extra Extra `json:"-"`
}
