package models

import "time"

// DocumentInput carries the client-settable fields of a new document.
type DocumentInput struct {
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
	Featured            bool           `json:"featured"`
	Published           bool           `json:"published"`
}

// CollectionInput carries the fields of a new collection.
type CollectionInput struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
	CoverImage  string `json:"coverImage" toml:"cover_image"`
	ItemCount   int    `json:"itemCount" toml:"item_count"`
	DateRange   string `json:"dateRange" toml:"date_range"`
	Featured    bool   `json:"featured" toml:"featured"`
}

// NewsInput carries the fields of a news item. A nil PublishedAt means now.
type NewsInput struct {
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Image       string     `json:"image"`
	PublishedAt *time.Time `json:"publishedAt"`
	Featured    bool       `json:"featured"`
	Author      string     `json:"author"`
}

// GalleryInput carries the fields of one uploaded gallery image.
type GalleryInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Published   bool   `json:"published"`
}

// NotificationInput carries the fields of a new notification.
type NotificationInput struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	LinkText  string `json:"linkText"`
	Published bool   `json:"published"`
}

// ResearchRequestInput is a researcher's submission.
type ResearchRequestInput struct {
	ResearcherName       string   `json:"researcherName"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	Affiliation          string   `json:"affiliation"`
	ResearchTopic        string   `json:"researchTopic"`
	SpecificRequirements string   `json:"specificRequirements"`
	Timeframe            string   `json:"timeframe"`
	Attachments          []string `json:"attachments"`
}

// ContactMessageInput is a contact form submission.
type ContactMessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// UserInput carries a new account with its plaintext password.
type UserInput struct {
	Username    string
	Password    string
	Role        string
	Name        string
	Email       string
	Permissions []string
}
