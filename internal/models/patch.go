package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	// ErrUnknownField is returned when a patch names a field that cannot be updated.
	ErrUnknownField = errors.New("unknown or read-only field")
	// ErrMalformedPatch is returned when a patch is not a single JSON object.
	ErrMalformedPatch = errors.New("malformed patch")
)

// DecodePatch decodes a JSON partial update into T, rejecting any field T does not declare.
func DecodePatch[T any](data []byte) (T, error) {
	var patch T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		// encoding/json has no typed error for DisallowUnknownFields.
		if strings.Contains(err.Error(), "unknown field") {
			return patch, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return patch, fmt.Errorf("%w: %v", ErrMalformedPatch, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return patch, fmt.Errorf("%w: trailing data", ErrMalformedPatch)
	}
	return patch, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// DocumentPatch is the allow-listed partial update of a Document.
// Counters and provenance fields are absent on purpose.
type DocumentPatch struct {
	ReferenceNumber     *string         `json:"referenceNumber"`
	Title               *string         `json:"title"`
	Description         *string         `json:"description"`
	Creator             *string         `json:"creator"`
	Date                *DateRange      `json:"date"`
	Language            *[]string       `json:"language"`
	PhysicalDescription *string         `json:"physicalDescription"`
	Subjects            *[]string       `json:"subjects"`
	Collection          *string         `json:"collection"`
	Location            *string         `json:"location"`
	AccessRestrictions  *string         `json:"accessRestrictions"`
	CopyrightStatus     *string         `json:"copyrightStatus"`
	CoverImage          *string         `json:"coverImage"`
	Files               *[]DocumentFile `json:"files"`
	Featured            *bool           `json:"featured"`
	Published           *bool           `json:"published"`
}

// Apply copies every set field onto d.
func (p DocumentPatch) Apply(d *Document) {
	set(&d.ReferenceNumber, p.ReferenceNumber)
	set(&d.Title, p.Title)
	set(&d.Description, p.Description)
	set(&d.Creator, p.Creator)
	set(&d.Date, p.Date)
	set(&d.Language, p.Language)
	set(&d.PhysicalDescription, p.PhysicalDescription)
	set(&d.Subjects, p.Subjects)
	set(&d.Collection, p.Collection)
	set(&d.Location, p.Location)
	set(&d.AccessRestrictions, p.AccessRestrictions)
	set(&d.CopyrightStatus, p.CopyrightStatus)
	set(&d.CoverImage, p.CoverImage)
	set(&d.Files, p.Files)
	set(&d.Featured, p.Featured)
	set(&d.Published, p.Published)
}

// CollectionPatch is the partial update of a Collection. ItemCount is only ever written here.
type CollectionPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	ItemCount   *int    `json:"itemCount"`
	DateRange   *string `json:"dateRange"`
	Featured    *bool   `json:"featured"`
}

func (p CollectionPatch) Apply(c *Collection) {
	set(&c.Name, p.Name)
	set(&c.Description, p.Description)
	set(&c.CoverImage, p.CoverImage)
	set(&c.ItemCount, p.ItemCount)
	set(&c.DateRange, p.DateRange)
	set(&c.Featured, p.Featured)
}

type NewsPatch struct {
	Title       *string    `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	Image       *string    `json:"image"`
	PublishedAt *time.Time `json:"publishedAt"`
	Featured    *bool      `json:"featured"`
	Author      *string    `json:"author"`
}

func (p NewsPatch) Apply(n *News) {
	set(&n.Title, p.Title)
	set(&n.Excerpt, p.Excerpt)
	set(&n.Content, p.Content)
	set(&n.Image, p.Image)
	if p.PublishedAt != nil {
		n.PublishedAt = p.PublishedAt.UTC()
	}
	set(&n.Featured, p.Featured)
	set(&n.Author, p.Author)
}

type GalleryPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Published   *bool   `json:"published"`
}

func (p GalleryPatch) Apply(g *GalleryItem) {
	set(&g.Title, p.Title)
	set(&g.Description, p.Description)
	set(&g.Published, p.Published)
}

type NotificationPatch struct {
	Type      *string `json:"type"`
	Title     *string `json:"title"`
	Message   *string `json:"message"`
	Link      *string `json:"link"`
	LinkText  *string `json:"linkText"`
	Published *bool   `json:"published"`
}

func (p NotificationPatch) Apply(n *Notification) {
	set(&n.Type, p.Type)
	set(&n.Title, p.Title)
	set(&n.Message, p.Message)
	set(&n.Link, p.Link)
	set(&n.LinkText, p.LinkText)
	set(&n.Published, p.Published)
}

// ResearchRequestPatch updates the submission details. Status changes go through SetStatus.
type ResearchRequestPatch struct {
	ResearcherName       *string `json:"researcherName"`
	Email                *string `json:"email"`
	Phone                *string `json:"phone"`
	Affiliation          *string `json:"affiliation"`
	ResearchTopic        *string `json:"researchTopic"`
	SpecificRequirements *string `json:"specificRequirements"`
	Timeframe            *string `json:"timeframe"`
}

func (p ResearchRequestPatch) Apply(r *ResearchRequest) {
	set(&r.ResearcherName, p.ResearcherName)
	set(&r.Email, p.Email)
	set(&r.Phone, p.Phone)
	set(&r.Affiliation, p.Affiliation)
	set(&r.ResearchTopic, p.ResearchTopic)
	set(&r.SpecificRequirements, p.SpecificRequirements)
	set(&r.Timeframe, p.Timeframe)
}

type ContactMessagePatch struct {
	Subject *string `json:"subject"`
	Read    *bool   `json:"read"`
}

func (p ContactMessagePatch) Apply(m *ContactMessage) {
	set(&m.Subject, p.Subject)
	set(&m.Read, p.Read)
}

type SettingsPatch struct {
	ArchiveName         *string   `json:"archiveName"`
	Tagline             *string   `json:"tagline"`
	Address             *string   `json:"address"`
	Phone               *string   `json:"phone"`
	Email               *string   `json:"email"`
	Hours               *string   `json:"hours"`
	FeaturedCollections *[]string `json:"featuredCollections"`
}

func (p SettingsPatch) Apply(s *Settings) {
	set(&s.ArchiveName, p.ArchiveName)
	set(&s.Tagline, p.Tagline)
	set(&s.Address, p.Address)
	set(&s.Phone, p.Phone)
	set(&s.Email, p.Email)
	set(&s.Hours, p.Hours)
	set(&s.FeaturedCollections, p.FeaturedCollections)
}

// UserPatch updates an account. Password is plaintext and is hashed by the repository.
type UserPatch struct {
	Password    *string   `json:"password"`
	Role        *string   `json:"role"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	Permissions *[]string `json:"permissions"`
}

// Apply copies the profile fields. The password is handled separately.
func (p UserPatch) Apply(u *User) {
	set(&u.Role, p.Role)
	set(&u.Name, p.Name)
	set(&u.Email, p.Email)
	set(&u.Permissions, p.Permissions)
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches and filters.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to i.
func Int(i int) *int { return &i }
