// Package wishlist is the client library for the wishlist server: an HTTP
// client with retry and caching, an optimistic book store, a notification
// emitter, and derived filter/sort views.
package wishlist

import (
	"strings"
	"time"
)

// Book mirrors the server's wishlist entry.
type Book struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Author            string     `json:"author"`
	Tags              []Tag      `json:"tags"`
	NarratorRating    *float64   `json:"narratorRating,omitempty"`
	PerformanceRating *float64   `json:"performanceRating,omitempty"`
	Description       string     `json:"description,omitempty"`
	CoverImageURL     string     `json:"coverImageUrl,omitempty"`
	CoverBlurhash     string     `json:"coverBlurhash,omitempty"`
	AudibleURL        string     `json:"audibleUrl,omitempty"`
	QueuePosition     *int       `json:"queuePosition,omitempty"`
	DateAdded         time.Time  `json:"dateAdded"`
	DateUpdated       time.Time  `json:"dateUpdated"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Tag mirrors the server's tag entity.
type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the book.
func (b Book) Clone() Book {
	c := b
	c.Tags = make([]Tag, len(b.Tags))
	copy(c.Tags, b.Tags)
	if b.NarratorRating != nil {
		v := *b.NarratorRating
		c.NarratorRating = &v
	}
	if b.PerformanceRating != nil {
		v := *b.PerformanceRating
		c.PerformanceRating = &v
	}
	if b.QueuePosition != nil {
		v := *b.QueuePosition
		c.QueuePosition = &v
	}
	return c
}

// HasTag reports whether the book carries a tag with the given name.
// Names compare case-insensitively, matching the server's tag semantics.
func (b Book) HasTag(name string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// TagNames returns the book's tag names in order.
func (b Book) TagNames() []string {
	names := make([]string, len(b.Tags))
	for i, t := range b.Tags {
		names[i] = t.Name
	}
	return names
}

// BookInput describes a book to create.
type BookInput struct {
	Title             string   `json:"title"`
	Author            string   `json:"author"`
	Tags              []string `json:"tags,omitempty"`
	NarratorRating    *float64 `json:"narratorRating,omitempty"`
	PerformanceRating *float64 `json:"performanceRating,omitempty"`
	Description       string   `json:"description,omitempty"`
	CoverImageURL     string   `json:"coverImageUrl,omitempty"`
	AudibleURL        string   `json:"audibleUrl,omitempty"`
	QueuePosition     *int     `json:"queuePosition,omitempty"`
}

// BookPatch describes a partial update. Nil fields are left unchanged; a
// non-nil pointer to a zero value clears the field. omitzero keeps cleared
// values on the wire (omitempty would drop e.g. an empty tags slice).
type BookPatch struct {
	Title             *string   `json:"title,omitzero"`
	Author            *string   `json:"author,omitzero"`
	Tags              *[]string `json:"tags,omitzero"`
	NarratorRating    *float64  `json:"narratorRating,omitzero"`
	PerformanceRating *float64  `json:"performanceRating,omitzero"`
	Description       *string   `json:"description,omitzero"`
	CoverImageURL     *string   `json:"coverImageUrl,omitzero"`
	AudibleURL        *string   `json:"audibleUrl,omitzero"`
	QueuePosition     *int      `json:"queuePosition,omitzero"`
}

// TagInput describes a tag to create.
type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}
