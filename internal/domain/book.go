// Package domain contains the core business entities for the wishlist manager.
package domain

import (
	"strings"
	"time"
)

// NextTagName is the reserved tag name that places a book in the reading queue.
// Queue membership is computed from the tag set, never stored on the book.
const NextTagName = "next"

// Book represents one wishlist entry.
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

// Touch updates the mutable timestamps.
// DateAdded and CreatedAt are immutable after creation.
func (b *Book) Touch() {
	now := time.Now().UTC()
	b.UpdatedAt = now
	b.DateUpdated = now
}

// TagByName returns the first tag with the given name, or nil.
// Tag names compare case-insensitively, matching the store's collation.
func (b *Book) TagByName(name string) *Tag {
	for i := range b.Tags {
		if strings.EqualFold(b.Tags[i].Name, name) {
			return &b.Tags[i]
		}
	}
	return nil
}

// HasTagNamed reports whether the book carries a tag with the given name.
func (b *Book) HasTagNamed(name string) bool {
	return b.TagByName(name) != nil
}

// InNextQueue reports whether the book belongs to the reading queue.
func (b *Book) InNextQueue() bool {
	return b.HasTagNamed(NextTagName)
}

// AddTag appends a tag reference if no tag with the same ID is present.
// Returns true if the tag was added.
func (b *Book) AddTag(t Tag) bool {
	for i := range b.Tags {
		if b.Tags[i].ID == t.ID {
			return false
		}
	}
	b.Tags = append(b.Tags, t)
	return true
}

// RemoveTagByID removes the tag with the given ID.
// Returns true if a tag was removed.
func (b *Book) RemoveTagByID(tagID string) bool {
	for i := range b.Tags {
		if b.Tags[i].ID == tagID {
			b.Tags = append(b.Tags[:i], b.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the book.
// Rollback snapshots must never alias the live tag slice.
func (b *Book) Clone() *Book {
	c := *b
	if b.Tags != nil {
		c.Tags = make([]Tag, len(b.Tags))
		copy(c.Tags, b.Tags)
	}
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
	return &c
}

// ValidRating reports whether a rating value is inside the accepted range.
func ValidRating(v float64) bool {
	return v >= 0 && v <= 5
}
