// Package backup provides JSON export and import of the full wishlist.
package backup

import (
	"errors"
	"time"
)

// FormatVersion is the current backup document version.
const FormatVersion = 1

// ErrUnsupportedVersion is returned when importing a document written by a
// newer format version.
var ErrUnsupportedVersion = errors.New("backup: unsupported format version")

// Document is the complete backup payload. It is self-contained: books
// reference tags by name so a document can be imported into any database.
type Document struct {
	Manifest Manifest     `json:"manifest"`
	Books    []BookRecord `json:"books"`
	Tags     []TagRecord  `json:"tags"`
}

// Manifest describes a backup document.
type Manifest struct {
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"createdAt"`
	Counts    EntityCounts `json:"counts"`
}

// EntityCounts summarizes the entities in a document.
type EntityCounts struct {
	Books int `json:"books"`
	Tags  int `json:"tags"`
}

// BookRecord is one exported book. Tags are carried by name.
type BookRecord struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	Tags              []string  `json:"tags"`
	NarratorRating    *float64  `json:"narratorRating,omitempty"`
	PerformanceRating *float64  `json:"performanceRating,omitempty"`
	Description       string    `json:"description,omitempty"`
	CoverImageURL     string    `json:"coverImageUrl,omitempty"`
	CoverBlurhash     string    `json:"coverBlurhash,omitempty"`
	AudibleURL        string    `json:"audibleUrl,omitempty"`
	QueuePosition     *int      `json:"queuePosition,omitempty"`
	DateAdded         time.Time `json:"dateAdded"`
	DateUpdated       time.Time `json:"dateUpdated"`
}

// TagRecord is one exported tag.
type TagRecord struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ImportResult reports what an import changed.
type ImportResult struct {
	BooksImported int `json:"booksImported"`
	BooksSkipped  int `json:"booksSkipped"`
	BooksInvalid  int `json:"booksInvalid"`
	TagsCreated   int `json:"tagsCreated"`
	TagsReused    int `json:"tagsReused"`
}

// BackupInfo describes a backup file on disk.
type BackupInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
