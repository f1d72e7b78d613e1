package domain

import "time"

// Tag categorizes wishlist entries. Tags are shared by reference: multiple
// books may point at the same tag ID, and tag names are unique system-wide.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	// UsageCount is derived: the number of books referencing this tag.
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// BookTag represents the many-to-many relationship between books and tags.
type BookTag struct {
	BookID    string    `json:"bookId"`
	TagID     string    `json:"tagId"`
	CreatedAt time.Time `json:"createdAt"`
}
