package domain

import (
	"testing"
	"time"
)

func makeBook() *Book {
	now := time.Now().UTC()
	rating := 4.5
	return &Book{
		ID:             "bk-1",
		Title:          "Project Hail Mary",
		Author:         "Andy Weir",
		NarratorRating: &rating,
		Tags: []Tag{
			{ID: "tag-1", Name: "sci-fi"},
			{ID: "tag-2", Name: NextTagName},
		},
		DateAdded: now,
		CreatedAt: now,
	}
}

func TestBook_InNextQueue(t *testing.T) {
	b := makeBook()

	if !b.InNextQueue() {
		t.Error("expected book with next tag to be in queue")
	}

	b.RemoveTagByID("tag-2")
	if b.InNextQueue() {
		t.Error("expected book without next tag to be out of queue")
	}
}

func TestBook_TagByNameIgnoresCase(t *testing.T) {
	b := makeBook()

	if !b.HasTagNamed("Sci-Fi") {
		t.Error("expected tag name lookup to ignore case")
	}

	tag := b.TagByName("NEXT")
	if tag == nil || tag.ID != "tag-2" {
		t.Errorf("expected next tag for case variant, got %v", tag)
	}
}

func TestBook_AddTag(t *testing.T) {
	b := makeBook()

	// Duplicate by ID is a no-op.
	if b.AddTag(Tag{ID: "tag-1", Name: "sci-fi"}) {
		t.Error("expected duplicate tag add to return false")
	}
	if len(b.Tags) != 2 {
		t.Errorf("expected 2 tags, got %d", len(b.Tags))
	}

	if !b.AddTag(Tag{ID: "tag-3", Name: "space"}) {
		t.Error("expected new tag add to return true")
	}
	if len(b.Tags) != 3 {
		t.Errorf("expected 3 tags, got %d", len(b.Tags))
	}
}

func TestBook_RemoveTagByID(t *testing.T) {
	b := makeBook()

	if !b.RemoveTagByID("tag-1") {
		t.Error("expected removal of existing tag to return true")
	}
	if b.RemoveTagByID("tag-1") {
		t.Error("expected removal of missing tag to return false")
	}
	if b.HasTagNamed("sci-fi") {
		t.Error("tag should be gone")
	}
}

func TestBook_Clone_Independent(t *testing.T) {
	b := makeBook()
	c := b.Clone()

	c.Tags[0].Name = "changed"
	*c.NarratorRating = 1.0
	c.Title = "Other"

	if b.Tags[0].Name != "sci-fi" {
		t.Error("clone mutation leaked into original tags")
	}
	if *b.NarratorRating != 4.5 {
		t.Error("clone mutation leaked into original rating")
	}
	if b.Title != "Project Hail Mary" {
		t.Error("clone mutation leaked into original title")
	}
}

func TestValidRating(t *testing.T) {
	for _, v := range []float64{0, 2.5, 5} {
		if !ValidRating(v) {
			t.Errorf("expected %v to be valid", v)
		}
	}
	for _, v := range []float64{-0.1, 5.1} {
		if ValidRating(v) {
			t.Errorf("expected %v to be invalid", v)
		}
	}
}
