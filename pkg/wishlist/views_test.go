package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookWithTags(id, title, author string, tags ...string) Book {
	b := Book{ID: id, Title: title, Author: author}
	for _, name := range tags {
		b.Tags = append(b.Tags, Tag{Name: name})
	}
	return b
}

func titles(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestApplyFilter_DefaultSort(t *testing.T) {
	books := []Book{
		bookWithTags("1", "Zebra", "A"),
		bookWithTags("2", "Apple", "B"),
		bookWithTags("3", "Banana", "C"),
	}

	result := ApplyFilter(books, FilterCriteria{})
	assert.Equal(t, []string{"Apple", "Banana", "Zebra"}, titles(result))
}

func TestApplyFilter_DefaultSortCaseInsensitive(t *testing.T) {
	books := []Book{
		bookWithTags("1", "zebra", "A"),
		bookWithTags("2", "Apple", "B"),
		bookWithTags("3", "BANANA", "C"),
	}

	result := ApplyFilter(books, FilterCriteria{})
	assert.Equal(t, []string{"Apple", "BANANA", "zebra"}, titles(result))
}

func TestApplyFilter_ClearingRestoresDefaultOrder(t *testing.T) {
	r1, r2 := 2.0, 5.0
	books := []Book{
		{ID: "1", Title: "Zebra", NarratorRating: &r2},
		{ID: "2", Title: "Apple", NarratorRating: &r1},
		{ID: "3", Title: "Banana"},
	}

	byRating := ApplyFilter(books, FilterCriteria{Sort: SortByRating})
	assert.Equal(t, []string{"Apple", "Zebra", "Banana"}, titles(byRating), "rated books first, ascending; unrated last")

	cleared := ApplyFilter(books, FilterCriteria{})
	assert.Equal(t, []string{"Apple", "Banana", "Zebra"}, titles(cleared))
}

func TestApplyFilter_Query(t *testing.T) {
	books := []Book{
		bookWithTags("1", "Project Hail Mary", "Andy Weir"),
		bookWithTags("2", "Dune", "Frank Herbert"),
		bookWithTags("3", "The Martian", "Andy Weir"),
	}

	result := ApplyFilter(books, FilterCriteria{Query: "andy"})
	assert.Equal(t, []string{"Project Hail Mary", "The Martian"}, titles(result), "query matches author too")

	result = ApplyFilter(books, FilterCriteria{Query: "DUNE"})
	assert.Equal(t, []string{"Dune"}, titles(result))

	result = ApplyFilter(books, FilterCriteria{Query: "nothing matches"})
	assert.Empty(t, result)
}

func TestApplyFilter_TagsAreANDed(t *testing.T) {
	books := []Book{
		bookWithTags("1", "A", "x", "sci-fi", "next"),
		bookWithTags("2", "B", "x", "sci-fi"),
		bookWithTags("3", "C", "x", "next"),
	}

	result := ApplyFilter(books, FilterCriteria{Tags: []string{"sci-fi", "next"}})
	require.Len(t, result, 1)
	assert.Equal(t, "A", result[0].Title)
}

func TestApplyFilter_DoesNotMutateInput(t *testing.T) {
	books := []Book{
		bookWithTags("1", "Zebra", "A"),
		bookWithTags("2", "Apple", "B"),
	}

	_ = ApplyFilter(books, FilterCriteria{})
	assert.Equal(t, "Zebra", books[0].Title, "input order preserved")
	assert.Equal(t, "Apple", books[1].Title)
}

func TestApplyFilter_Descending(t *testing.T) {
	books := []Book{
		bookWithTags("1", "Apple", "A"),
		bookWithTags("2", "Zebra", "B"),
	}

	result := ApplyFilter(books, FilterCriteria{Descending: true})
	assert.Equal(t, []string{"Zebra", "Apple"}, titles(result))
}

func TestNextQueue(t *testing.T) {
	p1, p2 := 1, 2
	books := []Book{
		func() Book { b := bookWithTags("1", "Third", "A", "next"); return b }(),
		func() Book { b := bookWithTags("2", "First", "A", "next"); b.QueuePosition = &p1; return b }(),
		bookWithTags("3", "Not queued", "A", "sci-fi"),
		func() Book { b := bookWithTags("4", "Second", "A", "next"); b.QueuePosition = &p2; return b }(),
	}

	result := NextQueue(books)
	assert.Equal(t, []string{"First", "Second", "Third"}, titles(result), "positioned first, unpositioned last")
}

func TestFilteredViewRecomputesOnChange(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	seedStore(t, store, "Zebra", "Apple")

	view := NewFilteredView(store, FilterCriteria{})
	defer view.Close()
	assert.Equal(t, []string{"Apple", "Zebra"}, titles(view.Books()))

	var last []Book
	unsub := view.Subscribe(func(books []Book) { last = books })
	defer unsub()

	require.NoError(t, store.Add(ctx, BookInput{Title: "Banana", Author: "B"}))
	assert.Equal(t, []string{"Apple", "Banana", "Zebra"}, titles(view.Books()), "store changes flow through")
	assert.Equal(t, titles(view.Books()), titles(last), "subscribers see the recomputed list")

	view.SetCriteria(FilterCriteria{Query: "ban"})
	assert.Equal(t, []string{"Banana"}, titles(view.Books()), "criteria changes recompute")
	assert.Equal(t, []string{"Banana"}, titles(last))
}

func TestFilteredViewCloseDetaches(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	seedStore(t, store, "Apple")

	view := NewFilteredView(store, FilterCriteria{})
	view.Close()

	require.NoError(t, store.Add(ctx, BookInput{Title: "Zebra", Author: "B"}))
	assert.Equal(t, []string{"Apple"}, titles(view.Books()), "closed views stop tracking the store")
}
