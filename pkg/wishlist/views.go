package wishlist

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wishlistapp/wishlist-server/pkg/reactive"
)

// NextTagName marks books queued up to listen to next.
const NextTagName = "next"

// SortKey selects the field books are ordered by.
type SortKey string

const (
	SortByTitle     SortKey = "title"
	SortByAuthor    SortKey = "author"
	SortByRating    SortKey = "rating"
	SortByDateAdded SortKey = "dateAdded"
)

// FilterCriteria is a pure description of a derived view. The zero value
// means no filtering and the default sort: title ascending.
type FilterCriteria struct {
	// Query matches case-insensitively as a substring of title or author.
	Query string
	// Tags are required tag names; a book must carry every one.
	Tags []string
	// Sort defaults to SortByTitle when empty.
	Sort       SortKey
	Descending bool
}

// IsZero reports whether the criteria are cleared.
func (c FilterCriteria) IsZero() bool {
	return c.Query == "" && len(c.Tags) == 0 && c.Sort == "" && !c.Descending
}

// collator performs locale-aware, case-insensitive title and author
// comparison.
var collator = collate.New(language.Und, collate.IgnoreCase)

// ApplyFilter computes a filtered, sorted view of books. It is a pure
// function: the input slice is never mutated and the result is freshly
// allocated. Recompute on every input change.
func ApplyFilter(books []Book, criteria FilterCriteria) []Book {
	out := make([]Book, 0, len(books))
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	for _, b := range books {
		if query != "" {
			title := strings.ToLower(b.Title)
			author := strings.ToLower(b.Author)
			if !strings.Contains(title, query) && !strings.Contains(author, query) {
				continue
			}
		}
		if !hasAllTags(b, criteria.Tags) {
			continue
		}
		out = append(out, b.Clone())
	}

	sortBooks(out, criteria.Sort, criteria.Descending)
	return out
}

// NextQueue returns the books tagged "next", ordered by queue position.
// Books without a position sort after positioned ones, then by title.
func NextQueue(books []Book) []Book {
	out := make([]Book, 0)
	for _, b := range books {
		if b.HasTag(NextTagName) {
			out = append(out, b.Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].QueuePosition, out[j].QueuePosition
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return collator.CompareString(out[i].Title, out[j].Title) < 0
	})
	return out
}

// FilteredView is a live projection of a BookStore: it recomputes whenever
// the store publishes new state or the criteria change, and exposes the same
// subscribe contract as its inputs.
type FilteredView struct {
	store    *BookStore
	criteria *reactive.Value[FilterCriteria]
	books    *reactive.Value[[]Book]
	unsub    func()
}

// NewFilteredView derives a view over store with the given initial criteria.
// Call Close when done to detach from the store.
func NewFilteredView(store *BookStore, criteria FilterCriteria) *FilteredView {
	v := &FilteredView{
		store:    store,
		criteria: reactive.New(criteria),
		books:    reactive.New(ApplyFilter(store.Books(), criteria)),
	}
	v.unsub = store.Subscribe(func(st State) {
		v.books.Set(ApplyFilter(st.Books, v.criteria.Get()))
	})
	v.criteria.Subscribe(func(c FilterCriteria) {
		v.books.Set(ApplyFilter(v.store.Books(), c))
	})
	return v
}

// Books returns the current filtered, sorted list.
func (v *FilteredView) Books() []Book {
	return v.books.Get()
}

// Criteria returns the current criteria.
func (v *FilteredView) Criteria() FilterCriteria {
	return v.criteria.Get()
}

// SetCriteria replaces the criteria and recomputes the view.
func (v *FilteredView) SetCriteria(c FilterCriteria) {
	v.criteria.Set(c)
}

// Subscribe registers fn to receive the recomputed list on every change and
// returns an unsubscribe function.
func (v *FilteredView) Subscribe(fn func([]Book)) func() {
	return v.books.Subscribe(fn)
}

// Close detaches the view from its store. The last computed list stays
// readable.
func (v *FilteredView) Close() {
	v.unsub()
}

func hasAllTags(b Book, required []string) bool {
	for _, name := range required {
		if !b.HasTag(name) {
			return false
		}
	}
	return true
}

func sortBooks(books []Book, key SortKey, descending bool) {
	if key == "" {
		key = SortByTitle
	}

	less := func(i, j int) bool {
		switch key {
		case SortByAuthor:
			if c := collator.CompareString(books[i].Author, books[j].Author); c != 0 {
				return c < 0
			}
		case SortByRating:
			ri, rj := effectiveRating(books[i]), effectiveRating(books[j])
			switch {
			case ri != nil && rj != nil && *ri != *rj:
				return *ri < *rj
			case ri != nil && rj == nil:
				return true
			case ri == nil && rj != nil:
				return false
			}
		case SortByDateAdded:
			if !books[i].DateAdded.Equal(books[j].DateAdded) {
				return books[i].DateAdded.Before(books[j].DateAdded)
			}
		}
		return collator.CompareString(books[i].Title, books[j].Title) < 0
	}

	if descending {
		sort.SliceStable(books, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(books, less)
}

// effectiveRating averages the ratings a book has, or nil when unrated.
func effectiveRating(b Book) *float64 {
	sum, n := 0.0, 0
	if b.NarratorRating != nil {
		sum += *b.NarratorRating
		n++
	}
	if b.PerformanceRating != nil {
		sum += *b.PerformanceRating
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
