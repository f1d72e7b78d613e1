package wishlist

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wishlistapp/wishlist-server/pkg/reactive"
)

// freshnessWindow is how long a loaded list is considered current; Load is a
// no-op inside the window unless forced.
const freshnessWindow = 30 * time.Second

// tempIDPrefix marks optimistic records that have not been persisted yet.
const tempIDPrefix = "temp-"

// State is the snapshot handed to BookStore subscribers. Books is a deep
// copy; subscribers may keep it without worrying about later mutations.
type State struct {
	Books    []Book
	Loading  bool
	LastErr  string
	Updating map[string]bool
}

// BookStore holds the client-side book list and keeps it in sync with the
// server using optimistic mutations: every add/update/remove applies locally
// first, then either confirms with the server's canonical record or rolls
// back to the pre-mutation snapshot.
//
// Mutations on different ids never interfere. Concurrent mutations on the
// same id are not serialized: both snapshot independently and the network
// response that lands last wins. That is accepted last-write-wins behavior,
// not conflict detection.
type BookStore struct {
	client   *Client
	notifier *Notifier
	logger   *slog.Logger
	state    *reactive.Value[State]

	mu       sync.Mutex
	books    []Book
	updating map[string]bool
	loading  bool
	lastErr  string
	lastSync time.Time
}

// NewBookStore creates a store backed by client. The notifier may be nil to
// suppress user-facing notifications.
func NewBookStore(client *Client, notifier *Notifier, logger *slog.Logger) *BookStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookStore{
		client:   client,
		notifier: notifier,
		logger:   logger,
		state:    reactive.New(State{Updating: map[string]bool{}}),
		updating: make(map[string]bool),
	}
}

// Books returns a deep copy of the current list.
func (s *BookStore) Books() []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBooks(s.books)
}

// IsUpdating reports whether a mutation is in flight for the given id.
func (s *BookStore) IsUpdating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updating[id]
}

// State returns the last published snapshot.
func (s *BookStore) State() State {
	return s.state.Get()
}

// Subscribe registers fn for state changes and returns an unsubscribe
// function. fn runs synchronously under a consistent snapshot and must not
// call back into the store; it may be called after unsubscription was
// requested from another goroutine.
func (s *BookStore) Subscribe(fn func(State)) func() {
	return s.state.Subscribe(fn)
}

// Load fetches the full list from the server. It is a no-op when a load is
// already in flight, or when the data is fresher than the freshness window
// and force is false. On failure the previous list is preserved and the
// error string published to subscribers. Notifications are emitted only for
// forced loads.
func (s *BookStore) Load(ctx context.Context, force bool) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	if !force && s.books != nil && time.Since(s.lastSync) < freshnessWindow {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.publishLocked()
	s.mu.Unlock()

	books, err := s.client.ListBooks(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		s.publishLocked()
		s.mu.Unlock()

		s.logger.Warn("load failed", "error", err)
		if force && s.notifier != nil {
			s.notifier.Error("Refresh failed", HumanMessage(err))
		}
		return err
	}

	s.books = books
	s.lastSync = time.Now()
	s.lastErr = ""
	s.publishLocked()
	s.mu.Unlock()

	if force && s.notifier != nil {
		s.notifier.Info("Library refreshed", "")
	}
	return nil
}

// Add appends an optimistic temporary record immediately, then creates the
// book on the server. On success the temp record is replaced by the server's
// canonical record; on failure it is removed entirely.
func (s *BookStore) Add(ctx context.Context, input BookInput) error {
	temp := Book{
		ID:                tempIDPrefix + uuid.NewString(),
		Title:             input.Title,
		Author:            input.Author,
		NarratorRating:    input.NarratorRating,
		PerformanceRating: input.PerformanceRating,
		Description:       input.Description,
		CoverImageURL:     input.CoverImageURL,
		AudibleURL:        input.AudibleURL,
		QueuePosition:     input.QueuePosition,
		DateAdded:         time.Now(),
	}
	for _, name := range input.Tags {
		temp.Tags = append(temp.Tags, Tag{Name: name})
	}

	s.mu.Lock()
	s.books = append(s.books, temp)
	s.publishLocked()
	s.mu.Unlock()

	created, err := s.client.CreateBook(ctx, input)

	s.mu.Lock()
	if err != nil {
		s.removeByIDLocked(temp.ID)
		s.publishLocked()
		s.mu.Unlock()

		s.logger.Warn("add failed", "title", input.Title, "error", err)
		if s.notifier != nil {
			s.notifier.Error("Could not add book", HumanMessage(err))
		}
		return err
	}

	if i := s.indexOfLocked(temp.ID); i >= 0 {
		s.books[i] = *created
	} else {
		// Temp record vanished (e.g. a forced reload replaced the list).
		s.books = append(s.books, *created)
	}
	s.publishLocked()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Success("Book added", created.Title)
	}
	return nil
}

// Update patches a book optimistically. The id must exist locally; if not,
// the call fails without touching the network. Failure of the server call
// restores the exact pre-mutation record.
func (s *BookStore) Update(ctx context.Context, id string, patch BookPatch) error {
	s.mu.Lock()
	i := s.indexOfLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Warn("update of unknown book", "id", id)
		return newError(CodeBookNotFound, "book not in local state", nil)
	}

	snapshot := s.books[i].Clone()
	applyPatch(&s.books[i], patch)
	s.updating[id] = true
	s.publishLocked()
	s.mu.Unlock()

	updated, err := s.client.UpdateBook(ctx, id, patch)

	s.mu.Lock()
	delete(s.updating, id)
	if err != nil {
		if j := s.indexOfLocked(id); j >= 0 {
			s.books[j] = snapshot
		}
		s.publishLocked()
		s.mu.Unlock()

		s.logger.Warn("update failed, rolled back", "id", id, "error", err)
		if s.notifier != nil {
			s.notifier.Error("Could not save changes", HumanMessage(err))
		}
		return err
	}

	if j := s.indexOfLocked(id); j >= 0 {
		s.books[j] = *updated
	}
	s.publishLocked()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Success("Book updated", updated.Title)
	}
	return nil
}

// ToggleTagByName removes the named tag if the book carries it, otherwise
// adds it. It delegates entirely to Update and inherits its optimistic and
// rollback behavior.
func (s *BookStore) ToggleTagByName(ctx context.Context, id, name string) error {
	s.mu.Lock()
	i := s.indexOfLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Warn("toggle on unknown book", "id", id, "tag", name)
		return newError(CodeBookNotFound, "book not in local state", nil)
	}

	var names []string
	found := false
	for _, t := range s.books[i].Tags {
		if strings.EqualFold(t.Name, name) {
			found = true
			continue
		}
		names = append(names, t.Name)
	}
	if !found {
		names = append(names, name)
	}
	if names == nil {
		names = []string{}
	}
	s.mu.Unlock()

	return s.Update(ctx, id, BookPatch{Tags: &names})
}

// Remove deletes a book optimistically. On failure the full prior list is
// restored verbatim, including ordering.
func (s *BookStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOfLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Warn("remove of unknown book", "id", id)
		return newError(CodeBookNotFound, "book not in local state", nil)
	}

	snapshot := cloneBooks(s.books)
	title := s.books[i].Title
	s.books = append(s.books[:i], s.books[i+1:]...)
	s.updating[id] = true
	s.publishLocked()
	s.mu.Unlock()

	err := s.client.DeleteBook(ctx, id)

	s.mu.Lock()
	delete(s.updating, id)
	if err != nil {
		s.books = snapshot
		s.publishLocked()
		s.mu.Unlock()

		s.logger.Warn("remove failed, restored list", "id", id, "error", err)
		if s.notifier != nil {
			s.notifier.Error("Could not remove book", HumanMessage(err))
		}
		return err
	}
	s.publishLocked()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Success("Book removed", title)
	}
	return nil
}

// indexOfLocked returns the position of id, or -1. Callers must hold mu.
func (s *BookStore) indexOfLocked(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *BookStore) removeByIDLocked(id string) {
	if i := s.indexOfLocked(id); i >= 0 {
		s.books = append(s.books[:i], s.books[i+1:]...)
	}
}

// publishLocked notifies subscribers with a consistent snapshot. Callers
// must hold mu; subscribers must not call back into the store synchronously.
func (s *BookStore) publishLocked() {
	state := State{
		Books:    cloneBooks(s.books),
		Loading:  s.loading,
		LastErr:  s.lastErr,
		Updating: make(map[string]bool, len(s.updating)),
	}
	for id := range s.updating {
		state.Updating[id] = true
	}
	s.state.Set(state)
}

// applyPatch mutates book in place with the patch's non-nil fields.
func applyPatch(book *Book, patch BookPatch) {
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = *patch.Author
	}
	if patch.Tags != nil {
		tags := make([]Tag, 0, len(*patch.Tags))
		for _, name := range *patch.Tags {
			tags = append(tags, Tag{Name: name})
		}
		book.Tags = tags
	}
	if patch.NarratorRating != nil {
		v := *patch.NarratorRating
		book.NarratorRating = &v
	}
	if patch.PerformanceRating != nil {
		v := *patch.PerformanceRating
		book.PerformanceRating = &v
	}
	if patch.Description != nil {
		book.Description = *patch.Description
	}
	if patch.CoverImageURL != nil {
		book.CoverImageURL = *patch.CoverImageURL
	}
	if patch.AudibleURL != nil {
		book.AudibleURL = *patch.AudibleURL
	}
	if patch.QueuePosition != nil {
		v := *patch.QueuePosition
		book.QueuePosition = &v
	}
}
