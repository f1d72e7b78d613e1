package wishlist

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBackend is an in-memory wishlist server speaking the real envelope
// protocol, with per-route failure injection for rollback tests.
type fakeBackend struct {
	t *testing.T

	mu       sync.Mutex
	books    []Book
	tags     []Tag
	nextBook int
	nextTag  int
	calls    map[string]int

	failCreate int            // remaining POST /books failures
	failList   int            // remaining GET /books failures
	failBooks  map[string]int // id → remaining PUT/DELETE failures

	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:         t,
		calls:     make(map[string]int),
		failBooks: make(map[string]int),
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

// newTestClient returns a client against the backend with retries and
// caching effectively disabled, so every call hits the server once.
func (b *fakeBackend) newTestClient() *Client {
	return NewClient(b.server.URL, ClientOptions{
		Attempts: 1,
		Backoff:  time.Millisecond,
		CacheTTL: time.Nanosecond,
	})
}

func (b *fakeBackend) callCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *fakeBackend) snapshot() []Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneBooks(b.books)
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls[r.Method+" "+r.URL.Path]++

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/books":
		if b.failList > 0 {
			b.failList--
			writeError(w, http.StatusInternalServerError, CodeDatabase, "injected failure")
			return
		}
		writeSuccess(w, b.books)

	case r.Method == http.MethodPost && r.URL.Path == "/books":
		if b.failCreate > 0 {
			b.failCreate--
			writeError(w, http.StatusInternalServerError, CodeDatabase, "injected failure")
			return
		}
		var input BookInput
		if err := json.UnmarshalRead(r.Body, &input); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		if input.Title == "" || input.Author == "" {
			writeError(w, http.StatusBadRequest, CodeValidation, "title and author are required")
			return
		}
		b.nextBook++
		now := time.Now().UTC()
		book := Book{
			ID:                fmt.Sprintf("book-%d", b.nextBook),
			Title:             input.Title,
			Author:            input.Author,
			Tags:              b.resolveTags(input.Tags),
			NarratorRating:    input.NarratorRating,
			PerformanceRating: input.PerformanceRating,
			Description:       input.Description,
			CoverImageURL:     input.CoverImageURL,
			AudibleURL:        input.AudibleURL,
			QueuePosition:     input.QueuePosition,
			DateAdded:         now,
			DateUpdated:       now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		b.books = append(b.books, book)
		writeSuccess(w, book)

	case strings.HasPrefix(r.URL.Path, "/books/"):
		id := strings.TrimPrefix(r.URL.Path, "/books/")
		b.handleBook(w, r, id)

	case r.Method == http.MethodGet && r.URL.Path == "/tags":
		writeSuccess(w, b.tags)

	default:
		writeError(w, http.StatusNotFound, CodeHTTP, "no such route")
	}
}

func (b *fakeBackend) handleBook(w http.ResponseWriter, r *http.Request, id string) {
	idx := -1
	for i := range b.books {
		if b.books[i].ID == id {
			idx = i
			break
		}
	}

	switch r.Method {
	case http.MethodGet:
		if idx < 0 {
			writeError(w, http.StatusNotFound, CodeBookNotFound, "book not found")
			return
		}
		writeSuccess(w, b.books[idx])

	case http.MethodPut:
		if b.failBooks[id] > 0 {
			b.failBooks[id]--
			writeError(w, http.StatusInternalServerError, CodeDatabase, "injected failure")
			return
		}
		if idx < 0 {
			writeError(w, http.StatusNotFound, CodeBookNotFound, "book not found")
			return
		}
		var patch BookPatch
		if err := json.UnmarshalRead(r.Body, &patch); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		book := b.books[idx]
		applyPatch(&book, patch)
		if patch.Tags != nil {
			book.Tags = b.resolveTags(*patch.Tags)
		}
		book.DateUpdated = time.Now().UTC()
		book.UpdatedAt = book.DateUpdated
		b.books[idx] = book
		writeSuccess(w, book)

	case http.MethodDelete:
		if b.failBooks[id] > 0 {
			b.failBooks[id]--
			writeError(w, http.StatusInternalServerError, CodeDatabase, "injected failure")
			return
		}
		if idx < 0 {
			writeError(w, http.StatusNotFound, CodeBookNotFound, "book not found")
			return
		}
		b.books = append(b.books[:idx], b.books[idx+1:]...)
		writeSuccess(w, map[string]string{"message": "Book deleted"})

	default:
		writeError(w, http.StatusNotFound, CodeHTTP, "no such route")
	}
}

// resolveTags reuses existing tags by name, creating missing ones, the way
// the real server does.
func (b *fakeBackend) resolveTags(names []string) []Tag {
	out := make([]Tag, 0, len(names))
	for _, name := range names {
		found := false
		for i := range b.tags {
			if strings.EqualFold(b.tags[i].Name, name) {
				out = append(out, b.tags[i])
				found = true
				break
			}
		}
		if !found {
			b.nextTag++
			tag := Tag{ID: fmt.Sprintf("tag-%d", b.nextTag), Name: name}
			b.tags = append(b.tags, tag)
			out = append(out, tag)
		}
	}
	return out
}

func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.MarshalWrite(w, map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func writeError(w http.ResponseWriter, status int, code Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, map[string]any{
		"success":   false,
		"error":     code,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}
