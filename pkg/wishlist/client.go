package wishlist

import (
	"bytes"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultBackoff  = 250 * time.Millisecond
	defaultCacheTTL = 10 * time.Second
)

// envelope is the uniform response wrapper produced by the server.
type envelope struct {
	Success   bool           `json:"success"`
	Data      jsontext.Value `json:"data,omitempty"`
	Error     Code           `json:"error,omitempty"`
	Message   string         `json:"message,omitempty"`
	Details   jsontext.Value `json:"details,omitempty"`
	Timestamp string         `json:"timestamp"`
	RequestID string         `json:"requestId,omitempty"`
}

// ClientOptions configures a Client. Zero values take the package defaults.
type ClientOptions struct {
	// Timeout applies per attempt, not across retries.
	Timeout time.Duration
	// Attempts is the total request budget including the first try.
	Attempts int
	// Backoff is the base retry delay; the wait before attempt n is
	// (n-1) × Backoff.
	Backoff time.Duration
	// CacheTTL bounds the read-through cache for collection GETs.
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the wishlist server. It retries transient failures,
// caches collection GETs briefly, and surfaces every failure as *Error.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	cacheTTL time.Duration
	logger   *slog.Logger

	cacheMu       sync.Mutex
	booksCache    []Book
	booksCachedAt time.Time
	tagsCache     []Tag
	tagsCachedAt  time.Time
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     opts.HTTPClient,
		timeout:  opts.Timeout,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		cacheTTL: opts.CacheTTL,
		logger:   opts.Logger,
	}
}

// Ping checks server health.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// ListBooks returns all books, served from cache when fresh.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	c.cacheMu.Lock()
	if c.booksCache != nil && time.Since(c.booksCachedAt) < c.cacheTTL {
		books := cloneBooks(c.booksCache)
		c.cacheMu.Unlock()
		return books, nil
	}
	c.cacheMu.Unlock()

	var books []Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.booksCache = cloneBooks(books)
	c.booksCachedAt = time.Now()
	c.cacheMu.Unlock()

	return books, nil
}

// GetBook returns a single book by ID. Never cached.
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, "/books/"+id, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook adds a book and returns the server's canonical record.
func (c *Client) CreateBook(ctx context.Context, input BookInput) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/books", input, &book); err != nil {
		return nil, err
	}
	c.invalidateBooks()
	return &book, nil
}

// UpdateBook applies a partial update and returns the canonical record.
func (c *Client) UpdateBook(ctx context.Context, id string, patch BookPatch) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPut, "/books/"+id, patch, &book); err != nil {
		return nil, err
	}
	c.invalidateBooks()
	return &book, nil
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/books/"+id, nil, nil); err != nil {
		return err
	}
	c.invalidateBooks()
	return nil
}

// ListTags returns all tags, served from cache when fresh.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	c.cacheMu.Lock()
	if c.tagsCache != nil && time.Since(c.tagsCachedAt) < c.cacheTTL {
		tags := make([]Tag, len(c.tagsCache))
		copy(tags, c.tagsCache)
		c.cacheMu.Unlock()
		return tags, nil
	}
	c.cacheMu.Unlock()

	var tags []Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.tagsCache = make([]Tag, len(tags))
	copy(c.tagsCache, tags)
	c.tagsCachedAt = time.Now()
	c.cacheMu.Unlock()

	return tags, nil
}

// CreateTag creates a tag and returns it.
func (c *Client) CreateTag(ctx context.Context, input TagInput) (*Tag, error) {
	var tag Tag
	if err := c.do(ctx, http.MethodPost, "/tags", input, &tag); err != nil {
		return nil, err
	}
	c.invalidateTags()
	return &tag, nil
}

// invalidateBooks drops the cached book list. Book mutations can also create
// tags implicitly, so the tag cache is dropped with it.
func (c *Client) invalidateBooks() {
	c.cacheMu.Lock()
	c.booksCache = nil
	c.tagsCache = nil
	c.cacheMu.Unlock()
}

func (c *Client) invalidateTags() {
	c.cacheMu.Lock()
	c.tagsCache = nil
	c.cacheMu.Unlock()
}

// do executes one API call. Network failures and 5xx responses are retried
// up to the attempt budget with linear backoff; 4xx responses and
// success:false envelopes on 2xx are terminal application errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return newError(CodeInternal, "encode request body", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * c.backoff
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return newError(CodeNetwork, "request cancelled", ctx.Err())
			}
			c.logger.Debug("retrying request", "method", method, "path", path, "attempt", attempt)
		}

		err := c.attempt(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}

		var apiErr *Error
		if ok := asError(err, &apiErr); ok && apiErr.Code != CodeNetwork {
			// Application-level failure; retrying will not change the answer.
			return apiErr
		}
		lastErr = err
	}

	return newError(CodeNetwork, fmt.Sprintf("request failed after %d attempts", c.attempts), lastErr)
}

// attempt performs a single HTTP round trip and envelope decode.
// Transient failures come back as *Error with CodeNetwork.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reqBody)
	if err != nil {
		return newError(CodeInternal, "build request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return newError(CodeNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(CodeNetwork, "read response", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return newError(CodeNetwork, fmt.Sprintf("server error (status %d)", resp.StatusCode), err)
		}
		return newError(CodeHTTP, fmt.Sprintf("unexpected response (status %d)", resp.StatusCode), err)
	}

	if !env.Success {
		code := env.Error
		if code == "" {
			code = CodeHTTP
		}
		appErr := newError(code, env.Message, nil)
		if resp.StatusCode >= http.StatusInternalServerError {
			// Server-side failures are worth another try.
			return newError(CodeNetwork, env.Message, appErr)
		}
		return appErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return newError(CodeHTTP, "decode response data", err)
		}
	}

	return nil
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}

func cloneBooks(books []Book) []Book {
	out := make([]Book, len(books))
	for i := range books {
		out[i] = books[i].Clone()
	}
	return out
}
