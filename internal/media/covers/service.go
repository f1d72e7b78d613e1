package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a cover download.
	downloadTimeout = 30 * time.Second
)

// Result contains the outcome of a cover download.
type Result struct {
	Width    int    // Stored image width
	Height   int    // Stored image height
	Size     int64  // Stored file size in bytes
	BlurHash string // Placeholder hash for progressive loading
}

// Service downloads covers from remote URLs and caches processed copies
// on disk.
type Service struct {
	httpClient *http.Client
	storage    *Storage
	logger     *slog.Logger
}

// NewService creates a cover download service.
func NewService(storage *Storage, logger *slog.Logger) *Service {
	return &Service{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		storage: storage,
		logger:  logger,
	}
}

// Download fetches a cover from the URL, normalizes it, and stores it for
// the given book ID.
func (s *Service) Download(ctx context.Context, bookID, url string) (*Result, error) {
	if url == "" {
		return nil, errors.New("empty cover URL")
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	processed, err := process(data)
	if err != nil {
		return nil, fmt.Errorf("process cover: %w", err)
	}

	if err := s.storage.Save(bookID, processed.Data); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	s.logger.Info("downloaded cover",
		"book_id", bookID,
		"size", len(processed.Data),
		"width", processed.Width,
		"height", processed.Height,
	)

	return &Result{
		Width:    processed.Width,
		Height:   processed.Height,
		Size:     int64(len(processed.Data)),
		BlurHash: processed.BlurHash,
	}, nil
}

// SaveRaw stores pre-encoded cover bytes without fetching or re-processing.
// Used when restoring covers from a backup.
func (s *Service) SaveRaw(bookID string, data []byte) error {
	return s.storage.Save(bookID, data)
}

// Get returns the stored cover bytes for a book.
func (s *Service) Get(bookID string) ([]byte, error) {
	return s.storage.Get(bookID)
}

// Exists reports whether a cached cover exists for a book.
func (s *Service) Exists(bookID string) bool {
	return s.storage.Exists(bookID)
}

// Delete removes a book's cached cover.
func (s *Service) Delete(bookID string) error {
	return s.storage.Delete(bookID)
}

// Hash returns the SHA256 of the stored cover for ETag validation.
func (s *Service) Hash(bookID string) (string, error) {
	return s.storage.Hash(bookID)
}
