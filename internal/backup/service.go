package backup

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wishlistapp/wishlist-server/internal/domain"
	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
	"github.com/wishlistapp/wishlist-server/internal/id"
	"github.com/wishlistapp/wishlist-server/internal/store"
)

const fileSuffix = ".wishlist.json"

// Service manages wishlist backup export and import.
type Service struct {
	store     store.Store
	backupDir string
	logger    *slog.Logger
}

// NewService creates a backup Service.
func NewService(s store.Store, backupDir string, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Export builds a backup document from the current database contents.
func (s *Service) Export(ctx context.Context) (*Document, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	doc := &Document{
		Manifest: Manifest{
			Version:   FormatVersion,
			CreatedAt: time.Now().UTC(),
			Counts: EntityCounts{
				Books: len(books),
				Tags:  len(tags),
			},
		},
		Books: make([]BookRecord, 0, len(books)),
		Tags:  make([]TagRecord, 0, len(tags)),
	}

	for _, t := range tags {
		doc.Tags = append(doc.Tags, TagRecord{
			Name:  t.Name,
			Color: t.Color,
		})
	}

	for _, b := range books {
		tagNames := make([]string, 0, len(b.Tags))
		for _, t := range b.Tags {
			tagNames = append(tagNames, t.Name)
		}
		doc.Books = append(doc.Books, BookRecord{
			ID:                b.ID,
			Title:             b.Title,
			Author:            b.Author,
			Tags:              tagNames,
			NarratorRating:    b.NarratorRating,
			PerformanceRating: b.PerformanceRating,
			Description:       b.Description,
			CoverImageURL:     b.CoverImageURL,
			CoverBlurhash:     b.CoverBlurhash,
			AudibleURL:        b.AudibleURL,
			QueuePosition:     b.QueuePosition,
			DateAdded:         b.DateAdded,
			DateUpdated:       b.DateUpdated,
		})
	}

	return doc, nil
}

// ExportToFile writes a timestamped backup document into the backup
// directory and returns its path.
func (s *Service) ExportToFile(ctx context.Context) (string, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	path := filepath.Join(s.backupDir, fmt.Sprintf("backup-%s%s", timestamp, fileSuffix))

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.logger.Info("backup written",
		"path", path,
		"books", doc.Manifest.Counts.Books,
		"tags", doc.Manifest.Counts.Tags)

	return path, nil
}

// Import merges a backup document into the database.
//
// Tags are matched by name: existing tags are reused, missing ones created.
// Books whose ID already exists are skipped, never overwritten. Records
// without a title or author are counted as invalid and dropped.
func (s *Service) Import(ctx context.Context, doc *Document) (*ImportResult, error) {
	if doc.Manifest.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Manifest.Version)
	}

	result := &ImportResult{}

	// Resolve the tag catalog first so book imports can reference it.
	tagsByName := make(map[string]*domain.Tag)
	for _, rec := range doc.Tags {
		if rec.Name == "" {
			continue
		}
		tag, created, err := s.store.FindOrCreateTagByName(ctx, rec.Name, rec.Color)
		if err != nil {
			return nil, fmt.Errorf("import tag %q: %w", rec.Name, err)
		}
		if created {
			result.TagsCreated++
		} else {
			result.TagsReused++
		}
		tagsByName[tag.Name] = tag
	}

	for _, rec := range doc.Books {
		if rec.Title == "" || rec.Author == "" {
			result.BooksInvalid++
			continue
		}

		bookID := rec.ID
		if bookID == "" || id.IsTemp(bookID) {
			bookID = id.MustGenerate("book")
		} else if _, err := s.store.GetBook(ctx, bookID); err == nil {
			result.BooksSkipped++
			continue
		} else if !apperrors.Is(err, apperrors.ErrBookNotFound) {
			return nil, fmt.Errorf("check book %s: %w", bookID, err)
		}

		var bookTags []domain.Tag
		for _, name := range rec.Tags {
			tag, ok := tagsByName[name]
			if !ok {
				// The tag list was incomplete; resolve it on demand.
				resolved, created, err := s.store.FindOrCreateTagByName(ctx, name, "")
				if err != nil {
					return nil, fmt.Errorf("import tag %q: %w", name, err)
				}
				if created {
					result.TagsCreated++
				}
				tagsByName[name] = resolved
				tag = resolved
			}
			bookTags = append(bookTags, *tag)
		}

		now := time.Now().UTC()
		dateAdded := rec.DateAdded
		if dateAdded.IsZero() {
			dateAdded = now
		}
		dateUpdated := rec.DateUpdated
		if dateUpdated.IsZero() {
			dateUpdated = now
		}

		book := &domain.Book{
			ID:                bookID,
			Title:             rec.Title,
			Author:            rec.Author,
			Tags:              bookTags,
			NarratorRating:    rec.NarratorRating,
			PerformanceRating: rec.PerformanceRating,
			Description:       rec.Description,
			CoverImageURL:     rec.CoverImageURL,
			CoverBlurhash:     rec.CoverBlurhash,
			AudibleURL:        rec.AudibleURL,
			QueuePosition:     rec.QueuePosition,
			DateAdded:         dateAdded,
			DateUpdated:       dateUpdated,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		if err := s.store.CreateBook(ctx, book); err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				result.BooksSkipped++
				continue
			}
			return nil, fmt.Errorf("import book %q: %w", rec.Title, err)
		}
		result.BooksImported++
	}

	s.logger.Info("backup imported",
		"imported", result.BooksImported,
		"skipped", result.BooksSkipped,
		"invalid", result.BooksInvalid,
		"tags_created", result.TagsCreated)

	return result, nil
}

// ImportFromFile reads and imports a backup file.
func (s *Service) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Backup path comes from operator input
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}

	return s.Import(ctx, &doc)
}

// List returns the backup files on disk, newest first.
func (s *Service) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			ID:        strings.TrimSuffix(entry.Name(), fileSuffix),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}
