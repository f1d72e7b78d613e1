package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"

	"github.com/wishlistapp/wishlist-server/internal/domain"
	"github.com/wishlistapp/wishlist-server/internal/id"
)

// tagColumns selects tag fields plus the derived usage count.
// Must match the scan order in scanTag.
const tagColumns = `t.id, t.name, t.color, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM book_tags b2 WHERE b2.tag_id = t.id)`

// scanTag scans a tag row including the derived usage count.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	return scanTagWith(scanner)
}

// scanTagWith scans a tag row, optionally prefixed by extra columns (e.g. a
// book_id when scanning join rows).
func scanTagWith(scanner interface{ Scan(dest ...any) error }, prefix ...any) (*domain.Tag, error) {
	var t domain.Tag

	var (
		color     sql.NullString
		createdAt string
		updatedAt string
	)

	dest := append(prefix,
		&t.ID,
		&t.Name,
		&color,
		&createdAt,
		&updatedAt,
		&t.UsageCount,
	)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	t.Color = color.String

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns a CONFLICT error on duplicate name.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		nullString(t.Color),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.Conflictf("tag %q already exists", t.Name)
		}
		return apperrors.Wrap(err, apperrors.CodeDatabase, "insert tag")
	}
	return nil
}

// GetTagByID retrieves a tag by its ID.
func (s *Store) GetTagByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.id = ?`, tagID)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.TagNotFoundf("tag %s not found", tagID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "scan tag")
	}
	return t, nil
}

// GetTagByName retrieves a tag by its unique name. Lookup is
// case-insensitive, matching the column's NOCASE collation.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags t WHERE t.name = ? COLLATE NOCASE`, name)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.TagNotFoundf("tag %q not found", name)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "scan tag")
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags t ORDER BY t.name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "query tags")
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "scan tag")
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "iterate tags")
	}

	return tags, nil
}

// FindOrCreateTagByName finds an existing tag by name or creates a new one.
// This is what enforces tag reuse: two books supplying the same tag name end
// up referencing one persisted tag.
// Returns (tag, created, error) where created is true if a new tag was made.
func (s *Store) FindOrCreateTagByName(ctx context.Context, name, color string) (*domain.Tag, bool, error) {
	existing, err := s.GetTagByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.Is(err, apperrors.ErrTagNotFound) {
		return nil, false, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, false, apperrors.Wrap(err, apperrors.CodeInternal, "generate tag id")
	}

	now := time.Now().UTC()
	t := &domain.Tag{
		ID:        tagID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.CreateTag(ctx, t); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			// Race: another request created it between lookup and insert.
			existing, err := s.GetTagByName(ctx, name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return t, true, nil
}

// SetBookTags replaces all tags for a book in a single transaction.
func (s *Store) SetBookTags(ctx context.Context, bookID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "begin tx")
	}
	defer tx.Rollback()

	if err := setBookTagsTx(ctx, tx, bookID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "commit")
	}
	return nil
}

// setBookTagsTx deletes existing book_tags rows and inserts the new set.
func setBookTagsTx(ctx context.Context, tx *sql.Tx, bookID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM book_tags WHERE book_id = ?`, bookID); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "delete book_tags")
	}

	now := formatTime(time.Now().UTC())
	seen := make(map[string]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		// Unique by tag id within a book.
		if seen[tagID] {
			continue
		}
		seen[tagID] = true

		_, err := tx.ExecContext(ctx, `
			INSERT INTO book_tags (book_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			bookID,
			tagID,
			now,
		)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return apperrors.TagNotFoundf("tag %s not found", tagID)
			}
			return apperrors.Wrap(err, apperrors.CodeDatabase, "insert book_tag")
		}
	}

	return nil
}

// GetTagsForBook returns the tags associated with a book, ordered by name.
func (s *Store) GetTagsForBook(ctx context.Context, bookID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+`
		FROM book_tags bt
		JOIN tags t ON t.id = bt.tag_id
		WHERE bt.book_id = ?
		ORDER BY t.name COLLATE NOCASE ASC`, bookID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "query book tags")
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "scan book tag")
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "iterate book tags")
	}

	return tags, nil
}
