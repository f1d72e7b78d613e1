package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"

	"github.com/wishlistapp/wishlist-server/internal/domain"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, description, cover_image_url, cover_blurhash,
	audible_url, narrator_rating, performance_rating, queue_position,
	date_added, date_updated, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
// Tags are left empty; callers attach them separately.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		description   sql.NullString
		coverImageURL sql.NullString
		coverBlurhash sql.NullString
		audibleURL    sql.NullString
		narrator      sql.NullFloat64
		performance   sql.NullFloat64
		queuePos      sql.NullInt64
		dateAdded     string
		dateUpdated   string
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&description,
		&coverImageURL,
		&coverBlurhash,
		&audibleURL,
		&narrator,
		&performance,
		&queuePos,
		&dateAdded,
		&dateUpdated,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Description = description.String
	b.CoverImageURL = coverImageURL.String
	b.CoverBlurhash = coverBlurhash.String
	b.AudibleURL = audibleURL.String
	b.NarratorRating = floatPtr(narrator)
	b.PerformanceRating = floatPtr(performance)
	b.QueuePosition = intPtr(queuePos)

	if b.DateAdded, err = parseTime(dateAdded); err != nil {
		return nil, err
	}
	if b.DateUpdated, err = parseTime(dateUpdated); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	b.Tags = []domain.Tag{}

	return &b, nil
}

// CreateBook inserts a new book and its tag associations.
// Returns a CONFLICT error on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Author,
		nullString(book.Description),
		nullString(book.CoverImageURL),
		nullString(book.CoverBlurhash),
		nullString(book.AudibleURL),
		nullFloat(book.NarratorRating),
		nullFloat(book.PerformanceRating),
		nullInt(book.QueuePosition),
		formatTime(book.DateAdded),
		formatTime(book.DateUpdated),
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.Conflictf("book %s already exists", book.ID)
		}
		return apperrors.Wrap(err, apperrors.CodeDatabase, "insert book")
	}

	if err := setBookTagsTx(ctx, tx, book.ID, tagIDs(book.Tags)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "commit")
	}
	return nil
}

// GetBook retrieves a book by ID, including its tags.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.BookNotFoundf("book %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "scan book")
	}

	tags, err := s.GetTagsForBook(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Tags = tags

	return b, nil
}

// ListBooks returns all books ordered by title, with tags attached.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title COLLATE NOCASE ASC`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "query books")
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "scan book")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabase, "iterate books")
	}

	if err := s.attachTags(ctx, books); err != nil {
		return nil, err
	}

	return books, nil
}

// attachTags loads all book-tag associations in one query and distributes
// them onto the given books.
func (s *Store) attachTags(ctx context.Context, books []*domain.Book) error {
	if len(books) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bt.book_id, t.id, t.name, t.color, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM book_tags b2 WHERE b2.tag_id = t.id)
		FROM book_tags bt
		JOIN tags t ON t.id = bt.tag_id
		ORDER BY t.name COLLATE NOCASE ASC`)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "query book tags")
	}
	defer rows.Close()

	byBook := make(map[string][]domain.Tag)
	for rows.Next() {
		var bookID string
		t, err := scanTagWith(rows, &bookID)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabase, "scan book tag")
		}
		byBook[bookID] = append(byBook[bookID], *t)
	}
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "iterate book tags")
	}

	for _, b := range books {
		if tags, ok := byBook[b.ID]; ok {
			b.Tags = tags
		}
	}
	return nil
}

// UpdateBook rewrites a book row and replaces its tag associations.
// Created timestamps are never touched.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "begin tx")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET
			title = ?, author = ?, description = ?, cover_image_url = ?,
			cover_blurhash = ?, audible_url = ?, narrator_rating = ?,
			performance_rating = ?, queue_position = ?, date_updated = ?, updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.Author,
		nullString(book.Description),
		nullString(book.CoverImageURL),
		nullString(book.CoverBlurhash),
		nullString(book.AudibleURL),
		nullFloat(book.NarratorRating),
		nullFloat(book.PerformanceRating),
		nullInt(book.QueuePosition),
		formatTime(book.DateUpdated),
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "update book")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "rows affected")
	}
	if affected == 0 {
		return apperrors.BookNotFoundf("book %s not found", book.ID)
	}

	if err := setBookTagsTx(ctx, tx, book.ID, tagIDs(book.Tags)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "commit")
	}
	return nil
}

// DeleteBook removes a book. Join rows cascade via foreign keys.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "delete book")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabase, "rows affected")
	}
	if affected == 0 {
		return apperrors.BookNotFoundf("book %s not found", id)
	}
	return nil
}

func tagIDs(tags []domain.Tag) []string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
