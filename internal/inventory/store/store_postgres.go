package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"libnet/internal/inventory/models"
	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
	txcontext "libnet/pkg/platform/tx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresStore persists inventory records in PostgreSQL. All queries are
// parameterized; identifiers are never formatted into query text.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execer returns the ambient transaction when one is present in context, so
// the circulation engine can span copy and loan writes in one transaction.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) CreateLibrary(ctx context.Context, library *models.Library) error {
	query := `
		INSERT INTO libraries (id, name, city, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(library.ID), library.Name, library.City, library.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert library: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetLibrary(ctx context.Context, id domain.LibraryID) (*models.Library, error) {
	query := `SELECT id, name, city, created_at FROM libraries WHERE id = $1`
	var library models.Library
	var rawID uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&rawID, &library.Name, &library.City, &library.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query library: %w", err)
	}
	library.ID = domain.LibraryID(rawID)
	return &library, nil
}

func (s *PostgresStore) ListLibraries(ctx context.Context) ([]*models.Library, error) {
	query := `SELECT id, name, city, created_at FROM libraries ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query libraries: %w", err)
	}
	defer rows.Close()

	var out []*models.Library
	for rows.Next() {
		var library models.Library
		var rawID uuid.UUID
		if err := rows.Scan(&rawID, &library.Name, &library.City, &library.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan library: %w", err)
		}
		library.ID = domain.LibraryID(rawID)
		out = append(out, &library)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate libraries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateTitle(ctx context.Context, title *models.Title) error {
	query := `
		INSERT INTO titles (id, title, author, category, isbn, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(title.ID), title.Title, title.Author, title.Category, title.ISBN, title.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert title: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTitle(ctx context.Context, id domain.TitleID) (*models.Title, error) {
	query := `SELECT id, title, author, category, isbn, created_at FROM titles WHERE id = $1`
	var title models.Title
	var rawID uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&rawID, &title.Title, &title.Author, &title.Category, &title.ISBN, &title.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query title: %w", err)
	}
	title.ID = domain.TitleID(rawID)
	return &title, nil
}

func (s *PostgresStore) ListTitles(ctx context.Context) ([]*models.Title, error) {
	query := `SELECT id, title, author, category, isbn, created_at FROM titles ORDER BY title`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var out []*models.Title
	for rows.Next() {
		var title models.Title
		var rawID uuid.UUID
		if err := rows.Scan(&rawID, &title.Title, &title.Author, &title.Category, &title.ISBN, &title.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		title.ID = domain.TitleID(rawID)
		out = append(out, &title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CreateCopy(ctx context.Context, c *models.Copy) error {
	query := `
		INSERT INTO copies (id, title_id, library_id, code, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID), uuid.UUID(c.TitleID), uuid.UUID(c.LibraryID), c.Code, c.Status.String(), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert copy: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCopy(ctx context.Context, id domain.CopyID) (*models.Copy, error) {
	query := `SELECT id, title_id, library_id, code, status, created_at FROM copies WHERE id = $1`
	return s.scanCopy(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *PostgresStore) scanCopy(row *sql.Row) (*models.Copy, error) {
	var c models.Copy
	var rawID, rawTitleID, rawLibraryID uuid.UUID
	var status string
	err := row.Scan(&rawID, &rawTitleID, &rawLibraryID, &c.Code, &status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query copy: %w", err)
	}
	parsed, err := domain.ParseCopyStatus(status)
	if err != nil {
		return nil, fmt.Errorf("copy %s: %w", rawID, err)
	}
	c.ID = domain.CopyID(rawID)
	c.TitleID = domain.TitleID(rawTitleID)
	c.LibraryID = domain.LibraryID(rawLibraryID)
	c.Status = parsed
	return &c, nil
}

func (s *PostgresStore) ListCopiesByLibrary(ctx context.Context, libraryID domain.LibraryID) ([]*models.Copy, error) {
	query := `
		SELECT id, title_id, library_id, code, status, created_at
		FROM copies WHERE library_id = $1 ORDER BY code
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(libraryID))
	if err != nil {
		return nil, fmt.Errorf("query copies: %w", err)
	}
	defer rows.Close()

	var out []*models.Copy
	for rows.Next() {
		var c models.Copy
		var rawID, rawTitleID, rawLibraryID uuid.UUID
		var status string
		if err := rows.Scan(&rawID, &rawTitleID, &rawLibraryID, &c.Code, &status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan copy: %w", err)
		}
		parsed, err := domain.ParseCopyStatus(status)
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", rawID, err)
		}
		c.ID = domain.CopyID(rawID)
		c.TitleID = domain.TitleID(rawTitleID)
		c.LibraryID = domain.LibraryID(rawLibraryID)
		c.Status = parsed
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate copies: %w", err)
	}
	return out, nil
}

// UpdateCopyStatus performs the compare-and-set through a conditional
// UPDATE. Zero affected rows means either the copy is gone or another
// writer got there first; the follow-up read tells the two apart.
func (s *PostgresStore) UpdateCopyStatus(ctx context.Context, id domain.CopyID, from, to domain.CopyStatus) error {
	query := `UPDATE copies SET status = $3 WHERE id = $1 AND status = $2`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(id), from.String(), to.String())
	if err != nil {
		return fmt.Errorf("update copy status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update copy status: %w", err)
	}
	if affected == 1 {
		return nil
	}
	if _, err := s.GetCopy(ctx, id); errors.Is(err, sentinel.ErrNotFound) {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) ListAvailable(ctx context.Context, libraryID domain.LibraryID) ([]models.AvailableCopy, error) {
	query := `
		SELECT c.id, t.title, t.author, c.code
		FROM copies c
		JOIN titles t ON t.id = c.title_id
		WHERE c.library_id = $1 AND c.status = $2
		ORDER BY t.title, c.code
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(libraryID), domain.CopyAvailable.String())
	if err != nil {
		return nil, fmt.Errorf("query available copies: %w", err)
	}
	defer rows.Close()

	var out []models.AvailableCopy
	for rows.Next() {
		var ac models.AvailableCopy
		var rawID uuid.UUID
		if err := rows.Scan(&rawID, &ac.Title, &ac.Author, &ac.Code); err != nil {
			return nil, fmt.Errorf("scan available copy: %w", err)
		}
		ac.CopyID = domain.CopyID(rawID)
		out = append(out, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate available copies: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SearchTitles(ctx context.Context, substring string) ([]models.SearchResult, error) {
	// The pattern is built as a bind parameter, never spliced into the
	// query text; % and _ in user input are escaped so they match
	// literally.
	query := `
		SELECT t.title, t.author, t.category, l.name, c.status
		FROM copies c
		JOIN titles t ON t.id = c.title_id
		JOIN libraries l ON l.id = c.library_id
		WHERE t.title ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY t.title, l.name
	`
	rows, err := s.db.QueryContext(ctx, query, escapeLikePattern(substring))
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	defer rows.Close()

	var out []models.SearchResult
	for rows.Next() {
		var sr models.SearchResult
		var status string
		if err := rows.Scan(&sr.Title, &sr.Author, &sr.Category, &sr.Library, &status); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		parsed, err := domain.ParseCopyStatus(status)
		if err != nil {
			return nil, err
		}
		sr.Status = parsed
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string { return likeEscaper.Replace(s) }

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
