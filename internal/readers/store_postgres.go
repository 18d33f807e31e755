package readers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
)

// PostgresStore persists readers; the unique index on lower(email) backs the
// network-wide duplicate check.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, reader *Reader) error {
	query := `
		INSERT INTO readers (id, name, email, home_library_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(reader.ID), reader.Name, reader.Email,
		uuid.UUID(reader.HomeLibraryID), reader.Active, reader.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert reader: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.ReaderID) (*Reader, error) {
	query := `
		SELECT id, name, email, home_library_id, active, created_at
		FROM readers WHERE id = $1
	`
	var reader Reader
	var rawID, rawLibraryID uuid.UUID
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(id)).
		Scan(&rawID, &reader.Name, &reader.Email, &rawLibraryID, &reader.Active, &reader.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query reader: %w", err)
	}
	reader.ID = domain.ReaderID(rawID)
	reader.HomeLibraryID = domain.LibraryID(rawLibraryID)
	return &reader, nil
}

func (s *PostgresStore) ListByLibrary(ctx context.Context, libraryID domain.LibraryID) ([]*Reader, error) {
	query := `
		SELECT id, name, email, home_library_id, active, created_at
		FROM readers WHERE home_library_id = $1 ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(libraryID))
	if err != nil {
		return nil, fmt.Errorf("query readers: %w", err)
	}
	defer rows.Close()

	var out []*Reader
	for rows.Next() {
		var reader Reader
		var rawID, rawLibraryID uuid.UUID
		if err := rows.Scan(&rawID, &reader.Name, &reader.Email, &rawLibraryID, &reader.Active, &reader.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reader: %w", err)
		}
		reader.ID = domain.ReaderID(rawID)
		reader.HomeLibraryID = domain.LibraryID(rawLibraryID)
		out = append(out, &reader)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readers: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) SetActive(ctx context.Context, id domain.ReaderID, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE readers SET active = $2 WHERE id = $1`, uuid.UUID(id), active)
	if err != nil {
		return fmt.Errorf("update reader: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reader: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
