package staff

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

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, account *Staff) error {
	query := `
		INSERT INTO staff (id, name, email, password_hash, role, home_library_id, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var libraryID any
	if !account.HomeLibraryID.IsNil() {
		libraryID = uuid.UUID(account.HomeLibraryID)
	}
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(account.ID), account.Name, account.Email, account.PasswordHash,
		account.Role.String(), libraryID, account.Active, account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.StaffID) (*Staff, error) {
	return s.getOne(ctx, `WHERE id = $1`, uuid.UUID(id))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	return s.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresStore) getOne(ctx context.Context, where string, arg any) (*Staff, error) {
	query := `
		SELECT id, name, email, password_hash, role, home_library_id, active, created_at
		FROM staff ` + where
	var account Staff
	var rawID uuid.UUID
	var rawLibraryID uuid.NullUUID
	var rawRole string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&rawID, &account.Name, &account.Email, &account.PasswordHash,
		&rawRole, &rawLibraryID, &account.Active, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("query staff: %w", err)
	}
	account.ID = domain.StaffID(rawID)
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("staff %s: %w", rawID, err)
	}
	account.Role = role
	if rawLibraryID.Valid {
		account.HomeLibraryID = domain.LibraryID(rawLibraryID.UUID)
	}
	return &account, nil
}
