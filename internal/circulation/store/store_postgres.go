package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"libnet/internal/circulation/models"
	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
	txcontext "libnet/pkg/platform/tx"
)

// PostgresStore persists loans. Each write opens one transaction spanning the
// loan row and the copy-status flip; the flip itself goes through the copy
// store's compare-and-set, which picks the transaction up from context.
type PostgresStore struct {
	db     *sql.DB
	copies CopyStore
}

func NewPostgresStore(db *sql.DB, copies CopyStore) *PostgresStore {
	return &PostgresStore{db: db, copies: copies}
}

func (s *PostgresStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit
	txCtx := txcontext.WithTx(ctx, tx)

	// The CAS is the claim: under READ COMMITTED, of N concurrent checkouts
	// of one copy exactly one sees AVAILABLE.
	err = s.copies.UpdateCopyStatus(txCtx, loan.CopyID, domain.CopyAvailable, domain.CopyOnLoan)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return sentinel.ErrNotAvailable
		}
		return fmt.Errorf("claim copy: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loans (id, reader_id, copy_id, library_id, loan_date, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(loan.ID), uuid.UUID(loan.ReaderID), uuid.UUID(loan.CopyID),
		uuid.UUID(loan.LibraryID), loan.LoanDate, loan.DueDate, loan.Status.String(),
	)
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) CloseLoan(ctx context.Context, id domain.LoanID, returnedAt time.Time) (*models.Loan, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin return tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit
	txCtx := txcontext.WithTx(ctx, tx)

	row := tx.QueryRowContext(ctx, `
		UPDATE loans SET status = $2, return_date = $3
		WHERE id = $1 AND status = $4
		RETURNING id, reader_id, copy_id, library_id, loan_date, due_date, return_date, status
	`, uuid.UUID(id), domain.LoanReturned.String(), returnedAt, domain.LoanOpen.String())

	loan, err := scanLoan(row)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
		// No OPEN loan matched: either the loan is unknown or it was
		// already closed.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, uuid.UUID(id),
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check loan: %w", err)
		}
		if !exists {
			return nil, sentinel.ErrNotFound
		}
		return nil, sentinel.ErrAlreadyReturned
	}

	if err := s.copies.UpdateCopyStatus(txCtx, loan.CopyID, domain.CopyOnLoan, domain.CopyAvailable); err != nil {
		// An OPEN loan over a copy that is not ON_LOAN means the data is
		// inconsistent; roll back rather than make it worse.
		return nil, fmt.Errorf("release copy %s: %w", loan.CopyID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit return tx: %w", err)
	}
	return loan, nil
}

func (s *PostgresStore) GetLoan(ctx context.Context, id domain.LoanID) (*models.Loan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reader_id, copy_id, library_id, loan_date, due_date, return_date, status
		FROM loans WHERE id = $1
	`, uuid.UUID(id))
	return scanLoan(row)
}

func (s *PostgresStore) ListOpenByReader(ctx context.Context, readerID domain.ReaderID) ([]*models.Loan, error) {
	return s.listOpen(ctx, `reader_id`, uuid.UUID(readerID))
}

func (s *PostgresStore) ListOpenByLibrary(ctx context.Context, libraryID domain.LibraryID) ([]*models.Loan, error) {
	return s.listOpen(ctx, `library_id`, uuid.UUID(libraryID))
}

// listOpen filters on one of the fixed scope columns; column is never user
// input.
func (s *PostgresStore) listOpen(ctx context.Context, column string, arg uuid.UUID) ([]*models.Loan, error) {
	query := `
		SELECT id, reader_id, copy_id, library_id, loan_date, due_date, return_date, status
		FROM loans WHERE ` + column + ` = $1 AND status = $2
		ORDER BY due_date, id
	`
	rows, err := s.db.QueryContext(ctx, query, arg, domain.LoanOpen.String())
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var out []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var loan models.Loan
	var rawID, rawReaderID, rawCopyID, rawLibraryID uuid.UUID
	var returnDate sql.NullTime
	var status string
	err := row.Scan(&rawID, &rawReaderID, &rawCopyID, &rawLibraryID,
		&loan.LoanDate, &loan.DueDate, &returnDate, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan loan: %w", err)
	}
	parsed, err := domain.ParseLoanStatus(status)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", rawID, err)
	}
	loan.ID = domain.LoanID(rawID)
	loan.ReaderID = domain.ReaderID(rawReaderID)
	loan.CopyID = domain.CopyID(rawCopyID)
	loan.LibraryID = domain.LibraryID(rawLibraryID)
	loan.Status = parsed
	if returnDate.Valid {
		ret := returnDate.Time
		loan.ReturnDate = &ret
	}
	return &loan, nil
}
