// Package store persists loans. Its writes are the only place copy status
// changes, and each write couples the loan mutation and the status flip so
// that an ON_LOAN copy always has exactly one OPEN loan.
package store

import (
	"context"
	"time"

	"libnet/internal/circulation/models"
	invmodels "libnet/internal/inventory/models"
	"libnet/pkg/domain"
)

// CopyStore is the slice of the inventory store the circulation engine
// drives. The inventory Store satisfies it.
type CopyStore interface {
	GetCopy(ctx context.Context, id domain.CopyID) (*invmodels.Copy, error)
	UpdateCopyStatus(ctx context.Context, id domain.CopyID, from, to domain.CopyStatus) error
}

// Store persists loans atomically with the paired copy-status change.
type Store interface {
	// CreateLoan flips the copy AVAILABLE -> ON_LOAN and records the loan
	// as one atomic step. It fails with sentinel.ErrNotFound when the copy
	// does not exist and sentinel.ErrNotAvailable when the copy is not
	// AVAILABLE at the instant of the write, which is how exactly one of N
	// concurrent checkouts of the same copy wins.
	CreateLoan(ctx context.Context, loan *models.Loan) error

	// CloseLoan marks an OPEN loan RETURNED at returnedAt and flips the
	// copy ON_LOAN -> AVAILABLE, atomically. A second return of the same
	// loan fails with sentinel.ErrAlreadyReturned and changes nothing.
	CloseLoan(ctx context.Context, id domain.LoanID, returnedAt time.Time) (*models.Loan, error)

	GetLoan(ctx context.Context, id domain.LoanID) (*models.Loan, error)
	ListOpenByReader(ctx context.Context, readerID domain.ReaderID) ([]*models.Loan, error)
	ListOpenByLibrary(ctx context.Context, libraryID domain.LibraryID) ([]*models.Loan, error)
}
