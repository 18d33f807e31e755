package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"libnet/internal/circulation/models"
	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
)

// InMemoryStore keeps loans in a mutex-guarded map and leans on the copy
// store's compare-and-set for the status flip: the CAS decides checkout
// races, the loan map just records the winner.
type InMemoryStore struct {
	copies CopyStore

	mu    sync.RWMutex
	loans map[domain.LoanID]*models.Loan
}

func NewInMemoryStore(copies CopyStore) *InMemoryStore {
	return &InMemoryStore{
		copies: copies,
		loans:  make(map[domain.LoanID]*models.Loan),
	}
}

func (s *InMemoryStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	// Claim the copy first. Only the claimer inserts a loan, so losing the
	// CAS is the whole conflict story.
	err := s.copies.UpdateCopyStatus(ctx, loan.CopyID, domain.CopyAvailable, domain.CopyOnLoan)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return sentinel.ErrNotAvailable
		}
		return fmt.Errorf("claim copy: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *loan
	s.loans[loan.ID] = &cp
	return nil
}

func (s *InMemoryStore) CloseLoan(ctx context.Context, id domain.LoanID, returnedAt time.Time) (*models.Loan, error) {
	s.mu.Lock()
	loan, ok := s.loans[id]
	if !ok {
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	if loan.Status != domain.LoanOpen {
		s.mu.Unlock()
		return nil, sentinel.ErrAlreadyReturned
	}
	ret := returnedAt
	loan.Status = domain.LoanReturned
	loan.ReturnDate = &ret
	cp := *loan
	s.mu.Unlock()

	// Close before release: while the copy is still ON_LOAN a concurrent
	// checkout keeps losing its CAS, so a copy never carries two open loans.
	if err := s.copies.UpdateCopyStatus(ctx, loan.CopyID, domain.CopyOnLoan, domain.CopyAvailable); err != nil {
		return nil, fmt.Errorf("release copy: %w", err)
	}
	return &cp, nil
}

func (s *InMemoryStore) GetLoan(_ context.Context, id domain.LoanID) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loan, ok := s.loans[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *loan
	return &cp, nil
}

func (s *InMemoryStore) ListOpenByReader(_ context.Context, readerID domain.ReaderID) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Loan
	for _, loan := range s.loans {
		if loan.ReaderID == readerID && loan.Status == domain.LoanOpen {
			cp := *loan
			out = append(out, &cp)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func (s *InMemoryStore) ListOpenByLibrary(_ context.Context, libraryID domain.LibraryID) ([]*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Loan
	for _, loan := range s.loans {
		if loan.LibraryID == libraryID && loan.Status == domain.LoanOpen {
			cp := *loan
			out = append(out, &cp)
		}
	}
	sortByDueDate(out)
	return out, nil
}

func sortByDueDate(loans []*models.Loan) {
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].DueDate.Equal(loans[j].DueDate) {
			return loans[i].DueDate.Before(loans[j].DueDate)
		}
		return loans[i].ID.String() < loans[j].ID.String()
	})
}
