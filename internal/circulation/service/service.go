// Package service implements the circulation engine: checkout and return,
// the eligibility rules around them, and the open-loan views. All status
// transitions for copies and loans funnel through here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"libnet/internal/audit"
	"libnet/internal/circulation/metrics"
	"libnet/internal/circulation/models"
	"libnet/internal/circulation/store"
	invstore "libnet/internal/inventory/store"
	"libnet/internal/policy"
	"libnet/internal/readers"
	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/sentinel"
	"libnet/pkg/requestcontext"
)

type Service struct {
	loans     store.Store
	inventory invstore.Store
	readers   readers.Store
	audit     *audit.Service
	metrics   *metrics.Metrics
	logger    *slog.Logger

	loanPeriod   time.Duration
	maxOpenLoans int
}

func NewService(
	loans store.Store,
	inventory invstore.Store,
	readerStore readers.Store,
	auditSvc *audit.Service,
	m *metrics.Metrics,
	logger *slog.Logger,
	loanPeriod time.Duration,
	maxOpenLoans int,
) *Service {
	return &Service{
		loans:        loans,
		inventory:    inventory,
		readers:      readerStore,
		audit:        auditSvc,
		metrics:      m,
		logger:       logger,
		loanPeriod:   loanPeriod,
		maxOpenLoans: maxOpenLoans,
	}
}

// Checkout lends a copy to a reader. The caller must be a coordinator of the
// copy's library; the reader must be active, borrowing at their home library,
// under the open-loan limit, and free of overdue loans. Of concurrent
// checkouts of the same copy exactly one succeeds; the rest get a conflict.
func (s *Service) Checkout(ctx context.Context, actor domain.Actor, readerID domain.ReaderID, copyID domain.CopyID) (*models.CheckoutResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("checkout", time.Since(start)) }()

	c, err := s.inventory.GetCopy(ctx, copyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.Checkout(metrics.OutcomeNotFound)
			return nil, dErrors.New(dErrors.CodeNotFound, "copy not found")
		}
		s.metrics.Checkout(metrics.OutcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load copy")
	}

	if err := policy.Authorize(actor, policy.OpCheckout, c.LibraryID); err != nil {
		s.metrics.Checkout(metrics.OutcomeForbidden)
		return nil, err
	}

	reader, err := s.readers.Get(ctx, readerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.Checkout(metrics.OutcomeNotFound)
			return nil, dErrors.New(dErrors.CodeNotFound, "reader not found")
		}
		s.metrics.Checkout(metrics.OutcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reader")
	}

	now := requestcontext.Now(ctx)
	if err := s.checkEligibility(ctx, reader, c.LibraryID, now); err != nil {
		s.metrics.Checkout(metrics.OutcomeNotEligible)
		return nil, err
	}

	loan := &models.Loan{
		ID:        domain.NewLoanID(),
		ReaderID:  reader.ID,
		CopyID:    c.ID,
		LibraryID: c.LibraryID,
		LoanDate:  now,
		DueDate:   now.Add(s.loanPeriod),
		Status:    domain.LoanOpen,
	}
	if err := s.loans.CreateLoan(ctx, loan); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.Checkout(metrics.OutcomeNotFound)
			return nil, dErrors.New(dErrors.CodeNotFound, "copy not found")
		case errors.Is(err, sentinel.ErrNotAvailable):
			s.metrics.Checkout(metrics.OutcomeConflict)
			return nil, dErrors.New(dErrors.CodeConflict, "copy is not available")
		default:
			s.metrics.Checkout(metrics.OutcomeError)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "checkout failed")
		}
	}

	s.metrics.Checkout(metrics.OutcomeOK)
	s.audit.Record(ctx, actor, audit.ActionCheckout, "loan:"+loan.ID.String(), "copy "+c.Code+" to reader "+reader.ID.String())
	s.logger.InfoContext(ctx, "checkout",
		"loan_id", loan.ID.String(),
		"copy_id", c.ID.String(),
		"reader_id", reader.ID.String(),
		"due_date", loan.DueDate,
	)
	return &models.CheckoutResult{LoanID: loan.ID, CopyID: c.ID, DueDate: loan.DueDate}, nil
}

// checkEligibility applies the reader-side checkout rules. The limit and
// overdue checks read the open loans at this instant; the copy CAS in the
// store remains the final arbiter for the copy itself.
func (s *Service) checkEligibility(ctx context.Context, reader *readers.Reader, libraryID domain.LibraryID, now time.Time) error {
	if !reader.Active {
		return dErrors.New(dErrors.CodeValidation, "reader is inactive")
	}
	if reader.HomeLibraryID != libraryID {
		return dErrors.New(dErrors.CodeForbidden, "reader can only borrow at their home library")
	}
	open, err := s.loans.ListOpenByReader(ctx, reader.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reader loans")
	}
	if len(open) >= s.maxOpenLoans {
		return dErrors.New(dErrors.CodeConflict, "reader has reached the open loan limit")
	}
	for _, loan := range open {
		if loan.Overdue(now) {
			return dErrors.New(dErrors.CodeConflict, "reader has an overdue loan")
		}
	}
	return nil
}

// Return closes a loan and puts its copy back in circulation. A second
// return of the same loan fails and leaves the first return's record intact.
func (s *Service) Return(ctx context.Context, actor domain.Actor, loanID domain.LoanID) (*models.Loan, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("return", time.Since(start)) }()

	loan, err := s.loans.GetLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.Return(metrics.OutcomeNotFound)
			return nil, dErrors.New(dErrors.CodeNotFound, "loan not found")
		}
		s.metrics.Return(metrics.OutcomeError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load loan")
	}

	if err := policy.Authorize(actor, policy.OpReturn, loan.LibraryID); err != nil {
		s.metrics.Return(metrics.OutcomeForbidden)
		return nil, err
	}

	closed, err := s.loans.CloseLoan(ctx, loanID, requestcontext.Now(ctx))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.Return(metrics.OutcomeNotFound)
			return nil, dErrors.New(dErrors.CodeNotFound, "loan not found")
		case errors.Is(err, sentinel.ErrAlreadyReturned):
			s.metrics.Return(metrics.OutcomeConflict)
			return nil, dErrors.New(dErrors.CodeConflict, "loan is already returned")
		default:
			s.metrics.Return(metrics.OutcomeError)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "return failed")
		}
	}

	s.metrics.Return(metrics.OutcomeOK)
	s.audit.Record(ctx, actor, audit.ActionReturn, "loan:"+closed.ID.String(), "copy "+closed.CopyID.String())
	s.logger.InfoContext(ctx, "return",
		"loan_id", closed.ID.String(),
		"copy_id", closed.CopyID.String(),
	)
	return closed, nil
}

// ListOpenLoans is the desk view of a library's open loans, joined with
// reader and title details and ordered by due date.
func (s *Service) ListOpenLoans(ctx context.Context, actor domain.Actor, libraryID domain.LibraryID) ([]models.OpenLoan, error) {
	if err := policy.Authorize(actor, policy.OpViewLoans, libraryID); err != nil {
		return nil, err
	}
	loans, err := s.loans.ListOpenByLibrary(ctx, libraryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list loans")
	}
	return s.joinLoans(ctx, loans)
}

// ListReaderLoans lists one reader's open loans for staff of the reader's
// home library.
func (s *Service) ListReaderLoans(ctx context.Context, actor domain.Actor, readerID domain.ReaderID) ([]models.OpenLoan, error) {
	reader, err := s.readers.Get(ctx, readerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "reader not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reader")
	}
	if err := policy.Authorize(actor, policy.OpViewLoans, reader.HomeLibraryID); err != nil {
		return nil, err
	}
	loans, err := s.loans.ListOpenByReader(ctx, readerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list loans")
	}
	return s.joinLoans(ctx, loans)
}

func (s *Service) joinLoans(ctx context.Context, loans []*models.Loan) ([]models.OpenLoan, error) {
	now := requestcontext.Now(ctx)
	out := make([]models.OpenLoan, 0, len(loans))
	for _, loan := range loans {
		row := models.OpenLoan{
			LoanID:   loan.ID,
			ReaderID: loan.ReaderID,
			LoanDate: loan.LoanDate,
			DueDate:  loan.DueDate,
			Overdue:  loan.Overdue(now),
		}
		reader, err := s.readers.Get(ctx, loan.ReaderID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve loan reader")
		}
		row.ReaderName = reader.Name
		c, err := s.inventory.GetCopy(ctx, loan.CopyID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve loan copy")
		}
		row.CopyCode = c.Code
		title, err := s.inventory.GetTitle(ctx, c.TitleID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve loan title")
		}
		row.Title = title.Title
		out = append(out, row)
	}
	return out, nil
}
