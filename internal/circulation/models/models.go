// Package models holds the loan records produced by the circulation engine.
package models

import (
	"time"

	"libnet/pkg/domain"
)

// Loan records one lending of one copy to one reader. LibraryID is denormalized
// from the copy at checkout time so loan listings never need a copy lookup for
// scoping.
type Loan struct {
	ID         domain.LoanID
	ReaderID   domain.ReaderID
	CopyID     domain.CopyID
	LibraryID  domain.LibraryID
	LoanDate   time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     domain.LoanStatus
}

// Overdue reports whether the loan is open past its due date as of now.
// Overdue is derived, never stored; a returned loan is never overdue.
func (l *Loan) Overdue(now time.Time) bool {
	return l.Status == domain.LoanOpen && now.After(l.DueDate)
}

// CheckoutResult is what the desk gets back from a successful checkout.
type CheckoutResult struct {
	LoanID  domain.LoanID
	CopyID  domain.CopyID
	DueDate time.Time
}

// OpenLoan is one row of the desk's open-loan listing, joined with the
// reader and copy details the desk needs to chase a book.
type OpenLoan struct {
	LoanID     domain.LoanID
	ReaderID   domain.ReaderID
	ReaderName string
	Title      string
	CopyCode   string
	LoanDate   time.Time
	DueDate    time.Time
	Overdue    bool
}
