package domain

import dErrors "libnet/pkg/domain-errors"

// CopyStatus is the circulation state of one physical copy.
// Invariant: a copy is ON_LOAN iff exactly one OPEN loan references it.
type CopyStatus string

const (
	CopyAvailable CopyStatus = "AVAILABLE"
	CopyOnLoan    CopyStatus = "ON_LOAN"
)

var validCopyStatuses = map[CopyStatus]bool{
	CopyAvailable: true,
	CopyOnLoan:    true,
}

// ParseCopyStatus constructs a CopyStatus from external input (DB rows,
// requests). Direct casting bypasses validation.
func ParseCopyStatus(s string) (CopyStatus, error) {
	st := CopyStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid copy status: "+s)
	}
	return st, nil
}

func (s CopyStatus) IsValid() bool { return validCopyStatuses[s] }

func (s CopyStatus) String() string { return string(s) }

// LoanStatus is the lifecycle state of a loan record.
type LoanStatus string

const (
	LoanOpen     LoanStatus = "OPEN"
	LoanReturned LoanStatus = "RETURNED"
)

var validLoanStatuses = map[LoanStatus]bool{
	LoanOpen:     true,
	LoanReturned: true,
}

// ParseLoanStatus constructs a LoanStatus from external input.
func ParseLoanStatus(s string) (LoanStatus, error) {
	st := LoanStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid loan status: "+s)
	}
	return st, nil
}

func (s LoanStatus) IsValid() bool { return validLoanStatuses[s] }

func (s LoanStatus) String() string { return string(s) }
