// Package domain holds the identifier types and closed enumerations shared by
// every module. IDs are typed UUIDs so a LoanID can never be passed where a
// CopyID is expected; Parse constructors enforce validity at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "libnet/pkg/domain-errors"
)

type (
	// LibraryID identifies one physical library in the network.
	LibraryID uuid.UUID
	// TitleID identifies a catalog entry (bibliographic work).
	TitleID uuid.UUID
	// CopyID identifies one physical copy of a title at one library.
	CopyID uuid.UUID
	// ReaderID identifies a registered reader.
	ReaderID uuid.UUID
	// StaffID identifies a staff actor (admin or coordinator).
	StaffID uuid.UUID
	// LoanID identifies a loan record.
	LoanID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseLibraryID constructs a LibraryID from external input.
func ParseLibraryID(s string) (LibraryID, error) {
	u, err := parseUUID(s)
	return LibraryID(u), err
}

// ParseTitleID constructs a TitleID from external input.
func ParseTitleID(s string) (TitleID, error) {
	u, err := parseUUID(s)
	return TitleID(u), err
}

// ParseCopyID constructs a CopyID from external input.
func ParseCopyID(s string) (CopyID, error) {
	u, err := parseUUID(s)
	return CopyID(u), err
}

// ParseReaderID constructs a ReaderID from external input.
func ParseReaderID(s string) (ReaderID, error) {
	u, err := parseUUID(s)
	return ReaderID(u), err
}

// ParseStaffID constructs a StaffID from external input.
func ParseStaffID(s string) (StaffID, error) {
	u, err := parseUUID(s)
	return StaffID(u), err
}

// ParseLoanID constructs a LoanID from external input.
func ParseLoanID(s string) (LoanID, error) {
	u, err := parseUUID(s)
	return LoanID(u), err
}

// NewLibraryID returns a fresh random LibraryID.
func NewLibraryID() LibraryID { return LibraryID(uuid.New()) }

// NewTitleID returns a fresh random TitleID.
func NewTitleID() TitleID { return TitleID(uuid.New()) }

// NewCopyID returns a fresh random CopyID.
func NewCopyID() CopyID { return CopyID(uuid.New()) }

// NewReaderID returns a fresh random ReaderID.
func NewReaderID() ReaderID { return ReaderID(uuid.New()) }

// NewStaffID returns a fresh random StaffID.
func NewStaffID() StaffID { return StaffID(uuid.New()) }

// NewLoanID returns a fresh random LoanID.
func NewLoanID() LoanID { return LoanID(uuid.New()) }

func (id LibraryID) String() string { return uuid.UUID(id).String() }
func (id TitleID) String() string   { return uuid.UUID(id).String() }
func (id CopyID) String() string    { return uuid.UUID(id).String() }
func (id ReaderID) String() string  { return uuid.UUID(id).String() }
func (id StaffID) String() string   { return uuid.UUID(id).String() }
func (id LoanID) String() string    { return uuid.UUID(id).String() }

func (id LibraryID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TitleID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CopyID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ReaderID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id StaffID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id LoanID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
