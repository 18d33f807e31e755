package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in the store
// - ErrNotAvailable: copy is not AVAILABLE at the moment of the write
// - ErrAlreadyReturned: loan was already closed by an earlier return
// - ErrConflict: a compare-and-set observed a different state than expected
// - ErrDuplicate: a uniqueness constraint was violated (copy code, email)
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound        = errors.New("not found")
	ErrNotAvailable    = errors.New("not available")
	ErrAlreadyReturned = errors.New("already returned")
	ErrConflict        = errors.New("conflict")
	ErrDuplicate       = errors.New("duplicate")
)
