// Package staff holds the staff accounts behind the circulation desks and
// the network admin console, and the password login that turns one into an
// actor token.
package staff

import (
	"time"

	"libnet/pkg/domain"
)

// Staff is one account. HomeLibraryID is nil for network admins.
type Staff struct {
	ID            domain.StaffID
	Name          string
	Email         string
	PasswordHash  []byte
	Role          domain.Role
	HomeLibraryID domain.LibraryID
	Active        bool
	CreatedAt     time.Time
}

// Actor projects the account into the form the policy layer consumes.
func (s *Staff) Actor() domain.Actor {
	return domain.Actor{ID: s.ID, Role: s.Role, HomeLibraryID: s.HomeLibraryID}
}
