// Package readers manages the network's reader registry. Readers are
// network-global records (email unique across all libraries) with a home
// library link; the home-library rule is enforced by the circulation engine
// at checkout time.
package readers

import (
	"time"

	"libnet/pkg/domain"
)

// Reader is a registered borrower.
type Reader struct {
	ID   domain.ReaderID
	Name string
	// Email doubles as the network-wide unique contact.
	Email         string
	HomeLibraryID domain.LibraryID
	Active        bool
	CreatedAt     time.Time
}
