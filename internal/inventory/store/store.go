// Package store persists inventory records. Two implementations share one
// interface: an in-memory store for tests and single-process deployments,
// and a PostgreSQL store for production. Both report infrastructure facts as
// sentinel errors; services translate them into coded domain errors.
package store

import (
	"context"

	"libnet/internal/inventory/models"
	"libnet/pkg/domain"
)

// Store is durable key-addressed storage for libraries, titles and copies.
type Store interface {
	CreateLibrary(ctx context.Context, library *models.Library) error
	GetLibrary(ctx context.Context, id domain.LibraryID) (*models.Library, error)
	ListLibraries(ctx context.Context) ([]*models.Library, error)

	CreateTitle(ctx context.Context, title *models.Title) error
	GetTitle(ctx context.Context, id domain.TitleID) (*models.Title, error)
	ListTitles(ctx context.Context) ([]*models.Title, error)

	// CreateCopy enforces code uniqueness within the owning library
	// (sentinel.ErrDuplicate). Referential integrity of the title and
	// library references is checked by the service before the write and
	// by foreign keys in the PostgreSQL store.
	CreateCopy(ctx context.Context, c *models.Copy) error
	GetCopy(ctx context.Context, id domain.CopyID) (*models.Copy, error)
	ListCopiesByLibrary(ctx context.Context, libraryID domain.LibraryID) ([]*models.Copy, error)

	// UpdateCopyStatus is an atomic compare-and-set on a copy's status,
	// used only by the circulation engine. It fails with
	// sentinel.ErrConflict when the observed status differs from `from`,
	// which is how a losing concurrent checkout learns it lost.
	UpdateCopyStatus(ctx context.Context, id domain.CopyID, from, to domain.CopyStatus) error

	// ListAvailable returns the lendable copies of one library, ordered
	// by title then code.
	ListAvailable(ctx context.Context, libraryID domain.LibraryID) ([]models.AvailableCopy, error)

	// SearchTitles matches the title text case-insensitively against the
	// substring and returns one row per copy in the network.
	SearchTitles(ctx context.Context, substring string) ([]models.SearchResult, error)
}
