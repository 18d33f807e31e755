// Package service implements catalog and inventory management plus the
// read-only inventory projections. Copy status is out of bounds here: only
// the circulation engine writes it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"libnet/internal/audit"
	"libnet/internal/inventory/models"
	"libnet/internal/inventory/store"
	"libnet/internal/policy"
	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/sentinel"
	"libnet/pkg/requestcontext"
)

type Service struct {
	store  store.Store
	audit  *audit.Service
	logger *slog.Logger
}

func NewService(store store.Store, auditSvc *audit.Service, logger *slog.Logger) *Service {
	return &Service{store: store, audit: auditSvc, logger: logger}
}

// CreateLibrary registers a new library in the network. Admin only.
func (s *Service) CreateLibrary(ctx context.Context, actor domain.Actor, name, city string) (*models.Library, error) {
	if err := policy.Authorize(actor, policy.OpManageLibraries, domain.LibraryID{}); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "library name is required")
	}

	library := &models.Library{
		ID:        domain.NewLibraryID(),
		Name:      name,
		City:      strings.TrimSpace(city),
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateLibrary(ctx, library); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create library")
	}
	s.audit.Record(ctx, actor, audit.ActionCreateLibrary, "library:"+library.ID.String(), name)
	return library, nil
}

// GetLibrary resolves one library.
func (s *Service) GetLibrary(ctx context.Context, id domain.LibraryID) (*models.Library, error) {
	library, err := s.store.GetLibrary(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "library not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load library")
	}
	return library, nil
}

// ListLibraries lists the network's libraries. Public: the catalog search
// page shows them without authentication.
func (s *Service) ListLibraries(ctx context.Context) ([]*models.Library, error) {
	libraries, err := s.store.ListLibraries(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list libraries")
	}
	return libraries, nil
}

// CreateTitle adds a work to the shared catalog. Admin only.
func (s *Service) CreateTitle(ctx context.Context, actor domain.Actor, title, author, category, isbn string) (*models.Title, error) {
	if err := policy.Authorize(actor, policy.OpManageCatalog, domain.LibraryID{}); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title and author are required")
	}

	t := &models.Title{
		ID:        domain.NewTitleID(),
		Title:     title,
		Author:    author,
		Category:  strings.TrimSpace(category),
		ISBN:      strings.TrimSpace(isbn),
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateTitle(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create title")
	}
	s.audit.Record(ctx, actor, audit.ActionCreateTitle, "title:"+t.ID.String(), title)
	return t, nil
}

// ListTitles lists the shared catalog.
func (s *Service) ListTitles(ctx context.Context) ([]*models.Title, error) {
	titles, err := s.store.ListTitles(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list titles")
	}
	return titles, nil
}

// AddCopy registers a physical copy of a cataloged title at a library.
// Coordinator of that library only. Both references must resolve, and the
// copy code must be unused within the library.
func (s *Service) AddCopy(ctx context.Context, actor domain.Actor, libraryID domain.LibraryID, titleID domain.TitleID, code string) (*models.Copy, error) {
	if err := policy.Authorize(actor, policy.OpManageInventory, libraryID); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "copy code is required")
	}
	if _, err := s.GetLibrary(ctx, libraryID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTitle(ctx, titleID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "title not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load title")
	}

	c := &models.Copy{
		ID:        domain.NewCopyID(),
		TitleID:   titleID,
		LibraryID: libraryID,
		Code:      code,
		Status:    domain.CopyAvailable,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.CreateCopy(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeValidation, "a copy with this code already exists at this library")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add copy")
	}
	s.audit.Record(ctx, actor, audit.ActionAddCopy, "copy:"+c.ID.String(), code)
	return c, nil
}

// ListCopies lists a library's copies for its staff.
func (s *Service) ListCopies(ctx context.Context, actor domain.Actor, libraryID domain.LibraryID) ([]*models.Copy, error) {
	if err := policy.Authorize(actor, policy.OpViewInventory, libraryID); err != nil {
		return nil, err
	}
	copies, err := s.store.ListCopiesByLibrary(ctx, libraryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list copies")
	}
	return copies, nil
}

// ListAvailableCopies is the desk view of what can be lent right now. It
// reads the store at the instant of the query; there is no cache to go
// stale, because checkout correctness depends on this view.
func (s *Service) ListAvailableCopies(ctx context.Context, actor domain.Actor, libraryID domain.LibraryID) ([]models.AvailableCopy, error) {
	if err := policy.Authorize(actor, policy.OpViewInventory, libraryID); err != nil {
		return nil, err
	}
	available, err := s.store.ListAvailable(ctx, libraryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list available copies")
	}
	return available, nil
}

// SearchTitles is the public catalog search: case-insensitive substring
// match on title text, one row per copy in the network. No authentication.
func (s *Service) SearchTitles(ctx context.Context, substring string) ([]models.SearchResult, error) {
	substring = strings.TrimSpace(substring)
	if substring == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "search term is required")
	}
	results, err := s.store.SearchTitles(ctx, substring)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search failed")
	}
	return results, nil
}
