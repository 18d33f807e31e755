package readers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"libnet/internal/audit"
	"libnet/internal/policy"
	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/sentinel"
	"libnet/pkg/requestcontext"
)

type Service struct {
	store  Store
	audit  *audit.Service
	logger *slog.Logger
}

func NewService(store Store, auditSvc *audit.Service, logger *slog.Logger) *Service {
	return &Service{store: store, audit: auditSvc, logger: logger}
}

// Register enrolls a new reader at the given home library. Coordinator of
// that library only. Emails are unique across the whole network, not just
// within the library.
func (s *Service) Register(ctx context.Context, actor domain.Actor, libraryID domain.LibraryID, name, email string) (*Reader, error) {
	if err := policy.Authorize(actor, policy.OpManageReaders, libraryID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "reader name and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "email is not valid")
	}

	reader := &Reader{
		ID:            domain.NewReaderID(),
		Name:          name,
		Email:         email,
		HomeLibraryID: libraryID,
		Active:        true,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, reader); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeValidation, "a reader with this email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register reader")
	}
	s.audit.Record(ctx, actor, audit.ActionRegisterReader, "reader:"+reader.ID.String(), email)
	return reader, nil
}

// Get resolves one reader for staff of the reader's home library.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id domain.ReaderID) (*Reader, error) {
	reader, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "reader not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reader")
	}
	if err := policy.Authorize(actor, policy.OpManageReaders, reader.HomeLibraryID); err != nil {
		return nil, err
	}
	return reader, nil
}

// ListByLibrary lists a library's readers for its staff.
func (s *Service) ListByLibrary(ctx context.Context, actor domain.Actor, libraryID domain.LibraryID) ([]*Reader, error) {
	if err := policy.Authorize(actor, policy.OpManageReaders, libraryID); err != nil {
		return nil, err
	}
	out, err := s.store.ListByLibrary(ctx, libraryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list readers")
	}
	return out, nil
}

// Deactivate marks a reader inactive. Inactive readers keep their open loans
// (returns still work) but cannot check out.
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, id domain.ReaderID) error {
	reader, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.SetActive(ctx, reader.ID, false); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate reader")
	}
	return nil
}
