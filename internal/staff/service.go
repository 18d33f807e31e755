package staff

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"libnet/internal/audit"
	"libnet/internal/policy"
	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/platform/sentinel"
	"libnet/pkg/requestcontext"
)

const minPasswordLength = 8

type Service struct {
	store  Store
	audit  *audit.Service
	logger *slog.Logger
}

func NewService(store Store, auditSvc *audit.Service, logger *slog.Logger) *Service {
	return &Service{store: store, audit: auditSvc, logger: logger}
}

// Register creates a staff account. Admin only. Coordinators must be tied to
// a library; admins must not be.
func (s *Service) Register(ctx context.Context, actor domain.Actor, name, email, password string, role domain.Role, libraryID domain.LibraryID) (*Staff, error) {
	if err := policy.Authorize(actor, policy.OpManageStaff, domain.LibraryID{}); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "staff name and email are required")
	}
	if len(password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	switch role {
	case domain.RoleLocalCoordinator:
		if libraryID.IsNil() {
			return nil, dErrors.New(dErrors.CodeValidation, "a coordinator needs a home library")
		}
	case domain.RoleNetworkAdmin:
		if !libraryID.IsNil() {
			return nil, dErrors.New(dErrors.CodeValidation, "a network admin has no home library")
		}
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "role must be network_admin or local_coordinator")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	account := &Staff{
		ID:            domain.NewStaffID(),
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
		HomeLibraryID: libraryID,
		Active:        true,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeValidation, "a staff account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create staff account")
	}
	s.audit.Record(ctx, actor, audit.ActionRegisterStaff, "staff:"+account.ID.String(), email)
	return account, nil
}

// Authenticate checks credentials and returns the actor to mint a token for.
// All failure modes collapse into one unauthorized error so the response does
// not reveal whether the email exists.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.Actor, error) {
	account, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return domain.Actor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load staff account")
	}
	if !account.Active {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	return account.Actor(), nil
}

// Bootstrap ensures an initial network admin exists so a fresh deployment
// can log in. It is a no-op when the email is already registered.
func (s *Service) Bootstrap(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "bootstrap admin needs an email and a password of at least 8 characters")
	}
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check bootstrap admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	account := &Staff{
		ID:           domain.NewStaffID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleNetworkAdmin,
		Active:       true,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, account); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create bootstrap admin")
	}
	s.logger.InfoContext(ctx, "bootstrap admin created", "email", email)
	return nil
}
