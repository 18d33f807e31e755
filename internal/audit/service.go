package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"libnet/internal/policy"
	"libnet/pkg/domain"
	"libnet/pkg/requestcontext"
)

// Service records actions and serves the admin audit view. A nil *Service is
// safe to call, so tests and trimmed-down deployments can leave audit out.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record appends one entry. Audit failures are logged, never propagated: a
// checkout must not fail because the audit insert did.
func (s *Service) Record(ctx context.Context, actor domain.Actor, action, entity, detail string) {
	if s == nil {
		return
	}
	entry := Entry{
		ID:      uuid.New(),
		ActorID: actor.ID,
		Action:  action,
		Entity:  entity,
		Detail:  detail,
		At:      requestcontext.Now(ctx),
	}
	if err := s.store.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "audit append failed",
			"action", action,
			"entity", entity,
			"error", err.Error(),
		)
	}
}

// ListRecent returns the newest entries, admin only.
func (s *Service) ListRecent(ctx context.Context, actor domain.Actor, limit int) ([]Entry, error) {
	if err := policy.Authorize(actor, policy.OpViewAudit, domain.LibraryID{}); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.store.ListRecent(ctx, limit)
}
