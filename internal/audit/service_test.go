package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
	"libnet/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordAndListRecent(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, discardLogger())
	actor := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}
	ctx := context.Background()

	svc.Record(ctx, actor, ActionCreateLibrary, "library:1", "Central")
	svc.Record(ctx, actor, ActionCheckout, "loan:1", "copy C-001")

	entries, err := svc.ListRecent(ctx, actor, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, ActionCheckout, entries[0].Action)
	assert.Equal(t, ActionCreateLibrary, entries[1].Action)
}

func TestRecordUsesRequestClock(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, discardLogger())
	actor := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}

	at := requestcontext.Now(context.Background()).Truncate(0)
	ctx := requestcontext.WithTime(context.Background(), at)
	svc.Record(ctx, actor, ActionReturn, "loan:1", "")

	entries, err := svc.ListRecent(ctx, actor, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, at, entries[0].At)
}

func TestListRecentRequiresAdmin(t *testing.T) {
	svc := NewService(NewInMemoryStore(), discardLogger())
	coordinator := domain.Actor{
		ID: domain.NewStaffID(), Role: domain.RoleLocalCoordinator,
		HomeLibraryID: domain.NewLibraryID(),
	}
	_, err := svc.ListRecent(context.Background(), coordinator, 10)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestNilServiceIsSafe(t *testing.T) {
	var svc *Service
	actor := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}
	// Must not panic.
	svc.Record(context.Background(), actor, ActionCheckout, "loan:1", "")
}
