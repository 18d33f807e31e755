//go:build integration

package readers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	invmodels "libnet/internal/inventory/models"
	invstore "libnet/internal/inventory/store"
	"libnet/internal/readers"
	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
	"libnet/pkg/testutil/containers"
)

type PostgresReaderStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *readers.PostgresStore
	library  domain.LibraryID
}

func TestPostgresReaderStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresReaderStoreSuite))
}

func (s *PostgresReaderStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = readers.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresReaderStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "readers", "libraries"))

	s.library = domain.NewLibraryID()
	inventory := invstore.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(inventory.CreateLibrary(ctx, &invmodels.Library{
		ID: s.library, Name: "Central", CreatedAt: time.Now().UTC(),
	}))
}

func (s *PostgresReaderStoreSuite) newReader(email string) *readers.Reader {
	return &readers.Reader{
		ID:            domain.NewReaderID(),
		Name:          "Capitu",
		Email:         email,
		HomeLibraryID: s.library,
		Active:        true,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresReaderStoreSuite) TestEmailUniqueness() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newReader("capitu@example.com")))

	// Uniqueness holds regardless of case.
	s.ErrorIs(s.store.Create(ctx, s.newReader("capitu@example.com")), sentinel.ErrDuplicate)
	s.ErrorIs(s.store.Create(ctx, s.newReader("CAPITU@example.com")), sentinel.ErrDuplicate)
}

func (s *PostgresReaderStoreSuite) TestSetActive() {
	ctx := context.Background()
	reader := s.newReader("capitu@example.com")
	s.Require().NoError(s.store.Create(ctx, reader))

	s.Require().NoError(s.store.SetActive(ctx, reader.ID, false))
	got, err := s.store.Get(ctx, reader.ID)
	s.Require().NoError(err)
	s.False(got.Active)

	s.ErrorIs(s.store.SetActive(ctx, domain.NewReaderID(), false), sentinel.ErrNotFound)
}

func (s *PostgresReaderStoreSuite) TestGetUnknown() {
	_, err := s.store.Get(context.Background(), domain.NewReaderID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
