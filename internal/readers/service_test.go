package readers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
)

type ReadersServiceSuite struct {
	suite.Suite
	store       *InMemoryStore
	service     *Service
	ctx         context.Context
	library     domain.LibraryID
	coordinator domain.Actor
}

func TestReadersServiceSuite(t *testing.T) {
	suite.Run(t, new(ReadersServiceSuite))
}

func (s *ReadersServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.service = NewService(s.store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
	s.library = domain.NewLibraryID()
	s.coordinator = domain.Actor{
		ID:            domain.NewStaffID(),
		Role:          domain.RoleLocalCoordinator,
		HomeLibraryID: s.library,
	}
}

func (s *ReadersServiceSuite) TestRegister() {
	s.Run("coordinator registers a reader at home", func() {
		reader, err := s.service.Register(s.ctx, s.coordinator, s.library, "Capitu", "Capitu@Example.com")
		s.Require().NoError(err)
		s.Equal(s.library, reader.HomeLibraryID)
		s.True(reader.Active)
		// Emails are normalized to lower case.
		s.Equal("capitu@example.com", reader.Email)
	})

	s.Run("duplicate email anywhere in the network rejected", func() {
		_, err := s.service.Register(s.ctx, s.coordinator, s.library, "One", "dup@example.com")
		s.Require().NoError(err)
		_, err = s.service.Register(s.ctx, s.coordinator, s.library, "Two", "DUP@example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("coordinator may not register at another library", func() {
		_, err := s.service.Register(s.ctx, s.coordinator, domain.NewLibraryID(), "Capitu", "x@example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("network admin may not register readers", func() {
		admin := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}
		_, err := s.service.Register(s.ctx, admin, s.library, "Capitu", "y@example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("missing fields rejected", func() {
		_, err := s.service.Register(s.ctx, s.coordinator, s.library, "", "z@example.com")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.service.Register(s.ctx, s.coordinator, s.library, "Name", "not-an-email")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ReadersServiceSuite) TestGetScoping() {
	reader, err := s.service.Register(s.ctx, s.coordinator, s.library, "Capitu", "capitu@example.com")
	s.Require().NoError(err)

	got, err := s.service.Get(s.ctx, s.coordinator, reader.ID)
	s.Require().NoError(err)
	s.Equal(reader.ID, got.ID)

	foreign := domain.Actor{
		ID: domain.NewStaffID(), Role: domain.RoleLocalCoordinator,
		HomeLibraryID: domain.NewLibraryID(),
	}
	_, err = s.service.Get(s.ctx, foreign, reader.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	_, err = s.service.Get(s.ctx, s.coordinator, domain.NewReaderID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ReadersServiceSuite) TestDeactivate() {
	reader, err := s.service.Register(s.ctx, s.coordinator, s.library, "Capitu", "capitu@example.com")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Deactivate(s.ctx, s.coordinator, reader.ID))

	got, err := s.service.Get(s.ctx, s.coordinator, reader.ID)
	s.Require().NoError(err)
	s.False(got.Active)
}

func (s *ReadersServiceSuite) TestListByLibrary() {
	_, err := s.service.Register(s.ctx, s.coordinator, s.library, "Bento", "bento@example.com")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, s.coordinator, s.library, "Ana", "ana@example.com")
	s.Require().NoError(err)

	list, err := s.service.ListByLibrary(s.ctx, s.coordinator, s.library)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Ana", list[0].Name)
	s.Equal("Bento", list[1].Name)
}
