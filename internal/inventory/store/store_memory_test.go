package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"libnet/internal/inventory/models"
	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context

	library *models.Library
	title   *models.Title
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()

	s.library = &models.Library{ID: domain.NewLibraryID(), Name: "Central", City: "Lisbon", CreatedAt: time.Now()}
	s.Require().NoError(s.store.CreateLibrary(s.ctx, s.library))
	s.title = &models.Title{ID: domain.NewTitleID(), Title: "Dom Casmurro", Author: "Machado de Assis", CreatedAt: time.Now()}
	s.Require().NoError(s.store.CreateTitle(s.ctx, s.title))
}

func (s *InMemoryStoreSuite) newCopy(code string) *models.Copy {
	return &models.Copy{
		ID:        domain.NewCopyID(),
		TitleID:   s.title.ID,
		LibraryID: s.library.ID,
		Code:      code,
		Status:    domain.CopyAvailable,
		CreatedAt: time.Now(),
	}
}

func (s *InMemoryStoreSuite) TestCreateCopy() {
	s.Run("duplicate code within one library rejected", func() {
		s.Require().NoError(s.store.CreateCopy(s.ctx, s.newCopy("C-001")))
		err := s.store.CreateCopy(s.ctx, s.newCopy("C-001"))
		s.ErrorIs(err, sentinel.ErrDuplicate)
	})

	s.Run("same code at another library allowed", func() {
		other := &models.Library{ID: domain.NewLibraryID(), Name: "Branch", CreatedAt: time.Now()}
		s.Require().NoError(s.store.CreateLibrary(s.ctx, other))
		c := s.newCopy("C-001")
		c.LibraryID = other.ID
		s.NoError(s.store.CreateCopy(s.ctx, c))
	})
}

func (s *InMemoryStoreSuite) TestGetCopyReturnsDefensiveCopy() {
	c := s.newCopy("C-010")
	s.Require().NoError(s.store.CreateCopy(s.ctx, c))

	got, err := s.store.GetCopy(s.ctx, c.ID)
	s.Require().NoError(err)
	got.Status = domain.CopyOnLoan

	again, err := s.store.GetCopy(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(domain.CopyAvailable, again.Status)
}

func (s *InMemoryStoreSuite) TestUpdateCopyStatus() {
	c := s.newCopy("C-020")
	s.Require().NoError(s.store.CreateCopy(s.ctx, c))

	s.Run("matching from succeeds", func() {
		err := s.store.UpdateCopyStatus(s.ctx, c.ID, domain.CopyAvailable, domain.CopyOnLoan)
		s.Require().NoError(err)
		got, err := s.store.GetCopy(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(domain.CopyOnLoan, got.Status)
	})

	s.Run("stale from conflicts and changes nothing", func() {
		err := s.store.UpdateCopyStatus(s.ctx, c.ID, domain.CopyAvailable, domain.CopyOnLoan)
		s.ErrorIs(err, sentinel.ErrConflict)
		got, err := s.store.GetCopy(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(domain.CopyOnLoan, got.Status)
	})

	s.Run("unknown copy is not found", func() {
		err := s.store.UpdateCopyStatus(s.ctx, domain.NewCopyID(), domain.CopyAvailable, domain.CopyOnLoan)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// Many goroutines race the same compare-and-set; exactly one may win.
func (s *InMemoryStoreSuite) TestUpdateCopyStatusConcurrent() {
	c := s.newCopy("C-030")
	s.Require().NoError(s.store.CreateCopy(s.ctx, c))

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.UpdateCopyStatus(s.ctx, c.ID, domain.CopyAvailable, domain.CopyOnLoan); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	s.Len(wins, 1)
}

func (s *InMemoryStoreSuite) TestListAvailable() {
	other := &models.Title{ID: domain.NewTitleID(), Title: "A Hora da Estrela", Author: "Clarice Lispector", CreatedAt: time.Now()}
	s.Require().NoError(s.store.CreateTitle(s.ctx, other))

	onLoan := s.newCopy("C-002")
	onLoan.Status = domain.CopyOnLoan
	s.Require().NoError(s.store.CreateCopy(s.ctx, onLoan))
	s.Require().NoError(s.store.CreateCopy(s.ctx, s.newCopy("C-003")))
	first := s.newCopy("C-001")
	first.TitleID = other.ID
	s.Require().NoError(s.store.CreateCopy(s.ctx, first))

	available, err := s.store.ListAvailable(s.ctx, s.library.ID)
	s.Require().NoError(err)
	s.Require().Len(available, 2)
	// Ordered by title, then code; the ON_LOAN copy is absent.
	s.Equal("A Hora da Estrela", available[0].Title)
	s.Equal("Dom Casmurro", available[1].Title)
	s.Equal("C-003", available[1].Code)
}

func (s *InMemoryStoreSuite) TestSearchTitles() {
	s.Require().NoError(s.store.CreateCopy(s.ctx, s.newCopy("C-001")))

	s.Run("case-insensitive substring matches", func() {
		results, err := s.store.SearchTitles(s.ctx, "casmurro")
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.Equal("Dom Casmurro", results[0].Title)
		s.Equal("Central", results[0].Library)
		s.Equal(domain.CopyAvailable, results[0].Status)
	})

	s.Run("no match yields empty result", func() {
		results, err := s.store.SearchTitles(s.ctx, "quixote")
		s.Require().NoError(err)
		s.Empty(results)
	})

	s.Run("one row per copy", func() {
		s.Require().NoError(s.store.CreateCopy(s.ctx, s.newCopy("C-002")))
		results, err := s.store.SearchTitles(s.ctx, "Dom")
		s.Require().NoError(err)
		s.Len(results, 2)
	})
}
