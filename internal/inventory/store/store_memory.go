package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"libnet/internal/inventory/models"
	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
)

// InMemoryStore is the mutex-guarded map implementation. The single lock
// makes UpdateCopyStatus a true compare-and-set: no two callers can both
// observe AVAILABLE and both win.
type InMemoryStore struct {
	mu        sync.RWMutex
	libraries map[domain.LibraryID]*models.Library
	titles    map[domain.TitleID]*models.Title
	copies    map[domain.CopyID]*models.Copy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		libraries: make(map[domain.LibraryID]*models.Library),
		titles:    make(map[domain.TitleID]*models.Title),
		copies:    make(map[domain.CopyID]*models.Copy),
	}
}

func (s *InMemoryStore) CreateLibrary(_ context.Context, library *models.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *library
	s.libraries[library.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetLibrary(_ context.Context, id domain.LibraryID) (*models.Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	library, ok := s.libraries[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *library
	return &cp, nil
}

func (s *InMemoryStore) ListLibraries(_ context.Context) ([]*models.Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Library, 0, len(s.libraries))
	for _, library := range s.libraries {
		cp := *library
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) CreateTitle(_ context.Context, title *models.Title) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *title
	s.titles[title.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetTitle(_ context.Context, id domain.TitleID) (*models.Title, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	title, ok := s.titles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *title
	return &cp, nil
}

func (s *InMemoryStore) ListTitles(_ context.Context) ([]*models.Title, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Title, 0, len(s.titles))
	for _, title := range s.titles {
		cp := *title
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *InMemoryStore) CreateCopy(_ context.Context, c *models.Copy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.copies {
		if existing.LibraryID == c.LibraryID && existing.Code == c.Code {
			return sentinel.ErrDuplicate
		}
	}
	cp := *c
	s.copies[c.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetCopy(_ context.Context, id domain.CopyID) (*models.Copy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.copies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) ListCopiesByLibrary(_ context.Context, libraryID domain.LibraryID) ([]*models.Copy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Copy
	for _, c := range s.copies {
		if c.LibraryID == libraryID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *InMemoryStore) UpdateCopyStatus(_ context.Context, id domain.CopyID, from, to domain.CopyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.copies[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if c.Status != from {
		return sentinel.ErrConflict
	}
	c.Status = to
	return nil
}

func (s *InMemoryStore) ListAvailable(_ context.Context, libraryID domain.LibraryID) ([]models.AvailableCopy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AvailableCopy
	for _, c := range s.copies {
		if c.LibraryID != libraryID || c.Status != domain.CopyAvailable {
			continue
		}
		title := s.titles[c.TitleID]
		if title == nil {
			continue
		}
		out = append(out, models.AvailableCopy{
			CopyID: c.ID,
			Title:  title.Title,
			Author: title.Author,
			Code:   c.Code,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (s *InMemoryStore) SearchTitles(_ context.Context, substring string) ([]models.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(substring)
	var out []models.SearchResult
	for _, c := range s.copies {
		title := s.titles[c.TitleID]
		library := s.libraries[c.LibraryID]
		if title == nil || library == nil {
			continue
		}
		if !strings.Contains(strings.ToLower(title.Title), needle) {
			continue
		}
		out = append(out, models.SearchResult{
			Title:    title.Title,
			Author:   title.Author,
			Category: title.Category,
			Library:  library.Name,
			Status:   c.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Library < out[j].Library
	})
	return out, nil
}
