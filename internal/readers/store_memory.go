package readers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
)

// Store persists reader records.
type Store interface {
	// Create fails with sentinel.ErrDuplicate when the email is already
	// registered anywhere in the network.
	Create(ctx context.Context, reader *Reader) error
	Get(ctx context.Context, id domain.ReaderID) (*Reader, error)
	ListByLibrary(ctx context.Context, libraryID domain.LibraryID) ([]*Reader, error)
	SetActive(ctx context.Context, id domain.ReaderID, active bool) error
}

// InMemoryStore is the mutex-guarded map implementation.
type InMemoryStore struct {
	mu      sync.RWMutex
	readers map[domain.ReaderID]*Reader
	byEmail map[string]domain.ReaderID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		readers: make(map[domain.ReaderID]*Reader),
		byEmail: make(map[string]domain.ReaderID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, reader *Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(reader.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrDuplicate
	}
	cp := *reader
	s.readers[reader.ID] = &cp
	s.byEmail[key] = reader.ID
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.ReaderID) (*Reader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reader, ok := s.readers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *reader
	return &cp, nil
}

func (s *InMemoryStore) ListByLibrary(_ context.Context, libraryID domain.LibraryID) ([]*Reader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Reader
	for _, reader := range s.readers {
		if reader.HomeLibraryID == libraryID {
			cp := *reader
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) SetActive(_ context.Context, id domain.ReaderID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reader, ok := s.readers[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	reader.Active = active
	return nil
}
