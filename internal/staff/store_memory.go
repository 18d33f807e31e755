package staff

import (
	"context"
	"strings"
	"sync"

	"libnet/pkg/domain"
	"libnet/pkg/platform/sentinel"
)

// Store persists staff accounts.
type Store interface {
	// Create fails with sentinel.ErrDuplicate when the email is taken.
	Create(ctx context.Context, account *Staff) error
	Get(ctx context.Context, id domain.StaffID) (*Staff, error)
	GetByEmail(ctx context.Context, email string) (*Staff, error)
}

// InMemoryStore is the mutex-guarded map implementation.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[domain.StaffID]*Staff
	byEmail  map[string]domain.StaffID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[domain.StaffID]*Staff),
		byEmail:  make(map[string]domain.StaffID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, account *Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(account.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrDuplicate
	}
	cp := *account
	s.accounts[account.ID] = &cp
	s.byEmail[key] = account.ID
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id domain.StaffID) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *InMemoryStore) GetByEmail(_ context.Context, email string) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}
