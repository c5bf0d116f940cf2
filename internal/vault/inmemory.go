package vault

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
	custody  int64
}

// NewMemoryStore creates a concurrency-safe in-memory store. It is the
// default backend in development and the backend unit tests run against.
func NewMemoryStore() Store {
	return &memoryStore{accounts: make(map[string]Account)}
}

func (s *memoryStore) Account(_ context.Context, principal string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[principal], nil
}

func (s *memoryStore) SaveAccount(_ context.Context, principal string, acct Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[principal] = acct
	return nil
}

func (s *memoryStore) Custody(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.custody, nil
}

func (s *memoryStore) AddCustody(_ context.Context, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custody += delta
	return nil
}
