package memory

import (
	"context"
	"sync"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/storage"
)

// CriteriaStore is an in-memory implementation of storage.CriteriaStore.
// Used by tests and when running with -use-memory.
type CriteriaStore struct {
	mu   sync.RWMutex
	data map[string]domain.FilterCriteria // keyed by user ID
}

// NewCriteriaStore creates a new in-memory criteria store.
func NewCriteriaStore() *CriteriaStore {
	return &CriteriaStore{
		data: make(map[string]domain.FilterCriteria),
	}
}

// Compile-time interface check.
var _ storage.CriteriaStore = (*CriteriaStore)(nil)

// Get retrieves the criteria for a user. Returns ErrNotFound if absent.
func (s *CriteriaStore) Get(_ context.Context, userID string) (domain.FilterCriteria, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[userID]
	if !ok {
		return domain.FilterCriteria{}, storage.ErrNotFound
	}
	return c, nil
}

// Set stores the criteria for a user, overwriting any previous record.
func (s *CriteriaStore) Set(_ context.Context, userID string, c domain.FilterCriteria) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[userID] = c
	return nil
}
