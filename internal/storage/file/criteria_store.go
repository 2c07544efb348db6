package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/storage"
)

// CriteriaStore is a JSON-file implementation of storage.CriteriaStore.
// The whole mapping is kept in memory and rewritten on every Set, so the
// on-disk copy is always a complete, valid JSON document. This is the
// default backend: a single conditions file next to the binary.
type CriteriaStore struct {
	path string

	mu   sync.RWMutex
	data map[string]domain.FilterCriteria // keyed by user ID
}

// NewCriteriaStore opens the criteria file at path, creating it with an
// empty mapping if it does not exist.
func NewCriteriaStore(path string) (*CriteriaStore, error) {
	s := &CriteriaStore{
		path: path,
		data: make(map[string]domain.FilterCriteria),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("initialize criteria file: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read criteria file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse criteria file %s: %w", path, err)
	}
	return s, nil
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

// Set stores the criteria for a user and flushes the whole mapping to disk
// before returning.
func (s *CriteriaStore) Set(_ context.Context, userID string, c domain.FilterCriteria) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev := s.data[userID]
	s.data[userID] = c

	if err := s.flush(); err != nil {
		// Keep memory consistent with disk on a failed write.
		if hadPrev {
			s.data[userID] = prev
		} else {
			delete(s.data, userID)
		}
		return fmt.Errorf("persist criteria: %w", err)
	}
	return nil
}

// flush writes the mapping to a temp file and renames it into place, so a
// crash mid-write never leaves a truncated document. Caller holds the lock.
func (s *CriteriaStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".criteria-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace criteria file: %w", err)
	}
	return nil
}
