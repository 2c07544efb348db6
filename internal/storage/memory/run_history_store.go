package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/storage"
)

// RunHistoryStore is an in-memory implementation of storage.RunHistoryStore.
type RunHistoryStore struct {
	mu   sync.RWMutex
	runs []*domain.ScreeningRun
}

// NewRunHistoryStore creates a new in-memory run history store.
func NewRunHistoryStore() *RunHistoryStore {
	return &RunHistoryStore{}
}

// Compile-time interface check.
var _ storage.RunHistoryStore = (*RunHistoryStore)(nil)

// InsertRun records one completed screening run.
func (s *RunHistoryStore) InsertRun(_ context.Context, run *domain.ScreeningRun) error {
	if run == nil || run.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runCopy := *run
	runCopy.Qualified = append([]string(nil), run.Qualified...)
	s.runs = append(s.runs, &runCopy)
	return nil
}

// RecentRuns retrieves the most recent runs for a user, newest first.
func (s *RunHistoryStore) RecentRuns(_ context.Context, userID string, limit int) ([]*domain.ScreeningRun, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ScreeningRun
	for _, run := range s.runs {
		if run.UserID == userID {
			runCopy := *run
			result = append(result, &runCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartedAt > result[j].StartedAt
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
