package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/storage"
)

func TestRunHistoryStore_InsertAndRecent(t *testing.T) {
	store := NewRunHistoryStore()
	ctx := context.Background()

	runs, err := store.RecentRuns(ctx, "42", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	for i, started := range []int64{1000, 3000, 2000} {
		require.NoError(t, store.InsertRun(ctx, &domain.ScreeningRun{
			UserID:    "42",
			ChatID:    "100",
			StartedAt: started,
			Submitted: i + 1,
			Batches:   1,
			Qualified: []string{"wallet-a"},
		}))
	}
	require.NoError(t, store.InsertRun(ctx, &domain.ScreeningRun{
		UserID:    "other",
		StartedAt: 9000,
	}))

	runs, err = store.RecentRuns(ctx, "42", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Newest first, only the requested user's runs.
	assert.Equal(t, int64(3000), runs[0].StartedAt)
	assert.Equal(t, int64(2000), runs[1].StartedAt)
	assert.Equal(t, int64(1000), runs[2].StartedAt)
}

func TestRunHistoryStore_Limit(t *testing.T) {
	store := NewRunHistoryStore()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, store.InsertRun(ctx, &domain.ScreeningRun{
			UserID:    "42",
			StartedAt: i * 1000,
		}))
	}

	runs, err := store.RecentRuns(ctx, "42", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(5000), runs[0].StartedAt)
	assert.Equal(t, int64(4000), runs[1].StartedAt)
}

func TestRunHistoryStore_CopiesOnInsert(t *testing.T) {
	store := NewRunHistoryStore()
	ctx := context.Background()

	run := &domain.ScreeningRun{
		UserID:    "42",
		StartedAt: 1000,
		Qualified: []string{"wallet-a"},
	}
	require.NoError(t, store.InsertRun(ctx, run))

	// Mutating the caller's copy must not affect the stored record.
	run.Qualified[0] = "mutated"
	run.StartedAt = 99

	runs, err := store.RecentRuns(ctx, "42", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(1000), runs[0].StartedAt)
	assert.Equal(t, []string{"wallet-a"}, runs[0].Qualified)
}

func TestRunHistoryStore_RejectsInvalidRun(t *testing.T) {
	store := NewRunHistoryStore()
	ctx := context.Background()

	assert.True(t, errors.Is(store.InsertRun(ctx, nil), storage.ErrInvalidInput))
	assert.True(t, errors.Is(store.InsertRun(ctx, &domain.ScreeningRun{}), storage.ErrInvalidInput))
}
