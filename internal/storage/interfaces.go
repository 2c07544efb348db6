package storage

import (
	"context"

	"solana-wallet-scout/internal/domain"
)

// CriteriaStore provides access to per-user filter criteria.
// Implementations persist synchronously: when Set returns nil the record is
// durably written.
type CriteriaStore interface {
	// Get retrieves the criteria for a user. Returns ErrNotFound if the user
	// has never completed configuration.
	Get(ctx context.Context, userID string) (domain.FilterCriteria, error)

	// Set stores the criteria for a user, overwriting any previous record.
	Set(ctx context.Context, userID string, c domain.FilterCriteria) error
}

// RunHistoryStore provides access to the screening run archive.
type RunHistoryStore interface {
	// InsertRun records one completed screening run.
	InsertRun(ctx context.Context, run *domain.ScreeningRun) error

	// RecentRuns retrieves the most recent runs for a user, newest first.
	RecentRuns(ctx context.Context, userID string, limit int) ([]*domain.ScreeningRun, error)
}
