package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/storage"
)

// RunHistoryStore implements storage.RunHistoryStore using ClickHouse.
type RunHistoryStore struct {
	conn *Conn
}

// NewRunHistoryStore creates a new RunHistoryStore.
func NewRunHistoryStore(conn *Conn) *RunHistoryStore {
	return &RunHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.RunHistoryStore = (*RunHistoryStore)(nil)

// InsertRun records one completed screening run.
func (s *RunHistoryStore) InsertRun(ctx context.Context, run *domain.ScreeningRun) error {
	if run == nil || run.UserID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO screening_runs (
			user_id, chat_id, started_at, finished_at,
			submitted, batches, qualified
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		run.UserID,
		run.ChatID,
		time.UnixMilli(run.StartedAt).UTC(),
		time.UnixMilli(run.FinishedAt).UTC(),
		uint32(run.Submitted),
		uint32(run.Batches),
		run.Qualified,
	)
	if err != nil {
		return fmt.Errorf("insert screening run: %w", err)
	}
	return nil
}

// RecentRuns retrieves the most recent runs for a user, newest first.
func (s *RunHistoryStore) RecentRuns(ctx context.Context, userID string, limit int) ([]*domain.ScreeningRun, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT user_id, chat_id, started_at, finished_at,
		       submitted, batches, qualified
		FROM screening_runs
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query screening runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ScreeningRun
	for rows.Next() {
		var (
			run        domain.ScreeningRun
			startedAt  time.Time
			finishedAt time.Time
			submitted  uint32
			batches    uint32
		)
		if err := rows.Scan(
			&run.UserID,
			&run.ChatID,
			&startedAt,
			&finishedAt,
			&submitted,
			&batches,
			&run.Qualified,
		); err != nil {
			return nil, fmt.Errorf("scan screening run: %w", err)
		}
		run.StartedAt = startedAt.UnixMilli()
		run.FinishedAt = finishedAt.UnixMilli()
		run.Submitted = int(submitted)
		run.Batches = int(batches)
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screening runs: %w", err)
	}

	return runs, nil
}
