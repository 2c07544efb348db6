package postgres

import (
	"context"
	"fmt"

	"solana-wallet-scout/internal/domain"
	"solana-wallet-scout/internal/storage"
)

// CriteriaStore implements storage.CriteriaStore using PostgreSQL.
type CriteriaStore struct {
	pool *Pool
}

// NewCriteriaStore creates a new CriteriaStore.
func NewCriteriaStore(pool *Pool) *CriteriaStore {
	return &CriteriaStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CriteriaStore = (*CriteriaStore)(nil)

// Get retrieves the criteria for a user. Returns ErrNotFound if the user has
// never completed configuration.
func (s *CriteriaStore) Get(ctx context.Context, userID string) (domain.FilterCriteria, error) {
	query := `
		SELECT avg_trading_time_minutes, net_pl_min_sol, balance_min_sol,
		       win_rate_min_percent, last_trade_max_days
		FROM user_criteria
		WHERE user_id = $1
	`

	var c domain.FilterCriteria
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&c.AvgTradingTimeMinutes,
		&c.NetPLMinSol,
		&c.BalanceMinSol,
		&c.WinRateMinPercent,
		&c.LastTradeMaxDaysAgo,
	)
	if err != nil {
		if isNotFoundError(err) {
			return domain.FilterCriteria{}, storage.ErrNotFound
		}
		return domain.FilterCriteria{}, fmt.Errorf("get criteria: %w", err)
	}
	return c, nil
}

// Set stores the criteria for a user, overwriting any previous record.
func (s *CriteriaStore) Set(ctx context.Context, userID string, c domain.FilterCriteria) error {
	if userID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO user_criteria (
			user_id, avg_trading_time_minutes, net_pl_min_sol, balance_min_sol,
			win_rate_min_percent, last_trade_max_days, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET
			avg_trading_time_minutes = EXCLUDED.avg_trading_time_minutes,
			net_pl_min_sol = EXCLUDED.net_pl_min_sol,
			balance_min_sol = EXCLUDED.balance_min_sol,
			win_rate_min_percent = EXCLUDED.win_rate_min_percent,
			last_trade_max_days = EXCLUDED.last_trade_max_days,
			updated_at = now()
	`

	_, err := s.pool.Exec(ctx, query,
		userID,
		c.AvgTradingTimeMinutes,
		c.NetPLMinSol,
		c.BalanceMinSol,
		c.WinRateMinPercent,
		c.LastTradeMaxDaysAgo,
	)
	if err != nil {
		return fmt.Errorf("set criteria: %w", err)
	}
	return nil
}
