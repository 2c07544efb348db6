package domain

import "fmt"

// FilterCriteria holds the per-user thresholds a wallet must meet to qualify.
// One record per user; written only by a completed configuration wizard run.
type FilterCriteria struct {
	AvgTradingTimeMinutes float64 `json:"avgTradingTime"` // minimum mean trade duration, minutes
	NetPLMinSol           float64 `json:"netPL"`          // minimum net profit, SOL
	BalanceMinSol         float64 `json:"balanceActual"`  // minimum current balance, SOL (collected, not filtered on)
	WinRateMinPercent     float64 `json:"winRate"`        // minimum win rate, 0..100
	LastTradeMaxDaysAgo   int     `json:"lastTradeDays"`  // maximum days since last trade
}

// Validate checks the record against the ranges the wizard enforces.
func (c FilterCriteria) Validate() error {
	if c.AvgTradingTimeMinutes < 0 {
		return fmt.Errorf("avg trading time must be >= 0, got %v", c.AvgTradingTimeMinutes)
	}
	if c.WinRateMinPercent < 0 || c.WinRateMinPercent > 100 {
		return fmt.Errorf("win rate must be in [0, 100], got %v", c.WinRateMinPercent)
	}
	if c.LastTradeMaxDaysAgo < 0 {
		return fmt.Errorf("last trade days must be >= 0, got %d", c.LastTradeMaxDaysAgo)
	}
	return nil
}

// String renders the criteria the way the bot shows them to the user.
func (c FilterCriteria) String() string {
	return fmt.Sprintf(
		"Avg trading time: %v min\nMin net P&L: %v SOL\nMin balance: %v SOL\nMin win rate: %v%%\nLast trade within: %d days",
		c.AvgTradingTimeMinutes, c.NetPLMinSol, c.BalanceMinSol, c.WinRateMinPercent, c.LastTradeMaxDaysAgo,
	)
}
