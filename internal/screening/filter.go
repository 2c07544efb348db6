package screening

import (
	"time"

	"solana-wallet-scout/internal/domain"
)

// Qualifies tests one wallet record against the user's criteria at the given
// wall-clock time. Records with any required section missing or an
// unparseable last-trade timestamp fail silently; the service payload is
// untrusted and must never crash the run.
//
// BalanceMinSol is collected by the wizard but is not part of the filter.
func Qualifies(r *domain.WalletRecord, c domain.FilterCriteria, now time.Time) bool {
	if r == nil || !r.Complete() {
		return false
	}

	lastTrade, ok := r.LastTradeTime()
	if !ok {
		return false
	}

	s := r.Summary
	daysAgo := now.Sub(lastTrade).Hours() / 24
	avgTradeMinutes := *s.Deltas.OverallMeanDelta / 60

	return daysAgo <= float64(c.LastTradeMaxDaysAgo) &&
		*s.ClosedTradesOverview.WinRatePercent >= c.WinRateMinPercent &&
		*s.GeneralPerformance.NetSol >= c.NetPLMinSol &&
		avgTradeMinutes >= c.AvgTradingTimeMinutes
}
