package screening

import (
	"testing"
	"time"

	"solana-wallet-scout/internal/domain"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func testCriteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		AvgTradingTimeMinutes: 10,
		NetPLMinSol:           0,
		BalanceMinSol:         0,
		WinRateMinPercent:     50,
		LastTradeMaxDaysAgo:   7,
	}
}

// ptr is a helper to create pointers to values.
func ptr[T any](v T) *T {
	return &v
}

// record builds a complete wallet record with the given metrics.
// meanDelta is in seconds, daysAgo counts back from testNow.
func record(addr string, daysAgo float64, netSol, winRate, meanDelta float64) *domain.WalletRecord {
	lastTrade := testNow.Add(-time.Duration(daysAgo * 24 * float64(time.Hour)))
	return &domain.WalletRecord{
		WalletAddress: addr,
		Summary: &domain.WalletSummary{
			GeneralPerformance: &domain.GeneralPerformance{
				LastTradeTimestamp: lastTrade.Format(time.RFC3339),
				NetSol:             ptr(netSol),
				TokensTraded:       10,
			},
			ClosedTradesOverview: &domain.ClosedTradesOverview{WinRatePercent: ptr(winRate)},
			Deltas:               &domain.Deltas{OverallMeanDelta: ptr(meanDelta)},
		},
	}
}

func TestQualifies(t *testing.T) {
	// win rate 60, net 1.0 SOL, 900s mean trade (15 min), last trade 2 days ago
	if !Qualifies(record("w", 2, 1.0, 60, 900), testCriteria(), testNow) {
		t.Error("record meeting all thresholds should qualify")
	}
}

func TestQualifies_FailsOneCriterion(t *testing.T) {
	tests := []struct {
		name   string
		record *domain.WalletRecord
	}{
		{"win rate below threshold", record("w", 2, 1.0, 40, 900)},
		{"last trade too old", record("w", 8, 1.0, 60, 900)},
		{"net pl below threshold", record("w", 2, -0.5, 60, 900)},
		{"avg trading time too short", record("w", 2, 1.0, 60, 300)},
	}

	for _, tt := range tests {
		if Qualifies(tt.record, testCriteria(), testNow) {
			t.Errorf("%s: record should not qualify", tt.name)
		}
	}
}

func TestQualifies_Boundaries(t *testing.T) {
	// Thresholds are inclusive.
	if !Qualifies(record("w", 7, 0, 50, 600), testCriteria(), testNow) {
		t.Error("record exactly at every threshold should qualify")
	}
}

func TestQualifies_IncompleteRecord(t *testing.T) {
	r := record("w", 2, 1.0, 60, 900)
	r.Summary.Deltas = nil
	if Qualifies(r, testCriteria(), testNow) {
		t.Error("record with missing deltas should not qualify")
	}

	r = record("w", 2, 1.0, 60, 900)
	r.Summary.GeneralPerformance.LastTradeTimestamp = "garbage"
	if Qualifies(r, testCriteria(), testNow) {
		t.Error("record with unparseable timestamp should not qualify")
	}

	if Qualifies(nil, testCriteria(), testNow) {
		t.Error("nil record should not qualify")
	}
}

func TestQualifies_AbsentMetricsNeverQualify(t *testing.T) {
	// A record whose sections are present but whose scalar metrics are
	// absent must not qualify even against thresholds a zero would pass.
	c := testCriteria()
	c.NetPLMinSol = -5
	c.WinRateMinPercent = 0
	c.AvgTradingTimeMinutes = 0

	tests := []struct {
		name   string
		mutate func(*domain.WalletRecord)
	}{
		{"missing net_sol", func(r *domain.WalletRecord) { r.Summary.GeneralPerformance.NetSol = nil }},
		{"missing win_rate_percent", func(r *domain.WalletRecord) { r.Summary.ClosedTradesOverview.WinRatePercent = nil }},
		{"missing overall_mean_delta", func(r *domain.WalletRecord) { r.Summary.Deltas.OverallMeanDelta = nil }},
	}

	for _, tt := range tests {
		r := record("w", 2, 1.0, 60, 900)
		tt.mutate(r)
		if Qualifies(r, c, testNow) {
			t.Errorf("%s: record should not qualify", tt.name)
		}
	}
}

func TestQualifies_BalanceNotFiltered(t *testing.T) {
	c := testCriteria()
	c.BalanceMinSol = 1_000_000 // impossible threshold, must not matter
	if !Qualifies(record("w", 2, 1.0, 60, 900), c, testNow) {
		t.Error("balance criterion must not affect qualification")
	}
}
