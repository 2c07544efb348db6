package domain

import "time"

// WalletRecord is one result item returned by the analytics service for a
// screened wallet. The nested layout mirrors the service's wire contract;
// nested objects are pointers so that missing sections can be detected and
// the record disqualified instead of crashing on a partial payload.
type WalletRecord struct {
	WalletAddress string         `json:"wallet_address"`
	Summary       *WalletSummary `json:"summary"`
}

// WalletSummary groups the performance sections of a wallet record.
type WalletSummary struct {
	GeneralPerformance   *GeneralPerformance   `json:"general_performance"`
	ClosedTradesOverview *ClosedTradesOverview `json:"closed_trades_overview"`
	Deltas               *Deltas               `json:"deltas"`
}

// GeneralPerformance holds the top-level performance figures. The metric
// fields the filter compares against are pointers: an absent scalar must be
// distinguishable from a real zero, since zero can pass a threshold.
type GeneralPerformance struct {
	LastTradeTimestamp string   `json:"last_trade_timestamp"`
	NetSol             *float64 `json:"net_sol"`
	TokensTraded       int      `json:"tokens_traded"`
}

// ClosedTradesOverview holds closed-trade statistics.
type ClosedTradesOverview struct {
	WinRatePercent *float64 `json:"win_rate_percent"`
}

// Deltas holds trade-duration statistics. OverallMeanDelta is in seconds.
type Deltas struct {
	OverallMeanDelta *float64 `json:"overall_mean_delta"`
}

// timestamp layouts the service has been observed to emit.
var lastTradeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// LastTradeTime parses the record's last-trade timestamp. ok is false when
// the timestamp is absent or in a layout we do not recognize.
func (r *WalletRecord) LastTradeTime() (time.Time, bool) {
	if r.Summary == nil || r.Summary.GeneralPerformance == nil {
		return time.Time{}, false
	}
	raw := r.Summary.GeneralPerformance.LastTradeTimestamp
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range lastTradeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Complete reports whether every section and metric the qualification filter
// depends on is present. A record failing this check is silently
// disqualified.
func (r *WalletRecord) Complete() bool {
	if r.Summary == nil {
		return false
	}
	s := r.Summary
	if s.GeneralPerformance == nil || s.GeneralPerformance.LastTradeTimestamp == "" ||
		s.GeneralPerformance.NetSol == nil {
		return false
	}
	if s.ClosedTradesOverview == nil || s.ClosedTradesOverview.WinRatePercent == nil {
		return false
	}
	if s.Deltas == nil || s.Deltas.OverallMeanDelta == nil {
		return false
	}
	return true
}
