package screening

import (
	"fmt"
	"strings"

	"solana-wallet-scout/internal/domain"
)

// BuildReport renders the terminal result message for a run with at least
// one qualifying wallet. The caller guarantees every record passed the
// qualification filter, so the nested sections are present.
func BuildReport(records []*domain.WalletRecord) string {
	var sb strings.Builder
	sb.WriteString("✅ *Qualifying wallets:*\n")

	for _, r := range records {
		gp := r.Summary.GeneralPerformance
		cto := r.Summary.ClosedTradesOverview
		deltas := r.Summary.Deltas

		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("💼 *Wallet:* `%s`\n", r.WalletAddress))
		sb.WriteString(fmt.Sprintf("📊 *Tokens traded:* %d\n", gp.TokensTraded))
		sb.WriteString(fmt.Sprintf("💰 *Net P&L (SOL):* %.2f\n", *gp.NetSol))
		sb.WriteString(fmt.Sprintf("🏆 *Win rate:* %v%%\n", *cto.WinRatePercent))
		sb.WriteString(fmt.Sprintf("⏱️ *Avg trading time:* %.2f min\n", *deltas.OverallMeanDelta/60))
		sb.WriteString(fmt.Sprintf("📅 *Last trade:* %s\n", gp.LastTradeTimestamp))
	}

	return sb.String()
}
