package analytics

import (
	"context"

	"dexsentry/internal/domain"
)

const maxInsights = 5

// InsightSource supplies advisory strings for a report. Implementations
// must degrade gracefully: on any internal failure they return a
// sentinel message, never an error that would block the report.
type InsightSource interface {
	Generate(ctx context.Context, snapshot *domain.MarketSnapshot, stored *domain.Report, sentiment *domain.SentimentResult) ([]string, error)
}

// BuildReport assembles the persisted artifact from the pipeline outputs.
// stored is the previously persisted report; it is accepted but not yet
// folded into the output (reserved for trend composition).
func BuildReport(
	ctx context.Context,
	snapshot *domain.MarketSnapshot,
	risk domain.RiskFinding,
	stored *domain.Report,
	sentiment *domain.SentimentResult,
	insights InsightSource,
) domain.Report {
	_ = stored

	lines, err := insights.Generate(ctx, snapshot, stored, sentiment)
	if err != nil || lines == nil {
		lines = []string{}
	}
	if len(lines) > maxInsights {
		lines = lines[:maxInsights]
	}

	return domain.Report{
		TokenName:   snapshot.BaseToken.Name,
		TokenSymbol: snapshot.BaseToken.Symbol,
		Timestamp:   snapshot.FetchedAt.Unix(),
		Metrics: domain.ReportMetrics{
			Price:        snapshot.PriceUSD,
			Volume:       snapshot.Volume.H24,
			Liquidity:    snapshot.Liquidity.USD,
			MarketCap:    snapshot.MarketCap,
			FDV:          snapshot.FDV,
			Transactions: snapshot.Txns.H24,
		},
		Risk:       risk,
		AIInsights: lines,
	}
}
