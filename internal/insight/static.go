package insight

import (
	"context"
	"fmt"

	"dexsentry/internal/domain"
)

// Sentinel returned when no generator credentials are configured
const Unavailable = "AI insights unavailable: no API key configured"

// Static is the placeholder insight generator. It never calls out
// anywhere; with no API key it returns the sentinel line, otherwise it
// derives a few advisory lines from the sentiment and risk-adjacent
// numbers it already has. A real model-backed generator would implement
// analytics.InsightSource the same way.
type Static struct {
	apiKey string
}

func NewStatic(apiKey string) *Static {
	return &Static{apiKey: apiKey}
}

func (s *Static) Generate(_ context.Context, snapshot *domain.MarketSnapshot, _ *domain.Report, sentiment *domain.SentimentResult) ([]string, error) {
	if s.apiKey == "" {
		return []string{Unavailable}, nil
	}

	lines := make([]string, 0, 3)
	lines = append(lines, fmt.Sprintf("%s trades at %s USD with %.0f USD of pool liquidity",
		snapshot.BaseToken.Symbol, snapshot.PriceUSD, snapshot.Liquidity.USD))

	if sentiment != nil {
		lines = append(lines, fmt.Sprintf("Composite sentiment %.2f (tx %.2f, price %.2f)",
			sentiment.Score, sentiment.Breakdown.Transactions, sentiment.Breakdown.PriceAction))
		if len(sentiment.Trends) > 0 {
			lines = append(lines, "Dominant trend: "+sentiment.Trends[0])
		}
	}

	return lines, nil
}
