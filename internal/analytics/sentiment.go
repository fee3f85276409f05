package analytics

import (
	"math"

	"dexsentry/internal/domain"
)

/*
	Composite market sentiment: transaction flow, short/long price action
	and a social proxy blended into one directional score. The composite
	itself is intentionally unclamped; only the priceAction sub-score is
	bounded to [-1, 1].
*/

const significantShift = 0.3

// AssessSentiment scores the snapshot; previous (may be nil) is only used
// for the shift trend label.
func AssessSentiment(current *domain.MarketSnapshot, previous *domain.SentimentResult) domain.SentimentResult {
	h24 := current.Txns.H24

	txSentiment := 0.0
	if total := h24.Total(); total > 0 {
		txSentiment = (float64(h24.Buys) - float64(h24.Sells)) / float64(total)
	}

	h1Change := current.PriceChange.H1
	h24Change := current.PriceChange.H24

	priceSentiment := clamp(0.6*(h1Change/100)+0.4*(h24Change/100), -1, 1)

	// social proxy weights the daily move heavier; unclamped sub-score
	socialSentiment := 0.3*(h1Change/100) + 0.7*(h24Change/100)

	overall := 0.4*txSentiment + 0.4*priceSentiment + 0.2*socialSentiment

	result := domain.SentimentResult{
		Score: overall,
		Breakdown: domain.SentimentBreakdown{
			Social:       socialSentiment,
			Transactions: txSentiment,
			PriceAction:  priceSentiment,
		},
		Trends: []string{},
	}

	// exactly one ladder label fires
	switch {
	case overall > 0.7:
		result.Trends = append(result.Trends, "Strong bullish")
	case overall > 0.3:
		result.Trends = append(result.Trends, "Moderate bullish")
	case overall < -0.7:
		result.Trends = append(result.Trends, "Strong bearish")
	case overall < -0.3:
		result.Trends = append(result.Trends, "Moderate bearish")
	default:
		result.Trends = append(result.Trends, "Neutral")
	}

	// short-term momentum diverging from the daily trend
	if h1Change > 0 && h24Change < 0 {
		result.Trends = append(result.Trends, "Positive momentum vs negative trend")
	} else if h1Change < 0 && h24Change > 0 {
		result.Trends = append(result.Trends, "Negative momentum vs positive trend")
	}

	if h24.Buys > 2*h24.Sells {
		result.Trends = append(result.Trends, "Strong buying pressure")
	} else if h24.Sells > 2*h24.Buys {
		result.Trends = append(result.Trends, "Strong selling pressure")
	}

	if previous != nil && math.Abs(overall-previous.Score) > significantShift {
		direction := "positive"
		if overall < previous.Score {
			direction = "negative"
		}
		result.Trends = append(result.Trends, "Significant "+direction+" shift")
	}

	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
