package analytics

import (
	"fmt"
	"math"
	"time"

	"dexsentry/internal/domain"
)

/*
	Heuristic risk scoring for a single snapshot, optionally against the
	previous one. Rules run in a fixed order, each appends at most one
	vulnerability/recommendation pair and adds its weight; the total is
	clamped to MaxRiskScore. The order and the clamp are contractual:
	keyed alert consumers pair vulnerabilities with recommendations by
	position, and no composite ever reads as a certain scam.
*/

const (
	MaxRiskScore = 70

	lowLiquidityUSD     = 100_000
	volatilityH6Pct     = 20
	impermanentLossPct  = 30
	txRatioSpike        = 10
	newTokenAgeDays     = 7
	sellPressureMinTxns = 10
	sellPressurePct     = 15
	pumpH24Pct          = 50
	suddenPriceDiffPct  = 10
)

// AssessRisk scores current against previous (previous may be nil).
// Deterministic for a fixed now; side-effect free.
func AssessRisk(current *domain.MarketSnapshot, previous *domain.MarketSnapshot, now time.Time) domain.RiskFinding {
	finding := domain.RiskFinding{
		Vulnerabilities: []string{},
		Recommendations: []string{},
	}
	score := 0

	fire := func(weight int, vulnerability, recommendation string) {
		score += weight
		finding.Vulnerabilities = append(finding.Vulnerabilities, vulnerability)
		finding.Recommendations = append(finding.Recommendations, recommendation)
	}

	// 1. thin pool
	if current.Liquidity.USD < lowLiquidityUSD {
		fire(30, "Low liquidity",
			"High slippage and manipulation risk, trade small sizes only")
	}

	// 2. 6h volatility, with an impermanent-loss escalation past 30%
	if h6 := current.PriceChange.H6; math.Abs(h6) > volatilityH6Pct {
		fire(20, fmt.Sprintf("High volatility: %.2f%% over 6h", h6),
			"Expect significant price swings, size positions accordingly")

		if math.Abs(h6) > impermanentLossPct {
			fire(10, "High impermanent loss risk",
				"Avoid providing liquidity until the price stabilizes")
		}
	}

	// 3. 6h tx count spiking relative to the last hour
	if h1Total := current.Txns.H1.Total(); h1Total > 0 {
		txRatio := float64(current.Txns.H6.Total()) / float64(h1Total)
		if txRatio > txRatioSpike {
			fire(20, "Unusual transaction pattern",
				"Possible wash trading, verify organic volume before entering")
		}
	}

	// 4. market cap below pool liquidity is structurally odd
	if current.MarketCap > 0 && current.MarketCap < current.Liquidity.USD {
		fire(20, "Market cap < liquidity",
			"Unusual market structure, double-check supply figures")
	}

	// 5. freshly created pair (a missing pairCreatedAt defaults to 0,
	// which reads as an ancient pair and never fires)
	ageDays := float64(now.Unix()-current.PairCreatedAt) / 86400
	if ageDays < newTokenAgeDays {
		fire(15, fmt.Sprintf("New token (%.1f days old)", ageDays),
			"Limited trading history, rug-pull risk is elevated")
	}

	// 6. sell-side dominance over 24h, only with a meaningful sample
	if h24Total := current.Txns.H24.Total(); h24Total > sellPressureMinTxns {
		sellPct := float64(current.Txns.H24.Sells) / float64(h24Total) * 100
		if sellPct > sellPressurePct {
			fire(25, fmt.Sprintf("High selling pressure: %.1f%%", sellPct),
				"Holders are exiting, watch for continued downside")
		}
	}

	// 7. pump-shaped 24h candle
	if current.PriceChange.H24 > pumpH24Pct {
		fire(5, fmt.Sprintf("Possible pump: %.2f%%", current.PriceChange.H24),
			"Rapid rises often retrace, beware of the dump")
	}

	// 8. sudden move against the previous observation
	if previous != nil {
		prevPrice := ParsePrice(previous.PriceUSD)
		if prevPrice > 0 {
			curPrice := ParsePrice(current.PriceUSD)
			diff := math.Abs(curPrice-prevPrice) / prevPrice * 100
			if diff > suddenPriceDiffPct {
				fire(10, fmt.Sprintf("Sudden price change: %.2f%%", diff),
					"Re-check market conditions before acting on stale data")
			}
		}
	}

	if score > MaxRiskScore {
		score = MaxRiskScore
	}
	finding.Score = score

	return finding
}
