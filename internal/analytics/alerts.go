package analytics

import (
	"fmt"
	"math"

	"dexsentry/internal/domain"
)

// Per-metric change thresholds in percent
const (
	priceAlertPct     = 10
	volumeAlertPct    = 50
	liquidityAlertPct = 20
)

// DetectAlerts compares two consecutive snapshots of the same pair and
// returns threshold-crossing delta alerts in price, volume, liquidity
// order. Without a previous snapshot there is no baseline and the
// result is empty.
func DetectAlerts(current, previous *domain.MarketSnapshot) []domain.Alert {
	alerts := []domain.Alert{}
	if previous == nil {
		return alerts
	}

	symbol := current.BaseToken.Symbol

	if a, ok := deltaAlert(domain.AlertPrice, symbol, "price",
		ParsePrice(current.PriceUSD), ParsePrice(previous.PriceUSD), priceAlertPct); ok {
		alerts = append(alerts, a)
	}

	if a, ok := deltaAlert(domain.AlertVolume, symbol, "1h volume",
		current.Volume.H1, previous.Volume.H1, volumeAlertPct); ok {
		alerts = append(alerts, a)
	}

	if a, ok := deltaAlert(domain.AlertLiquidity, symbol, "liquidity",
		current.Liquidity.USD, previous.Liquidity.USD, liquidityAlertPct); ok {
		alerts = append(alerts, a)
	}

	return alerts
}

func deltaAlert(cat domain.AlertCategory, symbol, metric string, cur, prev, threshold float64) (domain.Alert, bool) {
	if prev <= 0 {
		return domain.Alert{}, false
	}

	pct := math.Abs(cur-prev) / prev * 100
	if pct <= threshold {
		return domain.Alert{}, false
	}

	direction := "increased"
	if cur < prev {
		direction = "decreased"
	}

	return domain.Alert{
		Category: cat,
		Message:  fmt.Sprintf("%s ALERT: %s %s %s by %.2f%%", cat, symbol, metric, direction, pct),
	}, true
}
