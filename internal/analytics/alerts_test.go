package analytics

import (
	"testing"

	"dexsentry/internal/domain"
)

func alertSnapshot(price string, volumeH1, liquidity float64) *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		BaseToken: domain.Token{Symbol: "WIF"},
		PriceUSD:  price,
		Volume:    domain.FloatWindows{H1: volumeH1},
		Liquidity: domain.Liquidity{USD: liquidity},
	}
}

func TestDetectAlerts_NoPreviousReturnsEmpty(t *testing.T) {
	t.Parallel()

	alerts := DetectAlerts(alertSnapshot("99999", 1, 1), nil)
	if alerts == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts without baseline, got %v", alerts)
	}
}

func TestDetectAlerts_PriceThresholdIsStrict(t *testing.T) {
	t.Parallel()

	prev := alertSnapshot("1.00", 1000, 50000)

	// 15% move crosses the 10% threshold
	alerts := DetectAlerts(alertSnapshot("1.15", 1000, 50000), prev)
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %v", alerts)
	}
	if alerts[0].Category != domain.AlertPrice {
		t.Fatalf("expected PRICE category, got %s", alerts[0].Category)
	}
	want := "PRICE ALERT: WIF price increased by 15.00%"
	if alerts[0].Message != want {
		t.Fatalf("message mismatch:\n got %q\nwant %q", alerts[0].Message, want)
	}

	// 5% stays quiet, and so does exactly 10%
	for _, price := range []string{"1.05", "1.10"} {
		alerts = DetectAlerts(alertSnapshot(price, 1000, 50000), prev)
		if len(alerts) != 0 {
			t.Fatalf("price %s should not alert, got %v", price, alerts)
		}
	}
}

func TestDetectAlerts_DecreaseDirection(t *testing.T) {
	t.Parallel()

	prev := alertSnapshot("2.00", 1000, 50000)
	alerts := DetectAlerts(alertSnapshot("1.00", 1000, 50000), prev)
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %v", alerts)
	}
	want := "PRICE ALERT: WIF price decreased by 50.00%"
	if alerts[0].Message != want {
		t.Fatalf("message mismatch:\n got %q\nwant %q", alerts[0].Message, want)
	}
}

func TestDetectAlerts_VolumeAndLiquidity(t *testing.T) {
	t.Parallel()

	prev := alertSnapshot("1.00", 1000, 50000)

	// volume +60% (>50), liquidity -25% (>20), price unchanged
	cur := alertSnapshot("1.00", 1600, 37500)
	alerts := DetectAlerts(cur, prev)
	if len(alerts) != 2 {
		t.Fatalf("expected two alerts, got %v", alerts)
	}
	if alerts[0].Category != domain.AlertVolume || alerts[1].Category != domain.AlertLiquidity {
		t.Fatalf("wrong categories or order: %v", alerts)
	}
	if alerts[0].Message != "VOLUME ALERT: WIF 1h volume increased by 60.00%" {
		t.Fatalf("volume message: %q", alerts[0].Message)
	}
	if alerts[1].Message != "LIQUIDITY ALERT: WIF liquidity decreased by 25.00%" {
		t.Fatalf("liquidity message: %q", alerts[1].Message)
	}
}

func TestDetectAlerts_OrderIsPriceVolumeLiquidity(t *testing.T) {
	t.Parallel()

	prev := alertSnapshot("1.00", 1000, 50000)
	cur := alertSnapshot("2.00", 2000, 100000)

	alerts := DetectAlerts(cur, prev)
	if len(alerts) != 3 {
		t.Fatalf("expected three alerts, got %v", alerts)
	}
	wantOrder := []domain.AlertCategory{domain.AlertPrice, domain.AlertVolume, domain.AlertLiquidity}
	for i, cat := range wantOrder {
		if alerts[i].Category != cat {
			t.Fatalf("position %d: expected %s, got %s", i, cat, alerts[i].Category)
		}
	}
}

func TestDetectAlerts_ZeroBaselineSkipsMetric(t *testing.T) {
	t.Parallel()

	prev := alertSnapshot("0", 0, 0)
	cur := alertSnapshot("5.00", 9000, 90000)

	alerts := DetectAlerts(cur, prev)
	if len(alerts) != 0 {
		t.Fatalf("zero baselines must not alert, got %v", alerts)
	}
}
