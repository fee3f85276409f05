package analytics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"dexsentry/internal/domain"
)

func healthySnapshot() *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		BaseToken: domain.Token{Symbol: "TKN", Name: "Token"},
		PriceUSD:  "1.00",
		Liquidity: domain.Liquidity{USD: 500_000},
		MarketCap: 10_000_000,
		Txns: domain.TxnWindows{
			H1:  domain.TxnCount{Buys: 50, Sells: 50},
			H6:  domain.TxnCount{Buys: 300, Sells: 300},
			H24: domain.TxnCount{Buys: 1000, Sells: 100},
		},
		PairCreatedAt: time.Now().Add(-365 * 24 * time.Hour).Unix(),
	}
}

func TestAssessRisk_HealthyPairScoresZero(t *testing.T) {
	t.Parallel()

	now := time.Now()
	finding := AssessRisk(healthySnapshot(), nil, now)

	if finding.Score != 0 {
		t.Fatalf("expected score 0 for healthy pair, got %d (vulns=%v)", finding.Score, finding.Vulnerabilities)
	}
	if len(finding.Vulnerabilities) != 0 {
		t.Fatalf("expected no vulnerabilities, got %v", finding.Vulnerabilities)
	}
}

// Worked example: five rules fire for 95 raw points, clamped to 70.
func TestAssessRisk_ClampAtSeventy(t *testing.T) {
	t.Parallel()

	now := time.Now()
	snap := &domain.MarketSnapshot{
		BaseToken:     domain.Token{Symbol: "RUG"},
		PriceUSD:      "0.001",
		Liquidity:     domain.Liquidity{USD: 50_000},
		MarketCap:     0,
		PriceChange:   domain.FloatWindows{H6: 25, H24: 60},
		PairCreatedAt: now.Add(-3 * 24 * time.Hour).Unix(),
		Txns: domain.TxnWindows{
			H24: domain.TxnCount{Buys: 10, Sells: 95},
		},
	}

	finding := AssessRisk(snap, nil, now)

	want := []string{
		"Low liquidity",
		"High volatility: 25.00% over 6h",
		"New token (3.0 days old)",
		"High selling pressure: 90.5%",
		"Possible pump: 60.00%",
	}
	if len(finding.Vulnerabilities) != len(want) {
		t.Fatalf("expected %d vulnerabilities, got %d: %v", len(want), len(finding.Vulnerabilities), finding.Vulnerabilities)
	}
	for i, w := range want {
		if finding.Vulnerabilities[i] != w {
			t.Fatalf("vulnerability[%d]: want %q, got %q", i, w, finding.Vulnerabilities[i])
		}
	}

	// 30+20+15+25+5 = 95, clamped
	if finding.Score != MaxRiskScore {
		t.Fatalf("expected clamped score %d, got %d", MaxRiskScore, finding.Score)
	}
}

func TestAssessRisk_ScoreNeverExceedsCap(t *testing.T) {
	t.Parallel()

	// every rule fires at once
	now := time.Now()
	prev := healthySnapshot()
	prev.PriceUSD = "1.00"

	snap := &domain.MarketSnapshot{
		PriceUSD:      "2.00", // 100% off previous
		Liquidity:     domain.Liquidity{USD: 1_000},
		MarketCap:     500, // below liquidity
		PriceChange:   domain.FloatWindows{H6: 45, H24: 80},
		PairCreatedAt: now.Add(-24 * time.Hour).Unix(),
		Txns: domain.TxnWindows{
			H1:  domain.TxnCount{Buys: 1, Sells: 1},
			H6:  domain.TxnCount{Buys: 20, Sells: 20},
			H24: domain.TxnCount{Buys: 5, Sells: 50},
		},
	}

	finding := AssessRisk(snap, prev, now)

	if finding.Score < 0 || finding.Score > MaxRiskScore {
		t.Fatalf("score %d outside [0,%d]", finding.Score, MaxRiskScore)
	}
	if finding.Score != MaxRiskScore {
		t.Fatalf("expected cap %d when all rules fire, got %d", MaxRiskScore, finding.Score)
	}
}

// The impermanent-loss escalation only evaluates when the volatility
// rule itself fired.
func TestAssessRisk_ImpermanentLossNeedsVolatility(t *testing.T) {
	t.Parallel()

	now := time.Now()

	cases := []struct {
		h6       float64
		wantVol  bool
		wantLoss bool
	}{
		{h6: 10, wantVol: false, wantLoss: false},
		{h6: 25, wantVol: true, wantLoss: false},
		{h6: 35, wantVol: true, wantLoss: true},
		{h6: -35, wantVol: true, wantLoss: true},
	}

	for _, tc := range cases {
		snap := healthySnapshot()
		snap.PriceChange.H6 = tc.h6

		finding := AssessRisk(snap, nil, now)

		gotVol := containsPrefix(finding.Vulnerabilities, "High volatility")
		gotLoss := containsPrefix(finding.Vulnerabilities, "High impermanent loss risk")

		if gotVol != tc.wantVol || gotLoss != tc.wantLoss {
			t.Fatalf("h6=%v: vol=%v loss=%v, want vol=%v loss=%v",
				tc.h6, gotVol, gotLoss, tc.wantVol, tc.wantLoss)
		}
		if gotLoss && !gotVol {
			t.Fatalf("h6=%v: impermanent-loss fired without volatility", tc.h6)
		}
	}
}

func TestAssessRisk_TransactionSpike(t *testing.T) {
	t.Parallel()

	now := time.Now()

	snap := healthySnapshot()
	snap.Txns.H1 = domain.TxnCount{Buys: 1, Sells: 1}
	snap.Txns.H6 = domain.TxnCount{Buys: 15, Sells: 15}

	finding := AssessRisk(snap, nil, now)
	if !containsPrefix(finding.Vulnerabilities, "Unusual transaction pattern") {
		t.Fatalf("expected transaction spike with ratio 15, got %v", finding.Vulnerabilities)
	}

	// no h1 activity -> ratio undefined, rule must not fire
	snap = healthySnapshot()
	snap.Txns.H1 = domain.TxnCount{}
	snap.Txns.H6 = domain.TxnCount{Buys: 1000, Sells: 1000}

	finding = AssessRisk(snap, nil, now)
	if containsPrefix(finding.Vulnerabilities, "Unusual transaction pattern") {
		t.Fatalf("rule fired with zero h1 transactions")
	}
}

func TestAssessRisk_SuddenPriceChangeNeedsPrevious(t *testing.T) {
	t.Parallel()

	now := time.Now()

	snap := healthySnapshot()
	snap.PriceUSD = "1.15"

	finding := AssessRisk(snap, nil, now)
	if containsPrefix(finding.Vulnerabilities, "Sudden price change") {
		t.Fatalf("sudden-change rule fired without a previous snapshot")
	}

	prev := healthySnapshot()
	prev.PriceUSD = "1.00"

	finding = AssessRisk(snap, prev, now)
	if !containsPrefix(finding.Vulnerabilities, "Sudden price change") {
		t.Fatalf("expected sudden-change rule for 15%% move, got %v", finding.Vulnerabilities)
	}
	wantMsg := fmt.Sprintf("Sudden price change: %.2f%%", 15.0)
	if finding.Vulnerabilities[len(finding.Vulnerabilities)-1] != wantMsg {
		t.Fatalf("want %q as the last vulnerability, got %v", wantMsg, finding.Vulnerabilities)
	}

	// previous price of zero cannot be a baseline
	prev.PriceUSD = "0"
	finding = AssessRisk(snap, prev, now)
	if containsPrefix(finding.Vulnerabilities, "Sudden price change") {
		t.Fatalf("sudden-change rule fired with zero previous price")
	}
}

func TestAssessRisk_RecommendationsPairWithVulnerabilities(t *testing.T) {
	t.Parallel()

	snap := healthySnapshot()
	snap.Liquidity.USD = 10_000
	snap.PriceChange.H6 = 40

	finding := AssessRisk(snap, nil, time.Now())

	if len(finding.Recommendations) != len(finding.Vulnerabilities) {
		t.Fatalf("recommendations (%d) not positionally paired with vulnerabilities (%d)",
			len(finding.Recommendations), len(finding.Vulnerabilities))
	}
}

func containsPrefix(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
