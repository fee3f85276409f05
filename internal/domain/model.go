package domain

import "time"

// Canonical point-in-time reading of a pair's market state
// Produced once per fetch by the normalizer; immutable after that
type MarketSnapshot struct {
	ChainID     string `json:"chain_id"`
	DexID       string `json:"dex_id"`
	PairAddress string `json:"pair_address"`
	BaseToken   Token  `json:"base_token"`
	QuoteToken  Token  `json:"quote_token"`

	// prices stay decimal strings for exact external display
	PriceUSD    string `json:"price_usd"`
	PriceNative string `json:"price_native"`

	Txns        TxnWindows   `json:"txns"`
	Volume      FloatWindows `json:"volume"`
	PriceChange FloatWindows `json:"price_change"` // percent, may be negative

	Liquidity Liquidity `json:"liquidity"`
	FDV       float64   `json:"fdv"`
	MarketCap float64   `json:"market_cap"`

	PairCreatedAt int64 `json:"pair_created_at"` // unix seconds

	FetchedAt time.Time `json:"fetched_at"`
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type TxnCount struct {
	Buys  uint64 `json:"buys"`
	Sells uint64 `json:"sells"`
}

func (t TxnCount) Total() uint64 { return t.Buys + t.Sells }

// Per-window transaction counts
type TxnWindows struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

// Per-window float values (volume USD or price-change percent)
type FloatWindows struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// Threshold-based risk assessment of one snapshot;
// Vulnerabilities and recommendations are positionally paired in rule-fire order,
// Score is the sum of fired rule weights clamped to 70
type RiskFinding struct {
	Score           int      `json:"risk_score"`
	Vulnerabilities []string `json:"vulnerabilities"`
	Recommendations []string `json:"recommendations"`
}

// Composite directional market sentiment for one snapshot
type SentimentResult struct {
	Score     float64            `json:"score"`
	Breakdown SentimentBreakdown `json:"breakdown"`
	Trends    []string           `json:"trends"`
}

type SentimentBreakdown struct {
	Social       float64 `json:"social"`
	Transactions float64 `json:"transactions"`
	PriceAction  float64 `json:"price_action"`
}

type AlertCategory string

const (
	AlertPrice     AlertCategory = "PRICE"
	AlertVolume    AlertCategory = "VOLUME"
	AlertLiquidity AlertCategory = "LIQUIDITY"
)

// Delta alert between two consecutive snapshots of the same pair
type Alert struct {
	Category AlertCategory `json:"category"`
	Message  string        `json:"message"`
}

// Persisted per-invocation artifact
type Report struct {
	TokenName   string        `json:"token_name"`
	TokenSymbol string        `json:"token_symbol"`
	Timestamp   int64         `json:"timestamp"` // unix seconds
	Metrics     ReportMetrics `json:"metrics"`
	Risk        RiskFinding   `json:"risk"`
	AIInsights  []string      `json:"ai_insights"`
}

type ReportMetrics struct {
	Price        string   `json:"price"`
	Volume       float64  `json:"volume"`
	Liquidity    float64  `json:"liquidity"`
	MarketCap    float64  `json:"market_cap"`
	FDV          float64  `json:"fdv"`
	Transactions TxnCount `json:"transactions"`
}

// One entry of the per-token price history ring
type PricePoint struct {
	Timestamp time.Time `json:"ts"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
}
