package dexscreener

// Wire types for the DexScreener pair-lookup endpoint.
// Every field is optional on the wire; zero values stand in for absent
// fields so the normalizer never has to deal with nulls.

type LookupResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

type Pair struct {
	ChainID       string       `json:"chainId"`
	DexID         string       `json:"dexId"`
	URL           string       `json:"url"`
	PairAddress   string       `json:"pairAddress"`
	BaseToken     PairToken    `json:"baseToken"`
	QuoteToken    PairToken    `json:"quoteToken"`
	PriceNative   string       `json:"priceNative"`
	PriceUSD      string       `json:"priceUsd"`
	Txns          Txns         `json:"txns"`
	Volume        Windows      `json:"volume"`
	PriceChange   Windows      `json:"priceChange"`
	Liquidity     *PairLiq     `json:"liquidity"` // pointer, the feed sends null for unlisted pools
	FDV           float64      `json:"fdv"`
	MarketCap     float64      `json:"marketCap"`
	PairCreatedAt int64        `json:"pairCreatedAt"` // unix milliseconds on the wire
}

type PairToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type TxnWindow struct {
	Buys  uint64 `json:"buys"`
	Sells uint64 `json:"sells"`
}

type Txns struct {
	M5  TxnWindow `json:"m5"`
	H1  TxnWindow `json:"h1"`
	H6  TxnWindow `json:"h6"`
	H24 TxnWindow `json:"h24"`
}

type Windows struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

type PairLiq struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}
