package analytics

import (
	"strconv"
	"time"

	"dexsentry/internal/domain"
	"dexsentry/internal/provider/dexscreener"
)

/*
	Normalizer: raw provider pair -> canonical MarketSnapshot
	Total and pure: absent fields become zero values, a bad decimal
	string becomes 0, nothing here ever returns an error
*/

// Normalize converts one raw DexScreener pair into a MarketSnapshot.
// Price strings are preserved verbatim (defaulted to "0" when empty) so
// external display never loses precision; everything else is float64.
func Normalize(raw *dexscreener.Pair, fetchedAt time.Time) domain.MarketSnapshot {
	if raw == nil {
		return domain.MarketSnapshot{FetchedAt: fetchedAt}
	}

	snap := domain.MarketSnapshot{
		ChainID:     raw.ChainID,
		DexID:       raw.DexID,
		PairAddress: raw.PairAddress,
		BaseToken: domain.Token{
			Address: raw.BaseToken.Address,
			Name:    raw.BaseToken.Name,
			Symbol:  raw.BaseToken.Symbol,
		},
		QuoteToken: domain.Token{
			Address: raw.QuoteToken.Address,
			Name:    raw.QuoteToken.Name,
			Symbol:  raw.QuoteToken.Symbol,
		},
		PriceUSD:    defaultDecimal(raw.PriceUSD),
		PriceNative: defaultDecimal(raw.PriceNative),
		Txns: domain.TxnWindows{
			M5:  domain.TxnCount{Buys: raw.Txns.M5.Buys, Sells: raw.Txns.M5.Sells},
			H1:  domain.TxnCount{Buys: raw.Txns.H1.Buys, Sells: raw.Txns.H1.Sells},
			H6:  domain.TxnCount{Buys: raw.Txns.H6.Buys, Sells: raw.Txns.H6.Sells},
			H24: domain.TxnCount{Buys: raw.Txns.H24.Buys, Sells: raw.Txns.H24.Sells},
		},
		Volume: domain.FloatWindows{
			M5:  raw.Volume.M5,
			H1:  raw.Volume.H1,
			H6:  raw.Volume.H6,
			H24: raw.Volume.H24,
		},
		PriceChange: domain.FloatWindows{
			M5:  raw.PriceChange.M5,
			H1:  raw.PriceChange.H1,
			H6:  raw.PriceChange.H6,
			H24: raw.PriceChange.H24,
		},
		FDV:           raw.FDV,
		MarketCap:     raw.MarketCap,
		PairCreatedAt: raw.PairCreatedAt / 1000, // wire is unix ms
		FetchedAt:     fetchedAt,
	}

	if raw.Liquidity != nil {
		snap.Liquidity = domain.Liquidity{
			USD:   raw.Liquidity.USD,
			Base:  raw.Liquidity.Base,
			Quote: raw.Liquidity.Quote,
		}
	}

	return snap
}

func defaultDecimal(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// ParsePrice parses a decimal price string, 0 on any parse failure
func ParsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
