package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gitlab.com/nevasik7/alerting/logger"
	"golang.org/x/time/rate"

	"dexsentry/internal/config"
)

const (
	defaultBaseURL = "https://api.dexscreener.com"
	defaultTimeout = 10 * time.Second
	defaultRPM     = 60 // public API limit
)

type DegradeReason string

const (
	DegradeNotFound DegradeReason = "no_matching_pair"
	DegradeUpstream DegradeReason = "upstream_failure"
)

// FetchResult keeps "true absence" and "fetch failed" apart internally
// even though both read as "no data" downstream.
type FetchResult struct {
	Pair     *Pair
	Degraded DegradeReason
	Err      error // underlying cause, for logging only
}

func (r FetchResult) OK() bool { return r.Pair != nil }

type Client struct {
	log     logger.Logger
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
}

func NewClient(log logger.Logger, cfg *config.ProviderConfig) *Client {
	baseURL := defaultBaseURL
	timeout := defaultTimeout
	rpm := defaultRPM

	if cfg != nil {
		if cfg.BaseURL != "" {
			baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		if cfg.RatePerMinute > 0 {
			rpm = cfg.RatePerMinute
		}
	}

	return &Client{
		log:     log,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		baseURL: baseURL,
	}
}

// FetchPair looks up all pairs for tokenAddress and selects the single
// pair on the requested chain. Every failure mode degrades, nothing
// here surfaces as a hard error to the invoker.
func (c *Client) FetchPair(ctx context.Context, chainID, tokenAddress string) FetchResult {
	if err := c.limiter.Wait(ctx); err != nil {
		return FetchResult{Degraded: DegradeUpstream, Err: err}
	}

	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, tokenAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{Degraded: DegradeUpstream, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnf("DexScreener request failed for %s, error=%v", tokenAddress, err)
		return FetchResult{Degraded: DegradeUpstream, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.log.Warnf("DexScreener returned %d for %s", resp.StatusCode, tokenAddress)
		return FetchResult{Degraded: DegradeUpstream, Err: err}
	}

	var lookup LookupResponse
	if err = json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return FetchResult{Degraded: DegradeUpstream, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	for i := range lookup.Pairs {
		if strings.EqualFold(lookup.Pairs[i].ChainID, chainID) {
			return FetchResult{Pair: &lookup.Pairs[i]}
		}
	}

	return FetchResult{Degraded: DegradeNotFound}
}
