package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/analytics"
	"dexsentry/internal/domain"
	"dexsentry/internal/history"
	"dexsentry/internal/metrics"
	"dexsentry/internal/provider/dexscreener"
	"dexsentry/internal/pubsub"
	"dexsentry/internal/stores"
	"dexsentry/internal/stores/clickhouse"
	"dexsentry/internal/throttle"
)

var (
	ErrNoPairData      = errors.New("no pair data found")
	ErrMissingArgument = errors.New("chain id and token address are required")
	ErrNoStoredReport  = errors.New("no stored report for token")
)

type PairFetcher interface {
	FetchPair(ctx context.Context, chainID, tokenAddress string) dexscreener.FetchResult
}

// SentryService is the only orchestration point:
// fetch → normalize → alerts → risk → sentiment → report → persist.
// One token per invocation, start to finish, under that token's lock.
type SentryService struct {
	log       logger.Logger
	provider  PairFetcher
	snapshots stores.SnapshotStore
	state     *history.Store
	insights  analytics.InsightSource

	// optional collaborators, nil when disabled
	broadcaster pubsub.Broadcaster
	gate        *throttle.Memory
	archive     *clickhouse.Writer
}

func NewSentryService(
	log logger.Logger,
	provider PairFetcher,
	snapshots stores.SnapshotStore,
	state *history.Store,
	insights analytics.InsightSource,
) *SentryService {
	return &SentryService{
		log:       log,
		provider:  provider,
		snapshots: snapshots,
		state:     state,
		insights:  insights,
	}
}

// WithBroadcaster attaches NATS alert fan-out, throttled by gate.
func (s *SentryService) WithBroadcaster(b pubsub.Broadcaster, gate *throttle.Memory) *SentryService {
	s.broadcaster = b
	s.gate = gate
	return s
}

// WithArchive attaches the ClickHouse observation writer.
func (s *SentryService) WithArchive(w *clickhouse.Writer) *SentryService {
	s.archive = w
	return s
}

// AnalyzeToken runs one full invocation for (chainID, tokenAddress).
// The analytics core never fails; the only error outcomes are missing
// arguments and "no data" from the feed boundary.
func (s *SentryService) AnalyzeToken(ctx context.Context, chainID, tokenAddress string) (*domain.Report, error) {
	if strings.TrimSpace(chainID) == "" || strings.TrimSpace(tokenAddress) == "" {
		return nil, ErrMissingArgument
	}

	res := s.provider.FetchPair(ctx, chainID, tokenAddress)
	if !res.OK() {
		metrics.ProviderFailures.WithLabelValues(string(res.Degraded)).Inc()
		metrics.Invocations.WithLabelValues("no_data").Inc()
		if res.Err != nil {
			s.log.Warnf("Fetch degraded for %s/%s (%s): %v", chainID, tokenAddress, res.Degraded, res.Err)
		} else {
			s.log.Debugf("No pair matched chain %s for token %s", chainID, tokenAddress)
		}
		return nil, ErrNoPairData
	}

	key := domain.TokenKey{ChainID: chainID, TokenAddress: tokenAddress}

	entry := s.state.Lock(key)
	defer entry.Unlock()

	previous := entry.Last()
	snapshot := analytics.Normalize(res.Pair, time.Now().UTC())

	alerts := analytics.DetectAlerts(&snapshot, previous)
	for _, a := range alerts {
		s.log.Infof("%s", a.Message)
		metrics.AlertsEmitted.WithLabelValues(string(a.Category)).Inc()
		s.broadcast(ctx, key, snapshot.BaseToken.Symbol, a)
	}

	risk := analytics.AssessRisk(&snapshot, previous, snapshot.FetchedAt)
	metrics.RiskScore.Observe(float64(risk.Score))

	sentiment := analytics.AssessSentiment(&snapshot, entry.LastSentiment())

	stored, _ := s.snapshots.Load(ctx, key.StoreKey())

	report := analytics.BuildReport(ctx, &snapshot, risk, stored, &sentiment, s.insights)

	// persistence failures never abort the invocation
	if err := s.snapshots.Save(ctx, key.StoreKey(), &report); err != nil {
		s.log.Errorf("Failed to save snapshot for %s: %v", key.StoreKey(), err)
	}

	// cache and history advance unconditionally after processing
	entry.Update(snapshot, sentiment, domain.PricePoint{
		Timestamp: snapshot.FetchedAt,
		Price:     analytics.ParsePrice(snapshot.PriceUSD),
		Volume:    snapshot.Volume.H24,
	})

	s.archiveObservation(key, &snapshot, risk)

	metrics.TrackedTokens.Set(float64(len(s.state.Tokens())))
	metrics.Invocations.WithLabelValues("ok").Inc()
	s.log.Debugf("Invocation done for %s: risk=%d sentiment=%.2f alerts=%d",
		key.StoreKey(), risk.Score, sentiment.Score, len(alerts))

	return &report, nil
}

// StoredReport returns the last persisted report for the token.
func (s *SentryService) StoredReport(ctx context.Context, chainID, tokenAddress string) (*domain.Report, error) {
	if strings.TrimSpace(chainID) == "" || strings.TrimSpace(tokenAddress) == "" {
		return nil, ErrMissingArgument
	}

	key := domain.TokenKey{ChainID: chainID, TokenAddress: tokenAddress}
	report, ok := s.snapshots.Load(ctx, key.StoreKey())
	if !ok {
		return nil, ErrNoStoredReport
	}

	return report, nil
}

func (s *SentryService) broadcast(ctx context.Context, key domain.TokenKey, symbol string, a domain.Alert) {
	if s.broadcaster == nil {
		return
	}

	throttleKey := key.String() + ":" + string(a.Category)
	if s.gate != nil && !s.gate.Allow(throttleKey) {
		s.log.Debugf("Alert broadcast suppressed for %s", throttleKey)
		return
	}

	if symbol == "" {
		symbol = key.TokenAddress
	}
	subject := s.broadcaster.Subject(key.ChainID, strings.ToLower(symbol))
	if err := s.broadcaster.Publish(ctx, subject, a); err != nil {
		// broadcast is best-effort, subscribers catch up next invocation
		s.log.Errorf("Failed to broadcast alert to %s: %v", subject, err)
	}
}

func (s *SentryService) archiveObservation(key domain.TokenKey, snap *domain.MarketSnapshot, risk domain.RiskFinding) {
	if s.archive == nil {
		return
	}

	err := s.archive.Enqueue(clickhouse.ObservationRow{
		ObservedAt:   snap.FetchedAt,
		ChainID:      key.ChainID,
		TokenAddress: key.TokenAddress,
		TokenSymbol:  snap.BaseToken.Symbol,
		PairAddress:  snap.PairAddress,
		PriceUSD:     snap.PriceUSD,
		VolumeH24:    snap.Volume.H24,
		LiquidityUSD: snap.Liquidity.USD,
		TxnsH24:      snap.Txns.H24.Total(),
		RiskScore:    uint8(risk.Score),
	})
	if err != nil {
		s.log.Errorf("Failed to enqueue observation for %s: %v", key.StoreKey(), err)
	}
}

func (s *SentryService) CheckDependency(ctx context.Context) error {
	errDependency := make([]string, 0, 3)

	if err := s.snapshots.Health(ctx); err != nil {
		errDependency = append(errDependency, fmt.Sprintf("snapshot store error: %v", err))
	}

	if s.broadcaster != nil {
		if err := s.broadcaster.Health(ctx); err != nil {
			errDependency = append(errDependency, "NATS: connection not ready")
		}
	}

	if s.archive != nil {
		if err := s.archive.Health(ctx); err != nil {
			errDependency = append(errDependency, fmt.Sprintf("ClickHouse connection error: %v", err))
		}
	}

	if len(errDependency) > 0 {
		return fmt.Errorf("dependency check failed: %v", strings.Join(errDependency, "; "))
	}

	return nil
}
