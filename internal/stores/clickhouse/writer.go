package clickhouse

import (
	"context"
	"errors"
	"sync"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"gitlab.com/nevasik7/alerting/logger"

	"dexsentry/internal/config"
)

// One archived market observation. Prices travel as decimal strings,
// ClickHouse parses them into Decimal columns server-side.
type ObservationRow struct {
	ObservedAt   time.Time
	ChainID      string
	TokenAddress string
	TokenSymbol  string
	PairAddress  string
	PriceUSD     string // Decimal(38,18), sent as string
	VolumeH24    float64
	LiquidityUSD float64
	TxnsH24      uint64
	RiskScore    uint8
}

// Writer batches observation rows into the pair_observations table.
// Enqueue never blocks the analytics pipeline on ClickHouse health:
// failed batches are logged and dropped.
type Writer struct {
	log  logger.Logger
	conn ch.Conn
	cfg  config.ClickHouseConfig

	inCh      chan ObservationRow
	closedCh  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewWriter(log logger.Logger, conn *Conn, cfg config.ClickHouseConfig) *Writer {
	// sane defaults
	if cfg.Writer.BatchMaxRows <= 0 {
		cfg.Writer.BatchMaxRows = 500
	}
	if cfg.Writer.BatchMaxInterval <= 0 {
		cfg.Writer.BatchMaxInterval = time.Second
	}
	if cfg.Writer.MaxRetries < 0 {
		cfg.Writer.MaxRetries = 0
	}
	if cfg.Writer.RetryBackoff <= 0 {
		cfg.Writer.RetryBackoff = 200 * time.Millisecond
	}

	w := &Writer{
		log:      log,
		conn:     conn.Native,
		cfg:      cfg,
		inCh:     make(chan ObservationRow, 4096),
		closedCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w
}

func (w *Writer) Enqueue(row ObservationRow) error {
	select {
	case <-w.closedCh:
		return errors.New("clickhouse writer closed")
	default:
	}

	select {
	case w.inCh <- row:
		return nil
	case <-w.closedCh:
		return errors.New("clickhouse writer closed")
	}
}

func (w *Writer) Health(ctx context.Context) error {
	return w.conn.Ping(ctx)
}

func (w *Writer) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		close(w.closedCh)
		close(w.inCh)
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Writer) loop() {
	defer w.wg.Done()

	batch := make([]ObservationRow, 0, w.cfg.Writer.BatchMaxRows)
	ticker := time.NewTicker(w.cfg.Writer.BatchMaxInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		if err := w.insertBatch(context.Background(), batch); err != nil {
			w.log.Errorf("Failed insert [%d] rows by batch to clickhouse, error=%v", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case row, ok := <-w.inCh:
			if !ok {
				flush()
				return
			}

			batch = append(batch, row)
			if len(batch) >= w.cfg.Writer.BatchMaxRows {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (w *Writer) insertBatch(ctx context.Context, rows []ObservationRow) error {
	backoff := w.cfg.Writer.RetryBackoff

	var lastErr error
	for attempt := 0; attempt <= w.cfg.Writer.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		if lastErr = w.sendBatch(ctx, rows); lastErr == nil {
			return nil
		}
	}

	return lastErr
}

func (w *Writer) sendBatch(ctx context.Context, rows []ObservationRow) error {
	batch, err := w.conn.PrepareBatch(ctx, `
		INSERT INTO pair_observations (
			observed_at,
			chain_id,
			token_address,
			token_symbol,
			pair_address,
			price_usd,
			volume_h24,
			liquidity_usd,
			txns_h24,
			risk_score
		)
	`)
	if err != nil {
		return err
	}

	for i := range rows {
		r := &rows[i]
		if err = batch.Append(
			r.ObservedAt,
			r.ChainID,
			r.TokenAddress,
			r.TokenSymbol,
			r.PairAddress,
			r.PriceUSD,
			r.VolumeH24,
			r.LiquidityUSD,
			r.TxnsH24,
			r.RiskScore,
		); err != nil {
			_ = batch.Abort()
			return err
		}
	}

	return batch.Send()
}
