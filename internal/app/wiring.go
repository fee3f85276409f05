package app

import (
	"context"
	"fmt"
	"time"

	"github.com/grafana/pyroscope-go"
	lgcfg "gitlab.com/nevasik7/alerting/config"
	"gitlab.com/nevasik7/alerting/logger"

	apihttp "dexsentry/internal/api/http"
	"dexsentry/internal/config"
	"dexsentry/internal/history"
	"dexsentry/internal/insight"
	"dexsentry/internal/metrics"
	"dexsentry/internal/provider/dexscreener"
	natsps "dexsentry/internal/pubsub/nats"
	"dexsentry/internal/security"
	"dexsentry/internal/service"
	"dexsentry/internal/stores"
	"dexsentry/internal/stores/clickhouse"
	"dexsentry/internal/stores/file"
	rds "dexsentry/internal/stores/redis"
	"dexsentry/internal/throttle"
)

type Container struct {
	app *App

	// infra
	redis *rds.Client
	ch    *clickhouse.Conn
	nc    *natsps.Client

	// servers
	httpSrv *apihttp.Server

	// metrics
	profiler *pyroscope.Profiler

	cleanupF func()
}

func (c *Container) Start() error {
	return c.app.Start()
}

func (c *Container) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.app.Shutdown(ctx); err != nil {
		return fmt.Errorf("app shutdown is failed, error=%w", err)
	}

	if c.cleanupF != nil {
		c.cleanupF()
	}
	return nil
}

// Build constructs the whole object graph from config.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	lg := logger.New(lgcfg.LoggerCfg{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	lg.Info("Successfully initialize logger")

	profiler, err := metrics.InitPProf(cfg.App.InstanceID, &cfg.Metrics.Pyroscope)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pyroscope: %w", err)
	}

	// Redis client, optional: backs the redis snapshot store and the API rate limiter
	var rdb *rds.Client
	if cfg.Stores.Redis.Addr != "" {
		if rdb, err = rds.New(ctx, &cfg.Stores.Redis); err != nil {
			return nil, fmt.Errorf("failed to initialize redis client: %w", err)
		}
		lg.Infof("Successfully initialize redis client, addr=%s", cfg.Stores.Redis.Addr)
	}

	// Snapshot store
	var snapshots stores.SnapshotStore
	switch cfg.Stores.Snapshot.Backend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("snapshot backend is redis but no redis addr configured")
		}
		if snapshots, err = rds.NewSnapshotStore(lg, rdb, cfg.Stores.Redis.Prefix); err != nil {
			return nil, fmt.Errorf("failed to initialize redis snapshot store: %w", err)
		}
		lg.Info("Successfully initialize redis snapshot store")
	default:
		if snapshots, err = file.New(lg, cfg.Stores.Snapshot.Dir); err != nil {
			return nil, fmt.Errorf("failed to initialize file snapshot store: %w", err)
		}
		lg.Infof("Successfully initialize file snapshot store, dir=%s", cfg.Stores.Snapshot.Dir)
	}

	// Price feed
	provider := dexscreener.NewClient(lg, &cfg.Provider)
	lg.Info("Successfully initialize DexScreener client")

	// In-process state
	state := history.NewStore(cfg.Analytics.HistoryCap)

	// Insight stub
	insights := insight.NewStatic(cfg.Insight.APIKey)

	sentry := service.NewSentryService(lg, provider, snapshots, state, insights)

	// NATS alert fan-out, optional
	var nc *natsps.Client
	var gate *throttle.Memory
	if cfg.PubSub.NATS.Enabled {
		if nc, err = natsps.New(lg, &cfg.PubSub.NATS); err != nil {
			return nil, fmt.Errorf("failed to initialize nats client: %w", err)
		}
		lg.Infof("Successfully initialize nats client, url=%s", cfg.PubSub.NATS.URL)

		ttl := cfg.Analytics.AlertThrottleTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		gate = throttle.NewMemory(lg, ttl, time.Minute)
		sentry.WithBroadcaster(nc, gate)
	}

	// ClickHouse observation archive, optional
	var ch *clickhouse.Conn
	var chWriter *clickhouse.Writer
	if cfg.Stores.ClickHouse.Enabled {
		if ch, err = clickhouse.New(ctx, &cfg.Stores.ClickHouse); err != nil {
			return nil, fmt.Errorf("failed to initialize clickhouse client: %w", err)
		}
		chWriter = clickhouse.NewWriter(lg, ch, cfg.Stores.ClickHouse)
		sentry.WithArchive(chWriter)
		lg.Info("Successfully initialize clickhouse writer")
	}

	// JWT verifier, optional
	var verifier *security.RS256Verifier
	if cfg.Security.JWT.Enabled {
		if verifier, err = security.NewRS256Verifier(
			cfg.Security.JWT.PublicKeyPath,
			cfg.Security.JWT.Audience,
			cfg.Security.JWT.Issuer,
		); err != nil {
			return nil, fmt.Errorf("failed to initialize jwt verifier: %w", err)
		}
		lg.Info("Successfully initialize JWT verifier")
	}

	httpSrv := apihttp.NewServer(&apihttp.ServerDeps{
		Logger:   lg,
		Cfg:      cfg,
		Redis:    rdb,
		Verifier: verifier,
		Sentry:   sentry,
	})
	lg.Info("Successfully initialize HTTP server")

	c := &Container{
		app:      NewApp(lg, httpSrv),
		redis:    rdb,
		ch:       ch,
		nc:       nc,
		httpSrv:  httpSrv,
		profiler: profiler,
	}

	c.cleanupF = func() {
		ctxClean, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if c.profiler != nil {
			if err := c.profiler.Stop(); err != nil {
				lg.Errorf("Failed to stop profiler: %v", err)
			}
		}

		if gate != nil {
			gate.Close()
		}

		if chWriter != nil {
			if err := chWriter.Close(ctxClean); err != nil {
				lg.Errorf("Failed to close clickhouse writer: %v", err)
			}
		}

		if c.ch != nil {
			if err := c.ch.Close(); err != nil {
				lg.Errorf("Failed to close clickhouse client: %v", err)
			}
		}

		if c.nc != nil {
			if err := c.nc.Close(); err != nil {
				lg.Errorf("Failed to close nats client: %v", err)
			}
		}

		if c.redis != nil {
			if err := c.redis.Close(); err != nil {
				lg.Errorf("Failed to close redis client: %v", err)
			}
		}

		lg.Info("Successfully cleaned up dependency")
	}

	lg.Info("Successfully initialize Wiring")
	return c, nil
}
