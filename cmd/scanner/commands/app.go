package commands

import (
	"context"
	"fmt"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/export"
	"github.com/wonny/ignition/internal/filters"
	"github.com/wonny/ignition/internal/marketdata"
	"github.com/wonny/ignition/internal/pipeline"
	"github.com/wonny/ignition/internal/scoring"
	"github.com/wonny/ignition/internal/staging"
	"github.com/wonny/ignition/internal/state"
	"github.com/wonny/ignition/internal/universe"
	"github.com/wonny/ignition/pkg/config"
	"github.com/wonny/ignition/pkg/database"
	"github.com/wonny/ignition/pkg/httputil"
	"github.com/wonny/ignition/pkg/logger"
	"github.com/wonny/ignition/pkg/redis"
)

// app bundles the wired application for one command invocation
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	runner *pipeline.Runner

	filterStore contracts.FilterStore
	signalStore scoring.SignalStore

	db    *database.DB
	redis *redis.Client
}

// buildApp wires the full pipeline from configuration. Without a
// DATABASE_URL every store runs in memory — useful for dry runs, nothing
// survives the process.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var kv state.Store
	var locker contracts.Locker
	if redisClient.Enabled() {
		kv = state.NewRedisStore(redisClient)
		locker = redis.NewLock(redisClient, "ignition:lock:pipeline", cfg.Pipeline.LockTTL)
	} else {
		kv = state.NewMemoryStore()
		locker = state.NewLocalLock()
	}

	a := &app{cfg: cfg, logger: log, redis: redisClient}

	var ledger contracts.Ledger
	var cache contracts.MarketCache
	var filterStore contracts.FilterStore
	var signalStore scoring.SignalStore

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.db = db

		ledger = staging.NewLedger(db.Pool)
		cache = export.NewCache(db.Pool)
		filterStore = filters.NewStore(db.Pool, kv)
		signalStore = scoring.NewRepository(db.Pool)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		ledger = staging.NewMemoryLedger()
		cache = export.NewMemoryCache()
		filterStore = filters.NewMemoryStore(kv)
		signalStore = scoring.NewMemoryStore()
	}

	httpClient := httputil.New(log).WithRateLimit(cfg.MarketData.RequestsPerSec)

	source := universe.NewSource(httpClient, log, cfg.Nasdaq.ListingURL)
	oracle := marketdata.NewClient(httpClient, log, cfg.MarketData.SnapshotURL)

	var fundamentals contracts.FundamentalsProvider
	if cfg.MarketData.FundamentalsURL != "" {
		fundamentals = marketdata.NewFundamentalsClient(httpClient, log, cfg.MarketData.FundamentalsURL)
	}

	engine := scoring.NewEngine(cache, filterStore, signalStore, log, cfg.Pipeline.TopN)

	a.filterStore = filterStore
	a.signalStore = signalStore
	a.runner = pipeline.NewRunner(pipeline.Deps{
		Source:       source,
		Filters:      filterStore,
		Ledger:       ledger,
		Cache:        cache,
		Oracle:       oracle,
		Fundamentals: fundamentals,
		Exporter:     export.NewExporter(ledger, cache, log),
		Engine:       engine,
		Locker:       locker,
		Store:        kv,
		Logger:       log,

		ChunkSize: cfg.Pipeline.ChunkSize,
		LockWait:  cfg.Pipeline.LockWait,
	})

	return a, nil
}

// Close releases database and Redis connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
