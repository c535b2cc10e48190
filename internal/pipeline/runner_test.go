package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/export"
	"github.com/wonny/ignition/internal/filters"
	"github.com/wonny/ignition/internal/marketdata"
	"github.com/wonny/ignition/internal/scoring"
	"github.com/wonny/ignition/internal/staging"
	"github.com/wonny/ignition/internal/state"
	"github.com/wonny/ignition/pkg/logger"
)

type staticSource struct {
	records []contracts.TickerRecord
	err     error
	fetches int
}

func (s *staticSource) Fetch(ctx context.Context) ([]contracts.TickerRecord, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type harness struct {
	runner *Runner
	ledger *staging.MemoryLedger
	cache  *export.MemoryCache
	store  state.Store
	source *staticSource
	engine *scoring.MemoryStore
	locker contracts.Locker
}

func newHarness(t *testing.T, chunkSize int, universe []contracts.TickerRecord, quotes map[string]contracts.Quote) *harness {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	kv := state.NewMemoryStore()
	filterStore := filters.NewMemoryStore(kv)
	require.NoError(t, filters.SeedDefaults(ctx, filterStore))

	ledger := staging.NewMemoryLedger()
	cache := export.NewMemoryCache()
	signalStore := scoring.NewMemoryStore()
	locker := state.NewLocalLock()
	source := &staticSource{records: universe}

	runner := NewRunner(Deps{
		Source:   source,
		Filters:  filterStore,
		Ledger:   ledger,
		Cache:    cache,
		Oracle:   &marketdata.StaticOracle{Quotes: quotes},
		Exporter: export.NewExporter(ledger, cache, log),
		Engine:   scoring.NewEngine(cache, filterStore, signalStore, log, 12),
		Locker:   locker,
		Store:    kv,
		Logger:   log,

		ChunkSize: chunkSize,
		LockWait:  10 * time.Millisecond,
	})

	return &harness{
		runner: runner,
		ledger: ledger,
		cache:  cache,
		store:  kv,
		source: source,
		engine: signalStore,
		locker: locker,
	}
}

func tickers(symbols ...string) []contracts.TickerRecord {
	out := make([]contracts.TickerRecord, 0, len(symbols))
	for _, sym := range symbols {
		out = append(out, contracts.TickerRecord{Ticker: sym, Name: sym + " Inc"})
	}
	return out
}

// squeezeQuote clears every squeeze-hunter gate and the ignition rule
func squeezeQuote(symbol string) contracts.Quote {
	return contracts.Quote{
		Symbol: symbol, Price: 6.0, Volume: 4e6, AvgVolume10D: 1e6,
		PrevClose: 5.5, High52W: 6.1,
	}
}

func TestRunOnceStagesOneChunkAndExports(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 2, tickers("AAA", "BBB", "CCC"), map[string]contracts.Quote{
		"AAA": squeezeQuote("AAA"),
		"BBB": {Symbol: "BBB", Price: 6.0, Volume: 5e5, AvgVolume10D: 1e6, PrevClose: 6.2, High52W: 12},
	})

	require.NoError(t, h.runner.RunOnce(ctx))

	// One fetch cached the universe
	assert.Equal(t, 1, h.source.fetches)

	cursor, err := state.Cursor(ctx, h.store)
	require.NoError(t, err)
	assert.Equal(t, contracts.PagingCursor{TotalSymbols: 3, NextIndex: 2}, cursor)

	// AAA ignited and was exported; BBB is quiet, CCC not yet staged
	row, ok := h.ledger.Row("AAA")
	require.True(t, ok)
	assert.Equal(t, contracts.CategorySqueeze, row.Category)
	assert.True(t, row.Exported)

	count, err := h.cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Second invocation resumes from the persisted cursor
	require.NoError(t, h.runner.RunOnce(ctx))
	assert.Equal(t, 1, h.source.fetches)

	cursor, err = state.Cursor(ctx, h.store)
	require.NoError(t, err)
	assert.True(t, cursor.Done())
}

func TestRunOnceMissingQuoteStaysPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("GONE"), nil)

	require.NoError(t, h.runner.RunOnce(ctx))

	row, ok := h.ledger.Row("GONE")
	require.True(t, ok)
	assert.Equal(t, contracts.CategoryPending, row.Category)
	assert.False(t, row.HasMetrics)
	assert.False(t, row.Exported)
}

func TestRunAllExhaustsUniverse(t *testing.T) {
	ctx := context.Background()
	universe := tickers("AAA", "BBB", "CCC", "DDD", "EEE")
	quotes := make(map[string]contracts.Quote, len(universe))
	for _, rec := range universe {
		quotes[rec.Ticker] = squeezeQuote(rec.Ticker)
	}
	h := newHarness(t, 2, universe, quotes)

	require.NoError(t, h.runner.RunAll(ctx, time.Minute))

	cursor, err := state.Cursor(ctx, h.store)
	require.NoError(t, err)
	assert.True(t, cursor.Done())

	count, err := h.cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	status, err := state.LastRun(ctx, h.store)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, StepRunAll, status.Step)
	assert.Empty(t, status.LastError)
}

func TestRunSkipsWhenLocked(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 2, tickers("AAA"), nil)

	ok, err := h.locker.Acquire(ctx, time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	defer h.locker.Release(ctx)

	err = h.runner.RunOnce(ctx)
	assert.ErrorIs(t, err, contracts.ErrLocked)

	// A skipped run leaves no status record and no staged rows
	status, stErr := state.LastRun(ctx, h.store)
	require.NoError(t, stErr)
	assert.Nil(t, status)

	_, staged := h.ledger.Row("AAA")
	assert.False(t, staged)
}

func TestFetchFailureRecordedInStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 2, nil, nil)
	h.source.err = &contracts.FetchError{URL: "http://example.test", StatusCode: 502}

	err := h.runner.RunOnce(ctx)
	require.Error(t, err)
	assert.True(t, contracts.IsFetchError(err))

	status, stErr := state.LastRun(ctx, h.store)
	require.NoError(t, stErr)
	require.NotNil(t, status)
	assert.Equal(t, StepStagingChunk, status.Step)
	assert.NotEmpty(t, status.LastError)
}

func TestRunScoringProducesRankedSignals(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("AAA", "BBB"), map[string]contracts.Quote{
		"AAA": squeezeQuote("AAA"),
		"BBB": squeezeQuote("BBB"),
	})

	require.NoError(t, h.runner.RunAll(ctx, time.Minute))

	signals, err := h.runner.RunScoring(ctx)
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, 1, signals[0].Rank)

	latest, err := h.engine.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, signals, latest)
}

func TestSwitchFilterInvalidatesUnexported(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("HOT", "WARM"), map[string]contracts.Quote{
		"HOT": squeezeQuote("HOT"),
		// WARM has metrics but stays BUILDING (flat day, low RVOL)
		"WARM": {Symbol: "WARM", Price: 6.0, Volume: 5e5, AvgVolume10D: 1e6, PrevClose: 6.0, High52W: 12},
	})

	require.NoError(t, h.runner.RunOnce(ctx))

	hot, _ := h.ledger.Row("HOT")
	require.True(t, hot.Exported)

	require.NoError(t, h.runner.SwitchFilter(ctx, "momentum-base"))

	// Exported row keeps its state; unexported row was reset to PENDING
	hot, _ = h.ledger.Row("HOT")
	assert.True(t, hot.Exported)
	assert.Equal(t, contracts.CategorySqueeze, hot.Category)

	warm, _ := h.ledger.Row("WARM")
	assert.Equal(t, contracts.CategoryPending, warm.Category)
	assert.False(t, warm.Qualified)

	active, err := h.runner.filters.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "momentum-base", active.Name)
}

func TestSwitchFilterUnknownName(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("AAA"), nil)

	err := h.runner.SwitchFilter(ctx, "no-such-filter")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestSoftResetKeepsUniverse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("AAA"), map[string]contracts.Quote{"AAA": squeezeQuote("AAA")})

	require.NoError(t, h.runner.RunOnce(ctx))
	require.NoError(t, h.runner.SoftReset(ctx))

	cursor, err := state.Cursor(ctx, h.store)
	require.NoError(t, err)
	assert.Zero(t, cursor.NextIndex)

	universe, err := state.Universe(ctx, h.store)
	require.NoError(t, err)
	assert.Len(t, universe, 1)

	// Next run restages from index 0 without refetching
	require.NoError(t, h.runner.RunOnce(ctx))
	assert.Equal(t, 1, h.source.fetches)
}

func TestHardResetWipesEverything(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("AAA"), map[string]contracts.Quote{"AAA": squeezeQuote("AAA")})

	require.NoError(t, h.runner.RunOnce(ctx))
	require.NoError(t, h.runner.HardReset(ctx))

	universe, err := state.Universe(ctx, h.store)
	require.NoError(t, err)
	assert.Empty(t, universe)

	counts, err := h.ledger.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Total)

	cacheCount, err := h.cache.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, cacheCount)

	// Next run starts from scratch: universe is refetched
	require.NoError(t, h.runner.RunOnce(ctx))
	assert.Equal(t, 2, h.source.fetches)
}

func TestStatusReport(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 10, tickers("AAA"), map[string]contracts.Quote{"AAA": squeezeQuote("AAA")})

	require.NoError(t, h.runner.RunOnce(ctx))

	status, err := h.runner.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Universe)
	assert.Equal(t, 1, status.Ledger.Total)
	assert.Equal(t, 1, status.CacheRows)
	assert.Equal(t, "squeeze-hunter", status.Filter)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, StepStagingChunk, status.LastRun.Step)
}
