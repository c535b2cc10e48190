package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/export"
	"github.com/wonny/ignition/internal/scoring"
	"github.com/wonny/ignition/internal/staging"
	"github.com/wonny/ignition/internal/state"
	"github.com/wonny/ignition/pkg/logger"
)

// Pipeline step names recorded in the last-run status
const (
	StepStagingChunk = "staging-chunk"
	StepRunAll       = "run-all"
	StepScoring      = "scoring"
)

// Runner sequences the staging pipeline: universe → chunk → classify →
// export → scoring. One invocation at a time; overlapping runs skip.
// ⭐ SSOT: 파이프라인 실행 순서는 여기서만
type Runner struct {
	source       contracts.SymbolSource
	filters      contracts.FilterStore
	ledger       contracts.Ledger
	cache        contracts.MarketCache
	oracle       contracts.Oracle
	fundamentals contracts.FundamentalsProvider
	exporter     *export.Exporter
	engine       *scoring.Engine
	locker       contracts.Locker
	store        state.Store
	logger       *logger.Logger

	chunkSize int
	lockWait  time.Duration
	now       func() time.Time
}

// Deps bundles the runner's collaborators. Fundamentals is optional —
// nil skips the lookup and rows carry no fundamentals snapshot.
type Deps struct {
	Source       contracts.SymbolSource
	Filters      contracts.FilterStore
	Ledger       contracts.Ledger
	Cache        contracts.MarketCache
	Oracle       contracts.Oracle
	Fundamentals contracts.FundamentalsProvider
	Exporter     *export.Exporter
	Engine       *scoring.Engine
	Locker       contracts.Locker
	Store        state.Store
	Logger       *logger.Logger

	ChunkSize int
	LockWait  time.Duration
}

// NewRunner creates a pipeline runner
func NewRunner(deps Deps) *Runner {
	return &Runner{
		source:       deps.Source,
		filters:      deps.Filters,
		ledger:       deps.Ledger,
		cache:        deps.Cache,
		oracle:       deps.Oracle,
		fundamentals: deps.Fundamentals,
		exporter:     deps.Exporter,
		engine:       deps.Engine,
		locker:       deps.Locker,
		store:        deps.Store,
		logger:       deps.Logger,
		chunkSize:    deps.ChunkSize,
		lockWait:     deps.LockWait,
		now:          time.Now,
	}
}

// withLock runs fn under the pipeline mutex and records the outcome in
// the last-run status before propagating any error. Lock contention is a
// benign skip, not a failure.
func (r *Runner) withLock(ctx context.Context, step string, fn func(context.Context) error) error {
	ok, err := r.locker.Acquire(ctx, r.lockWait)
	if err != nil {
		return fmt.Errorf("acquire pipeline lock: %w", err)
	}
	if !ok {
		r.logger.WithField("step", step).Info("Skipped — locked")
		return contracts.ErrLocked
	}
	defer func() {
		if err := r.locker.Release(ctx); err != nil {
			r.logger.WithError(err).Warn("Failed to release pipeline lock")
		}
	}()

	runErr := fn(ctx)

	status := contracts.RunStatus{Step: step, LastRun: r.now()}
	if runErr != nil {
		status.LastError = runErr.Error()
	}
	if err := state.SetLastRun(ctx, r.store, status); err != nil {
		r.logger.WithError(err).Warn("Failed to record run status")
	}
	return runErr
}

// ensureUniverse returns the cached ticker universe, fetching and caching
// it (and resetting the cursor) on first use or after a reset
func (r *Runner) ensureUniverse(ctx context.Context) ([]contracts.TickerRecord, error) {
	universe, err := state.Universe(ctx, r.store)
	if err != nil {
		return nil, err
	}
	if len(universe) > 0 {
		return universe, nil
	}

	universe, err = r.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := state.SetUniverse(ctx, r.store, universe); err != nil {
		return nil, err
	}
	cursor := contracts.PagingCursor{TotalSymbols: len(universe)}
	if err := state.SetCursor(ctx, r.store, cursor); err != nil {
		return nil, err
	}

	r.logger.WithField("symbols", len(universe)).Info("Universe fetched and cached")
	return universe, nil
}

// stageChunk processes exactly one chunk: append tickers, fetch quotes,
// derive metrics, classify, persist rows, then persist the cursor.
// Returns done=true when the universe is exhausted.
func (r *Runner) stageChunk(ctx context.Context, universe []contracts.TickerRecord) (done bool, err error) {
	cursor, err := state.Cursor(ctx, r.store)
	if err != nil {
		return false, err
	}
	if cursor.TotalSymbols == 0 && len(universe) > 0 {
		cursor = contracts.PagingCursor{TotalSymbols: len(universe)}
	}

	chunk, next := staging.NextChunk(cursor, universe, r.chunkSize)
	if len(chunk) == 0 {
		return true, nil
	}

	if err := r.ledger.UpsertTickers(ctx, chunk); err != nil {
		return false, err
	}

	filter, err := r.filters.GetActive(ctx)
	if err != nil {
		return false, err
	}

	symbols := make([]string, 0, len(chunk))
	for _, rec := range chunk {
		symbols = append(symbols, rec.Ticker)
	}
	quotes, err := r.oracle.Snapshot(ctx, symbols)
	if err != nil {
		return false, err
	}

	rows := make([]contracts.StagingRow, 0, len(chunk))
	for _, rec := range chunk {
		row := contracts.StagingRow{Ticker: rec.Ticker, Company: rec.Name}

		if quote, ok := quotes[rec.Ticker]; ok {
			row.Metrics = staging.DeriveMetrics(quote)
			row.HasMetrics = true
			row.Fundamentals = r.lookupFundamentals(ctx, rec.Ticker, row.Metrics, *filter)
		}

		staging.Classify(&row, *filter)
		rows = append(rows, row)
	}

	if err := r.ledger.ApplyChunk(ctx, rows); err != nil {
		return false, err
	}
	if err := state.SetCursor(ctx, r.store, next); err != nil {
		return false, err
	}

	r.logger.WithFields(map[string]interface{}{
		"chunk":  len(chunk),
		"cursor": next.NextIndex,
		"total":  next.TotalSymbols,
	}).Info("Chunk staged")

	return next.Done(), nil
}

// lookupFundamentals fetches the optional short-squeeze snapshot for rows
// that clear the base RVOL gate. Lookup failures are logged and ignored —
// the row simply carries no fundamentals.
func (r *Runner) lookupFundamentals(ctx context.Context, ticker string, m contracts.Metrics, f contracts.FilterSpec) *contracts.Fundamentals {
	if r.fundamentals == nil {
		return nil
	}
	if m.RVOL < f.MinRVOLBase {
		return nil
	}

	fund, err := r.fundamentals.Lookup(ctx, ticker)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", ticker).Warn("Fundamentals lookup failed")
		return nil
	}
	return fund
}

// RunOnce stages exactly one chunk and exports, under the pipeline lock.
// Designed for repeated timer-driven invocation: each call persists its
// cursor before returning, so work resumes after a teardown.
func (r *Runner) RunOnce(ctx context.Context) error {
	return r.withLock(ctx, StepStagingChunk, func(ctx context.Context) error {
		universe, err := r.ensureUniverse(ctx)
		if err != nil {
			return err
		}
		if _, err := r.stageChunk(ctx, universe); err != nil {
			return err
		}
		_, err = r.exporter.Run(ctx)
		return err
	})
}

// RunAll loops {chunk → export} until the universe is exhausted or the
// wall-clock budget is spent, then flushes one final export pass
func (r *Runner) RunAll(ctx context.Context, budget time.Duration) error {
	return r.withLock(ctx, StepRunAll, func(ctx context.Context) error {
		universe, err := r.ensureUniverse(ctx)
		if err != nil {
			return err
		}

		deadline := r.now().Add(budget)
		for {
			done, err := r.stageChunk(ctx, universe)
			if err != nil {
				return err
			}
			if _, err := r.exporter.Run(ctx); err != nil {
				return err
			}
			if done {
				break
			}
			if !r.now().Before(deadline) {
				r.logger.Info("Run budget spent, stopping early")
				break
			}
		}

		// Final flush for rows qualified by the last chunk
		_, err = r.exporter.Run(ctx)
		return err
	})
}

// RunScoring scores the market cache under the active filter
func (r *Runner) RunScoring(ctx context.Context) ([]contracts.TradeSignal, error) {
	var signals []contracts.TradeSignal
	err := r.withLock(ctx, StepScoring, func(ctx context.Context) error {
		var err error
		signals, err = r.engine.Run(ctx)
		return err
	})
	return signals, err
}

// RunComparison scores the cache under every stored filter. Read-only, so
// it runs without the pipeline lock.
func (r *Runner) RunComparison(ctx context.Context) ([]scoring.ComparisonEntry, error) {
	return r.engine.Compare(ctx)
}

// SwitchFilter activates the named filter and invalidates computed state
// for all rows not yet exported. Exported rows stay exported.
func (r *Runner) SwitchFilter(ctx context.Context, name string) error {
	if err := r.filters.SetActive(ctx, name); err != nil {
		return err
	}
	if err := r.ledger.ResetForFilterChange(ctx); err != nil {
		return err
	}
	r.logger.WithField("filter", name).Info("Active filter switched, unexported rows invalidated")
	return nil
}

// SoftReset clears the cursor and computed flags but keeps the cached
// universe and ledger rows
func (r *Runner) SoftReset(ctx context.Context) error {
	if err := r.store.Delete(ctx, state.KeyCursor); err != nil {
		return err
	}
	return r.ledger.SoftReset(ctx)
}

// HardReset wipes all state, the ledger and the market cache
func (r *Runner) HardReset(ctx context.Context) error {
	for _, key := range []string{state.KeyCursor, state.KeyUniverse, state.KeyLastRun} {
		if err := r.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	if err := r.ledger.HardReset(ctx); err != nil {
		return err
	}
	return r.cache.Reset(ctx)
}

// Status summarizes pipeline progress for the CLI and API
type Status struct {
	LastRun   *contracts.RunStatus   `json:"last_run,omitempty"`
	Cursor    contracts.PagingCursor `json:"cursor"`
	Universe  int                    `json:"universe"`
	Ledger    contracts.LedgerCounts `json:"ledger"`
	CacheRows int                    `json:"cache_rows"`
	Filter    string                 `json:"filter"`
}

// Status collects the current pipeline status
func (r *Runner) Status(ctx context.Context) (Status, error) {
	var st Status

	lastRun, err := state.LastRun(ctx, r.store)
	if err != nil {
		return st, err
	}
	st.LastRun = lastRun

	if st.Cursor, err = state.Cursor(ctx, r.store); err != nil {
		return st, err
	}

	universe, err := state.Universe(ctx, r.store)
	if err != nil {
		return st, err
	}
	st.Universe = len(universe)

	if st.Ledger, err = r.ledger.Counts(ctx); err != nil {
		return st, err
	}
	if st.CacheRows, err = r.cache.Count(ctx); err != nil {
		return st, err
	}

	if filter, err := r.filters.GetActive(ctx); err == nil {
		st.Filter = filter.Name
	}
	return st, nil
}
