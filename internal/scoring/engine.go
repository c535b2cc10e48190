package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/pkg/logger"
)

// SignalStore persists scoring output. Replace swaps the current signal
// set; Track appends the run's signals to the outcome tracker log.
type SignalStore interface {
	Replace(ctx context.Context, runAt time.Time, signals []contracts.TradeSignal) error
	Track(ctx context.Context, runAt time.Time, signals []contracts.TradeSignal) error
	Latest(ctx context.Context) ([]contracts.TradeSignal, error)
}

// Engine turns market-cache rows into ranked trade signals
// ⭐ SSOT: 시그널 생성 오케스트레이션은 여기서만
type Engine struct {
	cache   contracts.MarketCache
	filters contracts.FilterStore
	store   SignalStore
	logger  *logger.Logger

	topN int
	now  func() time.Time
}

// NewEngine creates a scoring engine. topN bounds the ranked output.
func NewEngine(cache contracts.MarketCache, filters contracts.FilterStore, store SignalStore, log *logger.Logger, topN int) *Engine {
	return &Engine{
		cache:   cache,
		filters: filters,
		store:   store,
		logger:  log,
		topN:    topN,
		now:     time.Now,
	}
}

// Evaluate runs the full scan→score→rank chain over the given rows.
// Pure apart from the inputs; the comparison report reuses it per filter.
func (e *Engine) Evaluate(rows []contracts.MarketCacheRow, f contracts.FilterSpec) []contracts.TradeSignal {
	candidates := Scan(rows, f)

	signals := make([]contracts.TradeSignal, 0, len(candidates))
	for _, row := range candidates {
		signals = append(signals, BuildSignal(row, f))
	}
	return Rank(signals, e.topN)
}

// Run scores the cache under the active filter and persists the result
func (e *Engine) Run(ctx context.Context) ([]contracts.TradeSignal, error) {
	filter, err := e.filters.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active filter: %w", err)
	}

	rows, err := e.cache.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market cache: %w", err)
	}

	signals := e.Evaluate(rows, *filter)

	runAt := e.now()
	if e.store != nil {
		if err := e.store.Replace(ctx, runAt, signals); err != nil {
			return nil, fmt.Errorf("persist signals: %w", err)
		}
		if err := e.store.Track(ctx, runAt, signals); err != nil {
			return nil, fmt.Errorf("track signals: %w", err)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"filter":     filter.Name,
		"cache_rows": len(rows),
		"signals":    len(signals),
	}).Info("Scoring run complete")

	return signals, nil
}

// ComparisonEntry is one filter's result in the all-filters report
type ComparisonEntry struct {
	Filter     string                  `json:"filter"`
	Active     bool                    `json:"active"`
	Candidates int                     `json:"candidates"`
	Signals    []contracts.TradeSignal `json:"signals"`
}

// Compare scores the cache under every stored filter without persisting
// anything. Output order follows the filter list.
func (e *Engine) Compare(ctx context.Context) ([]ComparisonEntry, error) {
	specs, err := e.filters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}

	active, err := e.filters.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active filter: %w", err)
	}

	rows, err := e.cache.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market cache: %w", err)
	}

	report := make([]ComparisonEntry, 0, len(specs))
	for _, spec := range specs {
		report = append(report, ComparisonEntry{
			Filter:     spec.Name,
			Active:     spec.Name == active.Name,
			Candidates: len(Scan(rows, spec)),
			Signals:    e.Evaluate(rows, spec),
		})
	}
	return report, nil
}
