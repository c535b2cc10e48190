package export

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/pkg/logger"
)

// Exporter moves export-eligible staging rows into the market cache
// exactly once per ticker.
// ⭐ SSOT: 스테이징 → 캐시 이관은 이 단계에서만
type Exporter struct {
	ledger contracts.Ledger
	cache  contracts.MarketCache
	logger *logger.Logger

	now func() time.Time
}

// NewExporter creates an export stage over the ledger and cache
func NewExporter(ledger contracts.Ledger, cache contracts.MarketCache, log *logger.Logger) *Exporter {
	return &Exporter{
		ledger: ledger,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
}

// Result summarizes one export pass
type Result struct {
	Pending    int `json:"pending"`
	Inserted   int `json:"inserted"`
	Reconciled int `json:"reconciled"`
}

// Run exports every pending row. Insert and mark-exported are not one
// transaction; the cache primary key plus reconciliation make a crash
// between the two harmless — the next pass sees the conflict and only
// flips the flag.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	pending, err := e.ledger.PendingExport(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load pending export: %w", err)
	}

	result := Result{Pending: len(pending)}
	for _, row := range pending {
		inserted, err := e.cache.Insert(ctx, contracts.CacheRowFromStaging(row, e.now()))
		if err != nil {
			return result, fmt.Errorf("export %s: %w", row.Ticker, err)
		}

		if err := e.ledger.MarkExported(ctx, row.Ticker); err != nil {
			return result, fmt.Errorf("mark exported %s: %w", row.Ticker, err)
		}

		if inserted {
			result.Inserted++
		} else {
			// Previous pass inserted but crashed before flipping the flag
			result.Reconciled++
			e.logger.WithField("ticker", row.Ticker).Warn("Reconciled cache row missing exported flag")
		}
	}

	if result.Pending > 0 {
		e.logger.WithFields(map[string]interface{}{
			"pending":    result.Pending,
			"inserted":   result.Inserted,
			"reconciled": result.Reconciled,
		}).Info("Export pass complete")
	}
	return result, nil
}
