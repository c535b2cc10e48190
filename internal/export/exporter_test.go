package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/staging"
	"github.com/wonny/ignition/pkg/logger"
)

func seedLedger(t *testing.T, ledger *staging.MemoryLedger, rows ...contracts.StagingRow) {
	t.Helper()
	ctx := context.Background()

	records := make([]contracts.TickerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, contracts.TickerRecord{Ticker: row.Ticker, Name: row.Company})
	}
	require.NoError(t, ledger.UpsertTickers(ctx, records))
	require.NoError(t, ledger.ApplyChunk(ctx, rows))
}

func qualifiedRow(ticker string, category contracts.Category) contracts.StagingRow {
	return contracts.StagingRow{
		Ticker:     ticker,
		Company:    ticker + " Inc",
		Category:   category,
		Qualified:  true,
		HasMetrics: true,
		Metrics:    contracts.Metrics{Price: 4.2, Volume: 2e6, AvgVolume10D: 5e5, RVOL: 4.0},
	}
}

func TestExportMovesEligibleRowsOnce(t *testing.T) {
	ctx := context.Background()
	ledger := staging.NewMemoryLedger()
	cache := NewMemoryCache()

	seedLedger(t, ledger,
		qualifiedRow("AAPL", contracts.CategorySqueeze),
		qualifiedRow("MSFT", contracts.CategoryMomentum),
		// PENDING and BUILDING never leave staging
		qualifiedRow("WAIT", contracts.CategoryBuilding),
		contracts.StagingRow{Ticker: "RAW", Company: "Raw Inc", Category: contracts.CategoryPending},
	)

	exporter := NewExporter(ledger, cache, logger.NewNop())

	result, err := exporter.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pending)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Reconciled)

	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Second pass is a no-op: exported rows are no longer pending
	result, err = exporter.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Pending)

	count, err = cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestExportReconcilesOrphanedCacheRow(t *testing.T) {
	ctx := context.Background()
	ledger := staging.NewMemoryLedger()
	cache := NewMemoryCache()

	row := qualifiedRow("GME", contracts.CategorySqueeze)
	seedLedger(t, ledger, row)

	// Simulate a crash after Insert but before MarkExported
	_, err := cache.Insert(ctx, contracts.CacheRowFromStaging(row, row.UpdatedAt))
	require.NoError(t, err)

	exporter := NewExporter(ledger, cache, logger.NewNop())

	result, err := exporter.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pending)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Reconciled)

	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	persisted, ok := ledger.Row("GME")
	require.True(t, ok)
	assert.True(t, persisted.Exported)
}

func TestExportCopiesRowFields(t *testing.T) {
	ctx := context.Background()
	ledger := staging.NewMemoryLedger()
	cache := NewMemoryCache()

	row := qualifiedRow("SNDL", contracts.CategoryBreakout)
	row.Fundamentals = &contracts.Fundamentals{ShortInterestPct: 22, FloatM: 30}
	seedLedger(t, ledger, row)

	exporter := NewExporter(ledger, cache, logger.NewNop())
	_, err := exporter.Run(ctx)
	require.NoError(t, err)

	rows, err := cache.All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	cached := rows[0]
	assert.Equal(t, "SNDL", cached.Ticker)
	assert.Equal(t, contracts.CategoryBreakout, cached.Category)
	assert.InDelta(t, 4.2, cached.Price, 1e-9)
	require.NotNil(t, cached.Fundamentals)
	assert.InDelta(t, 22, cached.Fundamentals.ShortInterestPct, 1e-9)
	assert.False(t, cached.ExportedAt.IsZero())
}
