package staging

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/ignition/internal/contracts"
)

// MemoryLedger is an in-process staging ledger with the same semantics as
// the Postgres ledger. Used by tests and DB-less runs.
type MemoryLedger struct {
	mu   sync.RWMutex
	rows map[string]contracts.StagingRow
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		rows: make(map[string]contracts.StagingRow),
	}
}

// UpsertTickers implements contracts.Ledger
func (l *MemoryLedger) UpsertTickers(ctx context.Context, records []contracts.TickerRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rec := range records {
		if _, exists := l.rows[rec.Ticker]; exists {
			continue
		}
		l.rows[rec.Ticker] = contracts.StagingRow{
			Ticker:    rec.Ticker,
			Company:   rec.Name,
			Category:  contracts.CategoryPending,
			UpdatedAt: time.Now(),
		}
	}
	return nil
}

// ApplyChunk implements contracts.Ledger
func (l *MemoryLedger) ApplyChunk(ctx context.Context, rows []contracts.StagingRow) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, row := range rows {
		existing, exists := l.rows[row.Ticker]
		if !exists {
			existing = contracts.StagingRow{Ticker: row.Ticker}
		}

		// Exported flag survives chunk updates
		row.Exported = existing.Exported
		row.UpdatedAt = time.Now()
		l.rows[row.Ticker] = row
	}
	return nil
}

// Recompute implements contracts.Ledger
func (l *MemoryLedger) Recompute(ctx context.Context, filter contracts.FilterSpec) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for ticker, row := range l.rows {
		if row.Exported || !row.HasMetrics {
			continue
		}
		Classify(&row, filter)
		row.UpdatedAt = time.Now()
		l.rows[ticker] = row
		n++
	}
	return n, nil
}

// ResetForFilterChange implements contracts.Ledger
func (l *MemoryLedger) ResetForFilterChange(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ticker, row := range l.rows {
		if row.Exported {
			continue
		}
		row.Category = contracts.CategoryPending
		row.Qualified = false
		row.UpdatedAt = time.Now()
		l.rows[ticker] = row
	}
	return nil
}

// PendingExport implements contracts.Ledger
func (l *MemoryLedger) PendingExport(ctx context.Context) ([]contracts.StagingRow, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]contracts.StagingRow, 0)
	for _, row := range l.rows {
		if !row.Exported && ExportEligible(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

// MarkExported implements contracts.Ledger
func (l *MemoryLedger) MarkExported(ctx context.Context, ticker string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	row, exists := l.rows[ticker]
	if !exists {
		return contracts.ErrNotFound
	}
	row.Exported = true
	row.UpdatedAt = time.Now()
	l.rows[ticker] = row
	return nil
}

// Counts implements contracts.Ledger
func (l *MemoryLedger) Counts(ctx context.Context) (contracts.LedgerCounts, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var counts contracts.LedgerCounts
	for _, row := range l.rows {
		counts.Total++
		if row.HasMetrics {
			counts.WithMetric++
		}
		if row.Qualified {
			counts.Qualified++
		}
		if row.Exported {
			counts.Exported++
		}
	}
	return counts, nil
}

// SoftReset implements contracts.Ledger
func (l *MemoryLedger) SoftReset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ticker, row := range l.rows {
		row.Category = contracts.CategoryPending
		row.Qualified = false
		row.Exported = false
		row.HasMetrics = false
		row.UpdatedAt = time.Now()
		l.rows[ticker] = row
	}
	return nil
}

// HardReset implements contracts.Ledger
func (l *MemoryLedger) HardReset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rows = make(map[string]contracts.StagingRow)
	return nil
}

// Row returns one row by ticker (test helper)
func (l *MemoryLedger) Row(ticker string) (contracts.StagingRow, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	row, ok := l.rows[ticker]
	return row, ok
}
