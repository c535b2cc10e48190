package contracts

import (
	"context"
	"time"
)

// SymbolSource fetches the exchange symbol directory
// ⭐ SSOT: 심볼 유니버스 수집 인터페이스
type SymbolSource interface {
	Fetch(ctx context.Context) ([]TickerRecord, error)
}

// FilterStore manages named qualification parameter sets
// ⭐ SSOT: 필터 조회/활성화 인터페이스
type FilterStore interface {
	GetByName(ctx context.Context, name string) (*FilterSpec, error)
	GetDefault(ctx context.Context) (*FilterSpec, error)
	GetActive(ctx context.Context) (*FilterSpec, error)
	SetActive(ctx context.Context, name string) error
	Save(ctx context.Context, spec *FilterSpec) error
	List(ctx context.Context) ([]FilterSpec, error)
}

// LedgerCounts summarizes staging progress for status reporting
type LedgerCounts struct {
	Total      int `json:"total"`
	WithMetric int `json:"with_metrics"`
	Qualified  int `json:"qualified"`
	Exported   int `json:"exported"`
}

// Ledger is the append-only staging table, keyed by ticker
// ⭐ SSOT: 스테이징 원장 인터페이스
type Ledger interface {
	// UpsertTickers appends chunk tickers, preserving existing rows
	UpsertTickers(ctx context.Context, records []TickerRecord) error
	// ApplyChunk stores computed metrics/category/qualified for the chunk,
	// never touching the exported flag
	ApplyChunk(ctx context.Context, rows []StagingRow) error
	// Recompute re-runs categorization/qualification for all unexported
	// rows with metrics under the given filter
	Recompute(ctx context.Context, filter FilterSpec) (int, error)
	// ResetForFilterChange clears qualified/category/export state for
	// rows not yet exported; exported rows stay exported
	ResetForFilterChange(ctx context.Context) error
	// PendingExport returns export-eligible rows not yet exported
	PendingExport(ctx context.Context) ([]StagingRow, error)
	// MarkExported flips the exported flag for one ticker
	MarkExported(ctx context.Context, ticker string) error
	Counts(ctx context.Context) (LedgerCounts, error)
	// SoftReset clears computed flags but keeps rows
	SoftReset(ctx context.Context) error
	// HardReset removes all rows
	HardReset(ctx context.Context) error
}

// MarketCache is the deduplicated second-stage cache
// ⭐ SSOT: 마켓 캐시 인터페이스
type MarketCache interface {
	// Insert appends a row; returns false when the ticker already exists
	Insert(ctx context.Context, row MarketCacheRow) (bool, error)
	All(ctx context.Context) ([]MarketCacheRow, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

// Oracle supplies raw market-data snapshots per chunk
type Oracle interface {
	Snapshot(ctx context.Context, symbols []string) (map[string]Quote, error)
}

// FundamentalsProvider supplies optional float/short-interest lookups
type FundamentalsProvider interface {
	Lookup(ctx context.Context, ticker string) (*Fundamentals, error)
}

// Locker serializes whole pipeline passes across invocations
type Locker interface {
	Acquire(ctx context.Context, wait time.Duration) (bool, error)
	Release(ctx context.Context) error
}
