package staging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ignition/internal/contracts"
)

// Ledger is the Postgres-backed staging ledger
// ⭐ SSOT: 스테이징 원장 영속화는 여기서만
type Ledger struct {
	db *pgxpool.Pool
}

// NewLedger creates a staging ledger over the given pool
func NewLedger(db *pgxpool.Pool) *Ledger {
	return &Ledger{db: db}
}

// UpsertTickers appends chunk tickers. Existing rows are left untouched —
// the ledger holds at most one row per ticker.
func (l *Ledger) UpsertTickers(ctx context.Context, records []contracts.TickerRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO staging_rows (ticker, company)
			VALUES ($1, $2)
			ON CONFLICT (ticker) DO NOTHING
		`, rec.Ticker, rec.Name)
	}

	results := l.db.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert tickers: %w", err)
		}
	}
	return nil
}

// ApplyChunk stores computed metrics, category and qualification for the
// chunk rows. The exported flag is deliberately not touched.
func (l *Ledger) ApplyChunk(ctx context.Context, rows []contracts.StagingRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		fundJSON, err := marshalFundamentals(row.Fundamentals)
		if err != nil {
			return err
		}
		batch.Queue(`
			UPDATE staging_rows SET
				company = $2,
				price = $3, volume = $4, dollar_volume = $5,
				avg_volume_10d = $6, rvol = $7, prev_close = $8,
				change_pct = $9, high_52w = $10, dist_to_high = $11,
				category = $12, qualified = $13, has_metrics = $14,
				fundamentals = $15, updated_at = NOW()
			WHERE ticker = $1
		`, row.Ticker, row.Company,
			row.Price, row.Volume, row.DollarVolume,
			row.AvgVolume10D, row.RVOL, row.PrevClose,
			row.ChangePct, row.High52W, row.DistanceToHighPct,
			string(row.Category), row.Qualified, row.HasMetrics,
			fundJSON)
	}

	results := l.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("apply chunk: %w", err)
		}
	}
	return nil
}

// Recompute re-runs categorization/qualification for every unexported row
// that has metrics, under the given filter. Returns the number of rows
// recomputed. Exported rows are never revisited.
func (l *Ledger) Recompute(ctx context.Context, filter contracts.FilterSpec) (int, error) {
	rows, err := l.selectRows(ctx, `WHERE exported = FALSE AND has_metrics = TRUE`)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range rows {
		Classify(&rows[i], filter)
		batch.Queue(`
			UPDATE staging_rows
			SET category = $2, qualified = $3, updated_at = NOW()
			WHERE ticker = $1
		`, rows[i].Ticker, string(rows[i].Category), rows[i].Qualified)
	}

	results := l.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("recompute: %w", err)
		}
	}
	return len(rows), nil
}

// ResetForFilterChange invalidates computed state for all rows not yet
// exported. Already-exported rows keep their exported flag — no
// retroactive un-export.
func (l *Ledger) ResetForFilterChange(ctx context.Context) error {
	_, err := l.db.Exec(ctx, `
		UPDATE staging_rows
		SET category = 'PENDING', qualified = FALSE, updated_at = NOW()
		WHERE exported = FALSE
	`)
	if err != nil {
		return fmt.Errorf("reset for filter change: %w", err)
	}
	return nil
}

// PendingExport returns export-eligible rows not yet exported, in ticker
// order for deterministic passes.
func (l *Ledger) PendingExport(ctx context.Context) ([]contracts.StagingRow, error) {
	return l.selectRows(ctx, `
		WHERE exported = FALSE
		  AND qualified = TRUE
		  AND category NOT IN ('PENDING', 'BUILDING')
	`)
}

// MarkExported flips the exported flag for one ticker
func (l *Ledger) MarkExported(ctx context.Context, ticker string) error {
	tag, err := l.db.Exec(ctx, `
		UPDATE staging_rows SET exported = TRUE, updated_at = NOW()
		WHERE ticker = $1
	`, ticker)
	if err != nil {
		return fmt.Errorf("mark exported %s: %w", ticker, err)
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// Counts summarizes staging progress
func (l *Ledger) Counts(ctx context.Context) (contracts.LedgerCounts, error) {
	var counts contracts.LedgerCounts
	err := l.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE has_metrics),
			COUNT(*) FILTER (WHERE qualified),
			COUNT(*) FILTER (WHERE exported)
		FROM staging_rows
	`).Scan(&counts.Total, &counts.WithMetric, &counts.Qualified, &counts.Exported)
	if err != nil {
		return counts, fmt.Errorf("ledger counts: %w", err)
	}
	return counts, nil
}

// SoftReset clears computed flags but keeps the rows
func (l *Ledger) SoftReset(ctx context.Context) error {
	_, err := l.db.Exec(ctx, `
		UPDATE staging_rows
		SET category = 'PENDING', qualified = FALSE, exported = FALSE,
		    has_metrics = FALSE, updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("soft reset: %w", err)
	}
	return nil
}

// HardReset removes all rows
func (l *Ledger) HardReset(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, `TRUNCATE staging_rows`); err != nil {
		return fmt.Errorf("hard reset: %w", err)
	}
	return nil
}

func (l *Ledger) selectRows(ctx context.Context, where string) ([]contracts.StagingRow, error) {
	query := `
		SELECT ticker, company, price, volume, dollar_volume,
		       avg_volume_10d, rvol, prev_close, change_pct, high_52w,
		       dist_to_high, category, qualified, exported, has_metrics,
		       fundamentals, updated_at
		FROM staging_rows ` + where + ` ORDER BY ticker`

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query staging rows: %w", err)
	}
	defer rows.Close()

	out := make([]contracts.StagingRow, 0)
	for rows.Next() {
		var row contracts.StagingRow
		var category string
		var fundJSON []byte

		err := rows.Scan(
			&row.Ticker, &row.Company, &row.Price, &row.Volume, &row.DollarVolume,
			&row.AvgVolume10D, &row.RVOL, &row.PrevClose, &row.ChangePct, &row.High52W,
			&row.DistanceToHighPct, &category, &row.Qualified, &row.Exported, &row.HasMetrics,
			&fundJSON, &row.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan staging row: %w", err)
		}

		row.Category = contracts.Category(category)
		if len(fundJSON) > 0 {
			var fund contracts.Fundamentals
			if err := json.Unmarshal(fundJSON, &fund); err != nil {
				return nil, fmt.Errorf("unmarshal fundamentals %s: %w", row.Ticker, err)
			}
			row.Fundamentals = &fund
		}

		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate staging rows: %w", rows.Err())
	}
	return out, nil
}

func marshalFundamentals(fund *contracts.Fundamentals) (interface{}, error) {
	if fund == nil {
		return nil, nil
	}
	data, err := json.Marshal(fund)
	if err != nil {
		return nil, fmt.Errorf("marshal fundamentals: %w", err)
	}
	return string(data), nil
}
