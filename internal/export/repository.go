package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ignition/internal/contracts"
)

// Cache is the Postgres-backed market cache
// ⭐ SSOT: 마켓 캐시 영속화는 여기서만
type Cache struct {
	db *pgxpool.Pool
}

// NewCache creates a market cache over the given pool
func NewCache(db *pgxpool.Pool) *Cache {
	return &Cache{db: db}
}

// Insert appends one row. The primary key makes re-insertion a no-op:
// a false return means the ticker was already cached.
func (c *Cache) Insert(ctx context.Context, row contracts.MarketCacheRow) (bool, error) {
	var fundJSON interface{}
	if row.Fundamentals != nil {
		data, err := json.Marshal(row.Fundamentals)
		if err != nil {
			return false, fmt.Errorf("marshal fundamentals: %w", err)
		}
		fundJSON = string(data)
	}

	tag, err := c.db.Exec(ctx, `
		INSERT INTO market_cache (
			ticker, company, price, volume, dollar_volume,
			avg_volume_10d, rvol, change_pct, dist_to_high,
			category, fundamentals, exported_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ticker) DO NOTHING
	`, row.Ticker, row.Company, row.Price, row.Volume, row.DollarVolume,
		row.AvgVolume10D, row.RVOL, row.ChangePct, row.DistanceToHighPct,
		string(row.Category), fundJSON, row.ExportedAt)
	if err != nil {
		return false, fmt.Errorf("insert cache row %s: %w", row.Ticker, err)
	}
	return tag.RowsAffected() > 0, nil
}

// All returns every cached row ordered by ticker
func (c *Cache) All(ctx context.Context) ([]contracts.MarketCacheRow, error) {
	rows, err := c.db.Query(ctx, `
		SELECT ticker, company, price, volume, dollar_volume,
		       avg_volume_10d, rvol, change_pct, dist_to_high,
		       category, fundamentals, exported_at
		FROM market_cache
		ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("query market cache: %w", err)
	}
	defer rows.Close()

	var out []contracts.MarketCacheRow
	for rows.Next() {
		var row contracts.MarketCacheRow
		var category string
		var fundJSON []byte

		err := rows.Scan(&row.Ticker, &row.Company, &row.Price, &row.Volume,
			&row.DollarVolume, &row.AvgVolume10D, &row.RVOL, &row.ChangePct,
			&row.DistanceToHighPct, &category, &fundJSON, &row.ExportedAt)
		if err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
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
	return out, rows.Err()
}

// Count returns the number of cached tickers
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRow(ctx, `SELECT COUNT(*) FROM market_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count market cache: %w", err)
	}
	return n, nil
}

// Reset drops every cached row
func (c *Cache) Reset(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, `TRUNCATE market_cache`); err != nil {
		return fmt.Errorf("reset market cache: %w", err)
	}
	return nil
}
