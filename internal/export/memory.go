package export

import (
	"context"
	"sort"
	"sync"

	"github.com/wonny/ignition/internal/contracts"
)

// MemoryCache is an in-memory market cache with the same dedup semantics
// as the Postgres one. Used by tests and DB-less runs.
type MemoryCache struct {
	mu   sync.RWMutex
	rows map[string]contracts.MarketCacheRow
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{rows: make(map[string]contracts.MarketCacheRow)}
}

// Insert appends one row; returns false when the ticker already exists
func (c *MemoryCache) Insert(ctx context.Context, row contracts.MarketCacheRow) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.rows[row.Ticker]; exists {
		return false, nil
	}
	c.rows[row.Ticker] = row
	return true, nil
}

// All returns every cached row ordered by ticker
func (c *MemoryCache) All(ctx context.Context) ([]contracts.MarketCacheRow, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]contracts.MarketCacheRow, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

// Count returns the number of cached tickers
func (c *MemoryCache) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows), nil
}

// Reset drops every cached row
func (c *MemoryCache) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = make(map[string]contracts.MarketCacheRow)
	return nil
}

var _ contracts.MarketCache = (*MemoryCache)(nil)
