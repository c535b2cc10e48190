package state

import (
	"context"
	"fmt"

	"github.com/wonny/ignition/internal/contracts"
)

// Persisted state keys
// ⭐ SSOT: 파이프라인 상태 키는 여기서만 정의
const (
	KeyActiveFilter = "filter:active"
	KeyCursor       = "staging:cursor"
	KeyUniverse     = "universe:symbols"
	KeyLastRun      = "status:last_run"
)

// Store is the injected key-value state store. Every cross-invocation
// pointer (active filter, paging cursor, cached universe, last-run status)
// lives behind this interface; no package-level singletons.
type Store interface {
	// Get unmarshals the stored value into dest; found=false on a miss
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// Typed helpers over Store

// Cursor returns the persisted paging cursor, zero-valued when unset
func Cursor(ctx context.Context, s Store) (contracts.PagingCursor, error) {
	var cur contracts.PagingCursor
	if _, err := s.Get(ctx, KeyCursor, &cur); err != nil {
		return cur, fmt.Errorf("load cursor: %w", err)
	}
	return cur, nil
}

// SetCursor persists the paging cursor
func SetCursor(ctx context.Context, s Store, cur contracts.PagingCursor) error {
	if cur.NextIndex < 0 || cur.NextIndex > cur.TotalSymbols {
		return fmt.Errorf("invalid cursor: next=%d total=%d", cur.NextIndex, cur.TotalSymbols)
	}
	return s.Set(ctx, KeyCursor, cur)
}

// Universe returns the cached ticker universe; nil when not cached
func Universe(ctx context.Context, s Store) ([]contracts.TickerRecord, error) {
	var universe []contracts.TickerRecord
	found, err := s.Get(ctx, KeyUniverse, &universe)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	if !found {
		return nil, nil
	}
	return universe, nil
}

// SetUniverse caches the ticker universe
func SetUniverse(ctx context.Context, s Store, universe []contracts.TickerRecord) error {
	return s.Set(ctx, KeyUniverse, universe)
}

// ActiveFilterName returns the active-filter pointer; "" when unset
func ActiveFilterName(ctx context.Context, s Store) (string, error) {
	var name string
	found, err := s.Get(ctx, KeyActiveFilter, &name)
	if err != nil {
		return "", fmt.Errorf("load active filter: %w", err)
	}
	if !found {
		return "", nil
	}
	return name, nil
}

// SetActiveFilterName persists the active-filter pointer
func SetActiveFilterName(ctx context.Context, s Store, name string) error {
	return s.Set(ctx, KeyActiveFilter, name)
}

// LastRun returns the last recorded run status; nil when none recorded
func LastRun(ctx context.Context, s Store) (*contracts.RunStatus, error) {
	var status contracts.RunStatus
	found, err := s.Get(ctx, KeyLastRun, &status)
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &status, nil
}

// SetLastRun records the run status
func SetLastRun(ctx context.Context, s Store, status contracts.RunStatus) error {
	return s.Set(ctx, KeyLastRun, status)
}
