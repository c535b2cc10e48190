package filters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/state"
)

// Store is the Postgres-backed FilterStore. The active-filter pointer is
// kept in the injected state store, not in the table.
// ⭐ SSOT: 필터 영속화는 여기서만
type Store struct {
	db *pgxpool.Pool
	kv state.Store
}

// NewStore creates a filter store over the given pool and state store
func NewStore(db *pgxpool.Pool, kv state.Store) *Store {
	return &Store{db: db, kv: kv}
}

const filterColumns = `
	name, is_default, price_min, price_max, min_avg_vol_10d,
	min_rvol_base, min_rvol_active, ignition_rvol, ignition_delta,
	breakout_dist, max_float_m, min_short_pct, min_days_cover,
	min_borrow_fee, horizon, scale_plan`

// GetByName returns the filter with the exact name, contracts.ErrNotFound
// when absent
func (s *Store) GetByName(ctx context.Context, name string) (*contracts.FilterSpec, error) {
	query := `SELECT ` + filterColumns + ` FROM filters WHERE name = $1`
	return s.scanOne(ctx, query, name)
}

// GetDefault returns the first default filter in name order. When several
// rows claim is_default the lowest name wins, which keeps resolution
// deterministic across runs.
func (s *Store) GetDefault(ctx context.Context) (*contracts.FilterSpec, error) {
	query := `SELECT ` + filterColumns + ` FROM filters WHERE is_default ORDER BY name LIMIT 1`
	return s.scanOne(ctx, query)
}

// GetActive resolves the stored active-name pointer, falling back to the
// default filter (and persisting that choice). contracts.ErrConfig when
// neither exists — the pipeline never picks an arbitrary filter.
func (s *Store) GetActive(ctx context.Context) (*contracts.FilterSpec, error) {
	name, err := state.ActiveFilterName(ctx, s.kv)
	if err != nil {
		return nil, err
	}

	if name != "" {
		spec, err := s.GetByName(ctx, name)
		if err == nil {
			return spec, nil
		}
		if !errors.Is(err, contracts.ErrNotFound) {
			return nil, err
		}
		// Pointer references a deleted filter; fall through to default
	}

	spec, err := s.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			return nil, contracts.ErrConfig
		}
		return nil, err
	}

	// Persist the fallback so subsequent passes resolve the same filter
	if err := state.SetActiveFilterName(ctx, s.kv, spec.Name); err != nil {
		return nil, err
	}
	return spec, nil
}

// SetActive validates that the named filter exists and moves the pointer
func (s *Store) SetActive(ctx context.Context, name string) error {
	if _, err := s.GetByName(ctx, name); err != nil {
		return err
	}
	return state.SetActiveFilterName(ctx, s.kv, name)
}

// Save upserts a filter spec by name
func (s *Store) Save(ctx context.Context, spec *contracts.FilterSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("filter name is required")
	}

	query := `
		INSERT INTO filters (` + filterColumns + `, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (name) DO UPDATE SET
			is_default = EXCLUDED.is_default,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			min_avg_vol_10d = EXCLUDED.min_avg_vol_10d,
			min_rvol_base = EXCLUDED.min_rvol_base,
			min_rvol_active = EXCLUDED.min_rvol_active,
			ignition_rvol = EXCLUDED.ignition_rvol,
			ignition_delta = EXCLUDED.ignition_delta,
			breakout_dist = EXCLUDED.breakout_dist,
			max_float_m = EXCLUDED.max_float_m,
			min_short_pct = EXCLUDED.min_short_pct,
			min_days_cover = EXCLUDED.min_days_cover,
			min_borrow_fee = EXCLUDED.min_borrow_fee,
			horizon = EXCLUDED.horizon,
			scale_plan = EXCLUDED.scale_plan,
			updated_at = NOW()
	`

	_, err := s.db.Exec(ctx, query,
		spec.Name, spec.IsDefault, spec.PriceMin, spec.PriceMax, spec.MinAvgVol10D,
		spec.MinRVOLBase, spec.MinRVOLActive, spec.IgnitionRVOL, spec.IgnitionDeltaPct,
		spec.BreakoutDistPct, spec.MaxFloatM, spec.MinShortInterestPct, spec.MinDaysToCover,
		spec.MinBorrowFeePct, spec.Horizon, spec.ScalePlan,
	)
	if err != nil {
		return fmt.Errorf("upsert filter %s: %w", spec.Name, err)
	}
	return nil
}

// List returns all filters in name order
func (s *Store) List(ctx context.Context) ([]contracts.FilterSpec, error) {
	query := `SELECT ` + filterColumns + ` FROM filters ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	specs := make([]contracts.FilterSpec, 0)
	for rows.Next() {
		spec, err := scanFilter(rows)
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate filters: %w", rows.Err())
	}
	return specs, nil
}

func (s *Store) scanOne(ctx context.Context, query string, args ...interface{}) (*contracts.FilterSpec, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query filter: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if rows.Err() != nil {
			return nil, fmt.Errorf("query filter: %w", rows.Err())
		}
		return nil, contracts.ErrNotFound
	}
	return scanFilter(rows)
}

func scanFilter(rows pgx.Rows) (*contracts.FilterSpec, error) {
	var spec contracts.FilterSpec
	err := rows.Scan(
		&spec.Name, &spec.IsDefault, &spec.PriceMin, &spec.PriceMax, &spec.MinAvgVol10D,
		&spec.MinRVOLBase, &spec.MinRVOLActive, &spec.IgnitionRVOL, &spec.IgnitionDeltaPct,
		&spec.BreakoutDistPct, &spec.MaxFloatM, &spec.MinShortInterestPct, &spec.MinDaysToCover,
		&spec.MinBorrowFeePct, &spec.Horizon, &spec.ScalePlan,
	)
	if err != nil {
		return nil, fmt.Errorf("scan filter: %w", err)
	}
	return &spec, nil
}
