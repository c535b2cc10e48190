package database

import (
	"context"
	"fmt"
)

// migrations are idempotent schema statements, applied in order
// ⭐ SSOT: 테이블 스키마는 여기서만 정의
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS filters (
		name            TEXT PRIMARY KEY,
		is_default      BOOLEAN NOT NULL DEFAULT FALSE,
		price_min       DOUBLE PRECISION NOT NULL DEFAULT 0,
		price_max       DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_avg_vol_10d DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_rvol_base   DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_rvol_active DOUBLE PRECISION NOT NULL DEFAULT 0,
		ignition_rvol   DOUBLE PRECISION NOT NULL DEFAULT 0,
		ignition_delta  DOUBLE PRECISION NOT NULL DEFAULT 0,
		breakout_dist   DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_float_m     DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_short_pct   DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_days_cover  DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_borrow_fee  DOUBLE PRECISION NOT NULL DEFAULT 0,
		horizon         TEXT NOT NULL DEFAULT '',
		scale_plan      TEXT NOT NULL DEFAULT '',
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS staging_rows (
		ticker          TEXT PRIMARY KEY,
		company         TEXT NOT NULL DEFAULT '',
		price           DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume          DOUBLE PRECISION NOT NULL DEFAULT 0,
		dollar_volume   DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_volume_10d  DOUBLE PRECISION NOT NULL DEFAULT 0,
		rvol            DOUBLE PRECISION NOT NULL DEFAULT 0,
		prev_close      DOUBLE PRECISION NOT NULL DEFAULT 0,
		change_pct      DOUBLE PRECISION NOT NULL DEFAULT 0,
		high_52w        DOUBLE PRECISION NOT NULL DEFAULT 0,
		dist_to_high    DOUBLE PRECISION NOT NULL DEFAULT 0,
		category        TEXT NOT NULL DEFAULT 'PENDING',
		qualified       BOOLEAN NOT NULL DEFAULT FALSE,
		exported        BOOLEAN NOT NULL DEFAULT FALSE,
		has_metrics     BOOLEAN NOT NULL DEFAULT FALSE,
		fundamentals    JSONB,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_staging_pending_export
		ON staging_rows (exported) WHERE exported = FALSE`,
	`CREATE TABLE IF NOT EXISTS market_cache (
		ticker          TEXT PRIMARY KEY,
		company         TEXT NOT NULL DEFAULT '',
		price           DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume          DOUBLE PRECISION NOT NULL DEFAULT 0,
		dollar_volume   DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_volume_10d  DOUBLE PRECISION NOT NULL DEFAULT 0,
		rvol            DOUBLE PRECISION NOT NULL DEFAULT 0,
		change_pct      DOUBLE PRECISION NOT NULL DEFAULT 0,
		dist_to_high    DOUBLE PRECISION NOT NULL DEFAULT 0,
		category        TEXT NOT NULL DEFAULT 'PENDING',
		fundamentals    JSONB,
		exported_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trade_signals (
		run_at          TIMESTAMPTZ NOT NULL,
		rank            INT NOT NULL,
		ticker          TEXT NOT NULL,
		company         TEXT NOT NULL DEFAULT '',
		score           INT NOT NULL,
		signal          TEXT NOT NULL,
		pattern         TEXT NOT NULL,
		entry           DOUBLE PRECISION NOT NULL,
		stop            DOUBLE PRECISION NOT NULL,
		target1         DOUBLE PRECISION NOT NULL,
		target2         DOUBLE PRECISION NOT NULL,
		stretch         DOUBLE PRECISION NOT NULL,
		risk_reward     DOUBLE PRECISION NOT NULL,
		expected_move   DOUBLE PRECISION NOT NULL,
		notes           TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_at, ticker)
	)`,
	`CREATE TABLE IF NOT EXISTS signal_tracker (
		id              BIGSERIAL PRIMARY KEY,
		signal_date     DATE NOT NULL,
		ticker          TEXT NOT NULL,
		entry           DOUBLE PRECISION NOT NULL,
		stop            DOUBLE PRECISION NOT NULL,
		target1         DOUBLE PRECISION NOT NULL,
		target2         DOUBLE PRECISION NOT NULL,
		result          TEXT NOT NULL DEFAULT '',
		pnl_pct         DOUBLE PRECISION,
		status          TEXT NOT NULL DEFAULT 'OPEN',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema. Safe to run on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
