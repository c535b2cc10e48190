package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ignition/internal/contracts"
)

// Repository is the Postgres-backed signal store
// ⭐ SSOT: 시그널 영속화는 여기서만
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a signal repository over the given pool
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Replace swaps the stored signal set for this run. Signals are ephemeral:
// older runs are dropped, only the latest set is queryable.
func (r *Repository) Replace(ctx context.Context, runAt time.Time, signals []contracts.TradeSignal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin signal replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trade_signals`); err != nil {
		return fmt.Errorf("clear signals: %w", err)
	}

	for _, s := range signals {
		_, err := tx.Exec(ctx, `
			INSERT INTO trade_signals (
				run_at, rank, ticker, company, score, signal, pattern,
				entry, stop, target1, target2, stretch,
				risk_reward, expected_move, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`, runAt, s.Rank, s.Ticker, s.Company, s.Score, s.Signal, string(s.Pattern),
			s.Entry, s.Stop, s.Target1, s.Target2, s.Stretch,
			s.RiskReward, s.ExpectedMovePct, s.Notes)
		if err != nil {
			return fmt.Errorf("insert signal %s: %w", s.Ticker, err)
		}
	}

	return tx.Commit(ctx)
}

// Track appends the run's signals to the outcome tracker. Result, P&L and
// status columns stay empty for a separate annotation process.
func (r *Repository) Track(ctx context.Context, runAt time.Time, signals []contracts.TradeSignal) error {
	if len(signals) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range signals {
		batch.Queue(`
			INSERT INTO signal_tracker (signal_date, ticker, entry, stop, target1, target2)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, runAt, s.Ticker, s.Entry, s.Stop, s.Target1, s.Target2)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range signals {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("track signals: %w", err)
		}
	}
	return nil
}

// Latest returns the current signal set in rank order
func (r *Repository) Latest(ctx context.Context) ([]contracts.TradeSignal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT rank, ticker, company, score, signal, pattern,
		       entry, stop, target1, target2, stretch,
		       risk_reward, expected_move, notes
		FROM trade_signals
		ORDER BY rank
	`)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []contracts.TradeSignal
	for rows.Next() {
		var s contracts.TradeSignal
		var pattern string

		err := rows.Scan(&s.Rank, &s.Ticker, &s.Company, &s.Score, &s.Signal, &pattern,
			&s.Entry, &s.Stop, &s.Target1, &s.Target2, &s.Stretch,
			&s.RiskReward, &s.ExpectedMovePct, &s.Notes)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}

		s.Pattern = contracts.Category(pattern)
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ SignalStore = (*Repository)(nil)
