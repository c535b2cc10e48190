package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/ignition/internal/contracts"
)

// TrackedSignal is one outcome-tracker entry kept in memory
type TrackedSignal struct {
	SignalDate time.Time
	Ticker     string
	Entry      float64
	Stop       float64
	Target1    float64
	Target2    float64
}

// MemoryStore is an in-memory signal store for tests and DB-less runs
type MemoryStore struct {
	mu      sync.RWMutex
	latest  []contracts.TradeSignal
	tracker []TrackedSignal
}

// NewMemoryStore creates an empty in-memory signal store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace implements SignalStore
func (s *MemoryStore) Replace(ctx context.Context, runAt time.Time, signals []contracts.TradeSignal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = append([]contracts.TradeSignal(nil), signals...)
	return nil
}

// Track implements SignalStore
func (s *MemoryStore) Track(ctx context.Context, runAt time.Time, signals []contracts.TradeSignal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sig := range signals {
		s.tracker = append(s.tracker, TrackedSignal{
			SignalDate: runAt,
			Ticker:     sig.Ticker,
			Entry:      sig.Entry,
			Stop:       sig.Stop,
			Target1:    sig.Target1,
			Target2:    sig.Target2,
		})
	}
	return nil
}

// Latest implements SignalStore
func (s *MemoryStore) Latest(ctx context.Context) ([]contracts.TradeSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]contracts.TradeSignal(nil), s.latest...), nil
}

// Tracker returns the accumulated tracker log
func (s *MemoryStore) Tracker() []TrackedSignal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TrackedSignal(nil), s.tracker...)
}

var _ SignalStore = (*MemoryStore)(nil)
