package filters

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/state"
)

// MemoryStore is an in-process FilterStore for tests and DB-less runs.
// Active-pointer semantics are identical to the Postgres store.
type MemoryStore struct {
	mu    sync.RWMutex
	specs map[string]contracts.FilterSpec
	kv    state.Store
}

// NewMemoryStore creates an empty in-memory filter store
func NewMemoryStore(kv state.Store) *MemoryStore {
	return &MemoryStore{
		specs: make(map[string]contracts.FilterSpec),
		kv:    kv,
	}
}

// GetByName implements contracts.FilterStore
func (s *MemoryStore) GetByName(ctx context.Context, name string) (*contracts.FilterSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spec, ok := s.specs[name]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &spec, nil
}

// GetDefault implements contracts.FilterStore: first default in name order
func (s *MemoryStore) GetDefault(ctx context.Context) (*contracts.FilterSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.specs))
	for name := range s.specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if spec := s.specs[name]; spec.IsDefault {
			return &spec, nil
		}
	}
	return nil, contracts.ErrNotFound
}

// GetActive implements contracts.FilterStore
func (s *MemoryStore) GetActive(ctx context.Context) (*contracts.FilterSpec, error) {
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
	}

	spec, err := s.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			return nil, contracts.ErrConfig
		}
		return nil, err
	}

	if err := state.SetActiveFilterName(ctx, s.kv, spec.Name); err != nil {
		return nil, err
	}
	return spec, nil
}

// SetActive implements contracts.FilterStore
func (s *MemoryStore) SetActive(ctx context.Context, name string) error {
	if _, err := s.GetByName(ctx, name); err != nil {
		return err
	}
	return state.SetActiveFilterName(ctx, s.kv, name)
}

// Save implements contracts.FilterStore
func (s *MemoryStore) Save(ctx context.Context, spec *contracts.FilterSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.specs[spec.Name] = *spec
	return nil
}

// List implements contracts.FilterStore
func (s *MemoryStore) List(ctx context.Context) ([]contracts.FilterSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.specs))
	for name := range s.specs {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]contracts.FilterSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, s.specs[name])
	}
	return specs, nil
}
