package filters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/state"
)

func newSeededStore(t *testing.T) (*MemoryStore, state.Store) {
	t.Helper()
	kv := state.NewMemoryStore()
	store := NewMemoryStore(kv)
	require.NoError(t, SeedDefaults(context.Background(), store))
	return store, kv
}

func TestGetByName(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	spec, err := store.GetByName(ctx, "squeeze-hunter")
	require.NoError(t, err)
	assert.True(t, spec.IsDefault)
	assert.InDelta(t, 3.0, spec.IgnitionRVOL, 1e-9)

	_, err = store.GetByName(ctx, "no-such-filter")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestGetDefaultFirstInNameOrder(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	// Make both presets claim default; lowest name must win
	spec, err := store.GetByName(ctx, "momentum-base")
	require.NoError(t, err)
	spec.IsDefault = true
	require.NoError(t, store.Save(ctx, spec))

	got, err := store.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "momentum-base", got.Name)
}

func TestGetActiveFallsBackToDefault(t *testing.T) {
	store, kv := newSeededStore(t)
	ctx := context.Background()

	// No pointer set yet: resolves default and persists the choice
	spec, err := store.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "squeeze-hunter", spec.Name)

	name, err := state.ActiveFilterName(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "squeeze-hunter", name)
}

func TestGetActiveExplicitPointer(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetActive(ctx, "momentum-base"))

	spec, err := store.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "momentum-base", spec.Name)
}

func TestGetActiveNoFilters(t *testing.T) {
	kv := state.NewMemoryStore()
	store := NewMemoryStore(kv)

	_, err := store.GetActive(context.Background())
	assert.ErrorIs(t, err, contracts.ErrConfig)
}

func TestGetActiveDanglingPointer(t *testing.T) {
	store, kv := newSeededStore(t)
	ctx := context.Background()

	// Pointer to a filter that no longer exists falls back to default
	require.NoError(t, state.SetActiveFilterName(ctx, kv, "deleted-filter"))

	spec, err := store.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "squeeze-hunter", spec.Name)
}

func TestSetActiveUnknownFilter(t *testing.T) {
	store, _ := newSeededStore(t)

	err := store.SetActive(context.Background(), "no-such-filter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	store, _ := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, SeedDefaults(ctx, store))

	specs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, specs, 2)
}
