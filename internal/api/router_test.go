package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ignition/internal/api/handlers"
	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/export"
	"github.com/wonny/ignition/internal/filters"
	"github.com/wonny/ignition/internal/marketdata"
	"github.com/wonny/ignition/internal/pipeline"
	"github.com/wonny/ignition/internal/scoring"
	"github.com/wonny/ignition/internal/staging"
	"github.com/wonny/ignition/internal/state"
	"github.com/wonny/ignition/pkg/logger"
)

type staticSource struct {
	records []contracts.TickerRecord
}

func (s *staticSource) Fetch(ctx context.Context) ([]contracts.TickerRecord, error) {
	return s.records, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	kv := state.NewMemoryStore()
	filterStore := filters.NewMemoryStore(kv)
	require.NoError(t, filters.SeedDefaults(ctx, filterStore))

	ledger := staging.NewMemoryLedger()
	cache := export.NewMemoryCache()
	signalStore := scoring.NewMemoryStore()

	oracle := &marketdata.StaticOracle{Quotes: map[string]contracts.Quote{
		"GME": {Symbol: "GME", Price: 6.0, Volume: 4e6, AvgVolume10D: 1e6, PrevClose: 5.5, High52W: 6.1},
	}}

	runner := pipeline.NewRunner(pipeline.Deps{
		Source:   &staticSource{records: []contracts.TickerRecord{{Ticker: "GME", Name: "GameStop"}}},
		Filters:  filterStore,
		Ledger:   ledger,
		Cache:    cache,
		Oracle:   oracle,
		Exporter: export.NewExporter(ledger, cache, log),
		Engine:   scoring.NewEngine(cache, filterStore, signalStore, log, 12),
		Locker:   state.NewLocalLock(),
		Store:    kv,
		Logger:   log,

		ChunkSize: 500,
		LockWait:  10 * time.Millisecond,
	})

	return NewRouter(
		handlers.NewPipelineHandler(runner, time.Minute, log),
		handlers.NewSignalsHandler(runner, signalStore, log),
		handlers.NewFiltersHandler(filterStore, runner, log),
		log,
	)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPipelineRunAndStatus(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/pipeline/run-chunk", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/pipeline/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status pipeline.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.Universe)
	assert.Equal(t, 1, status.CacheRows)
	assert.Equal(t, "squeeze-hunter", status.Filter)
}

func TestSignalsScoreAndFetch(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/api/pipeline/run-all", "").Code)
	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/api/signals/score", "").Code)

	rec := doRequest(t, router, http.MethodGet, "/api/signals", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var signals []contracts.TradeSignal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signals))
	require.Len(t, signals, 1)
	assert.Equal(t, "GME", signals[0].Ticker)
	assert.Equal(t, 1, signals[0].Rank)
}

func TestFiltersListAndActivate(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Active  string                 `json:"active"`
		Filters []contracts.FilterSpec `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "squeeze-hunter", list.Active)
	assert.Len(t, list.Filters, 2)

	rec = doRequest(t, router, http.MethodPost, "/api/filters/active", `{"name":"momentum-base"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/filters/active", `{"name":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignalsCompare(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/api/pipeline/run-all", "").Code)

	rec := doRequest(t, router, http.MethodGet, "/api/signals/compare", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report []scoring.ComparisonEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Len(t, report, 2)
}
