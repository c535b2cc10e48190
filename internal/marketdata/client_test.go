package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/pkg/httputil"
	"github.com/wonny/ignition/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.NewNop()
}

func newTestHTTPClient() *httputil.Client {
	return httputil.New(newTestLogger())
}

func TestSnapshotBatching(t *testing.T) {
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbols := strings.Split(r.URL.Query().Get("symbols"), ",")
		batchSizes = append(batchSizes, len(symbols))

		quotes := make([]contracts.Quote, 0, len(symbols))
		for _, sym := range symbols {
			quotes = append(quotes, contracts.Quote{Symbol: sym, Price: 5.0})
		}
		json.NewEncoder(w).Encode(quotes)
	}))
	defer server.Close()

	client := NewClient(newTestHTTPClient(), newTestLogger(), server.URL)

	symbols := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		symbols = append(symbols, "SYM"+string(rune('A'+i%26))+string(rune('A'+i/26)))
	}

	quotes, err := client.Snapshot(context.Background(), symbols)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 100, 50}, batchSizes)
	assert.Len(t, quotes, 250)
}

func TestSnapshotMissingSymbolsOmitted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Oracle only knows AAPL regardless of what was asked
		json.NewEncoder(w).Encode([]contracts.Quote{
			{Symbol: "AAPL", Price: 190.5, Volume: 1e7, AvgVolume10D: 8e6, PrevClose: 188.0, High52W: 200.0},
		})
	}))
	defer server.Close()

	client := NewClient(newTestHTTPClient(), newTestLogger(), server.URL)

	quotes, err := client.Snapshot(context.Background(), []string{"AAPL", "GONE"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.InDelta(t, 190.5, quotes["AAPL"].Price, 1e-9)
	_, ok := quotes["GONE"]
	assert.False(t, ok)
}

func TestSnapshotNon2xxIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(newTestHTTPClient().DisableRetry(), newTestLogger(), server.URL)

	_, err := client.Snapshot(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	assert.True(t, contracts.IsFetchError(err))
}

func TestStaticOracle(t *testing.T) {
	oracle := &StaticOracle{Quotes: map[string]contracts.Quote{
		"TSLA": {Symbol: "TSLA", Price: 250},
	}}

	quotes, err := oracle.Snapshot(context.Background(), []string{"TSLA", "AAPL"})
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}
