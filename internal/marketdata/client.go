package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/pkg/httputil"
	"github.com/wonny/ignition/pkg/logger"
)

// Snapshot batching keeps request URLs bounded
const maxSymbolsPerRequest = 100

// Client is the HTTP market-data oracle. The oracle is an external
// collaborator: it returns already-computed numeric fields per ticker and
// this client does no derivation of its own.
// ⭐ SSOT: 시세 스냅샷 호출은 이 클라이언트에서만
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	snapshotURL string
}

// NewClient creates a market-data client over the snapshot endpoint
func NewClient(httpClient *httputil.Client, log *logger.Logger, snapshotURL string) *Client {
	return &Client{
		httpClient:  httpClient,
		logger:      log,
		snapshotURL: snapshotURL,
	}
}

// Snapshot fetches quotes for the given symbols, batching requests.
// Symbols missing from the response are simply absent from the result —
// their staging rows stay PENDING until a later pass.
func (c *Client) Snapshot(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	quotes := make(map[string]contracts.Quote, len(symbols))

	for start := 0; start < len(symbols); start += maxSymbolsPerRequest {
		end := start + maxSymbolsPerRequest
		if end > len(symbols) {
			end = len(symbols)
		}

		batch, err := c.fetchBatch(ctx, symbols[start:end])
		if err != nil {
			return nil, err
		}
		for sym, quote := range batch {
			quotes[sym] = quote
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"returned":  len(quotes),
	}).Debug("Market snapshot fetched")

	return quotes, nil
}

func (c *Client) fetchBatch(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	reqURL := fmt.Sprintf("%s?symbols=%s",
		c.snapshotURL, url.QueryEscape(strings.Join(symbols, ",")))

	resp, err := c.httpClient.Get(ctx, reqURL)
	if err != nil {
		return nil, &contracts.FetchError{URL: c.snapshotURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &contracts.FetchError{URL: c.snapshotURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contracts.FetchError{URL: c.snapshotURL, Err: err}
	}

	var list []contracts.Quote
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode snapshot response: %w", err)
	}

	quotes := make(map[string]contracts.Quote, len(list))
	for _, q := range list {
		if q.Symbol == "" {
			continue
		}
		quotes[q.Symbol] = q
	}
	return quotes, nil
}

// StaticOracle serves a fixed quote table. Used by tests and offline runs.
type StaticOracle struct {
	Quotes map[string]contracts.Quote
}

// Snapshot implements contracts.Oracle
func (o *StaticOracle) Snapshot(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	out := make(map[string]contracts.Quote, len(symbols))
	for _, sym := range symbols {
		if q, ok := o.Quotes[sym]; ok {
			out[sym] = q
		}
	}
	return out, nil
}
