package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFundamentalsHTML = `
<html><body>
<table class="stats">
	<tr><th>Short Interest % of Float</th><td>28.4%</td></tr>
	<tr><th>Float</th><td>12.5M</td></tr>
	<tr><th>Days to Cover</th><td>2.3</td></tr>
	<tr><th>Borrow Fee</th><td>45.2%</td></tr>
	<tr><th>Catalyst</th><td>FDA decision pending</td></tr>
	<tr><th>Exchange</th><td>NASDAQ</td></tr>
</table>
</body></html>`

func TestParseFundamentalsHTML(t *testing.T) {
	fund := ParseFundamentalsHTML(sampleFundamentalsHTML)
	require.NotNil(t, fund)

	assert.InDelta(t, 28.4, fund.ShortInterestPct, 1e-9)
	assert.InDelta(t, 12.5, fund.FloatM, 1e-9)
	assert.InDelta(t, 2.3, fund.DaysToCover, 1e-9)
	assert.InDelta(t, 45.2, fund.BorrowFeePct, 1e-9)
	assert.Equal(t, "FDA decision pending", fund.Catalyst)
}

func TestParseFundamentalsHTMLPartial(t *testing.T) {
	html := `<table><tr><th>Float</th><td>900M</td></tr></table>`
	fund := ParseFundamentalsHTML(html)
	require.NotNil(t, fund)
	assert.InDelta(t, 900, fund.FloatM, 1e-9)
	assert.Zero(t, fund.ShortInterestPct)
}

func TestParseFundamentalsHTMLEmpty(t *testing.T) {
	assert.Nil(t, ParseFundamentalsHTML("<html><body><p>404</p></body></html>"))
	assert.Nil(t, ParseFundamentalsHTML(`<table><tr><th>Float</th><td>-</td></tr></table>`))
}

func TestFundamentalsLookup(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(sampleFundamentalsHTML))
	}))
	defer server.Close()

	client := NewFundamentalsClient(newTestHTTPClient(), newTestLogger(), server.URL+"/short/%s")

	fund, err := client.Lookup(context.Background(), "SNDL")
	require.NoError(t, err)
	require.NotNil(t, fund)
	assert.Equal(t, "/short/SNDL", requestedPath)
	assert.InDelta(t, 28.4, fund.ShortInterestPct, 1e-9)
}
