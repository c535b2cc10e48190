package marketdata

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/filters"
	"github.com/wonny/ignition/pkg/httputil"
	"github.com/wonny/ignition/pkg/logger"
)

// FundamentalsClient scrapes the per-ticker short-interest page into a
// Fundamentals snapshot. The page is a plain label/value HTML table; the
// labels below are matched case-insensitively by prefix so minor wording
// drift on the source site does not break the lookup.
// ⭐ SSOT: 펀더멘털 조회는 이 클라이언트에서만
type FundamentalsClient struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	urlTemplate string // %s = ticker
}

// NewFundamentalsClient creates a fundamentals provider over the given
// URL template
func NewFundamentalsClient(httpClient *httputil.Client, log *logger.Logger, urlTemplate string) *FundamentalsClient {
	return &FundamentalsClient{
		httpClient:  httpClient,
		logger:      log,
		urlTemplate: urlTemplate,
	}
}

// Lookup fetches and parses fundamentals for one ticker. A page without
// any recognizable field yields (nil, nil): fundamentals are optional and
// the qualification gate simply skips them.
func (c *FundamentalsClient) Lookup(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	pageURL := fmt.Sprintf(c.urlTemplate, ticker)

	resp, err := c.httpClient.Get(ctx, pageURL)
	if err != nil {
		return nil, &contracts.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &contracts.FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contracts.FetchError{URL: pageURL, Err: err}
	}

	fund := ParseFundamentalsHTML(string(body))
	if fund == nil {
		c.logger.WithField("ticker", ticker).Debug("No fundamentals found")
	}
	return fund, nil
}

// ParseFundamentalsHTML extracts fundamentals from a label/value table.
// Returns nil when no field was recognized.
func ParseFundamentalsHTML(html string) *contracts.Fundamentals {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var fund contracts.Fundamentals
	found := false

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		label := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		value := strings.TrimSpace(cells.Eq(1).Text())
		if value == "" || value == "-" {
			return
		}

		switch {
		case strings.HasPrefix(label, "short interest"), strings.HasPrefix(label, "short % of float"):
			fund.ShortInterestPct = filters.ParseNumeric(value)
			found = true
		case strings.HasPrefix(label, "float"):
			// Float is published as a share count; stored in millions
			fund.FloatM = filters.ParseNumeric(value) / 1e6
			found = true
		case strings.HasPrefix(label, "days to cover"), strings.HasPrefix(label, "short ratio"):
			fund.DaysToCover = filters.ParseNumeric(value)
			found = true
		case strings.HasPrefix(label, "borrow fee"), strings.HasPrefix(label, "fee rate"):
			fund.BorrowFeePct = filters.ParseNumeric(value)
			found = true
		case strings.HasPrefix(label, "catalyst"):
			fund.Catalyst = value
			found = true
		}
	})

	if !found {
		return nil
	}
	return &fund
}
