package universe

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/pkg/httputil"
	"github.com/wonny/ignition/pkg/logger"
)

// Field positions of the pipe-delimited symbol directory
const (
	fieldSymbol = iota
	fieldName
	fieldMarketCategory
	fieldTestIssue
	fieldFinancialStatus
	fieldETF
	fieldNextShares
	fieldCount
)

// 유효 심볼: 대문자, 점, 하이픈만
var symbolPattern = regexp.MustCompile(`^[A-Z.\-]+$`)

// Source fetches and parses the daily exchange listing
// ⭐ SSOT: 심볼 유니버스 수집은 이 클라이언트에서만
type Source struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	listingURL string
}

// NewSource creates a SymbolSource over the given listing URL
func NewSource(httpClient *httputil.Client, log *logger.Logger, listingURL string) *Source {
	return &Source{
		httpClient: httpClient,
		logger:     log,
		listingURL: listingURL,
	}
}

// Fetch downloads and parses the listing, preserving source order.
// Non-2xx responses and transport failures surface as *contracts.FetchError.
func (s *Source) Fetch(ctx context.Context) ([]contracts.TickerRecord, error) {
	resp, err := s.httpClient.Get(ctx, s.listingURL)
	if err != nil {
		return nil, &contracts.FetchError{URL: s.listingURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &contracts.FetchError{URL: s.listingURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &contracts.FetchError{URL: s.listingURL, Err: err}
	}

	records := Parse(string(body))

	s.logger.WithFields(map[string]interface{}{
		"url":     s.listingURL,
		"tickers": len(records),
	}).Info("Symbol universe fetched")

	return records, nil
}

// Parse extracts ticker records from the raw listing text.
// First line is the header, last non-empty line the file-creation footer;
// both are skipped. The source guarantees symbol uniqueness, so no
// dedup or reordering happens here.
func Parse(raw string) []contracts.TickerRecord {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	// Trim trailing blank lines
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= 2 {
		return nil
	}

	// Drop header and footer
	lines = lines[1 : len(lines)-1]

	records := make([]contracts.TickerRecord, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, "|")
		if len(fields) < fieldCount {
			continue
		}

		symbol := strings.TrimSpace(fields[fieldSymbol])
		name := strings.TrimSpace(fields[fieldName])

		if !keep(symbol, fields) {
			continue
		}

		records = append(records, contracts.TickerRecord{
			Ticker: symbol,
			Name:   name,
		})
	}

	return records
}

// keep applies the drop rules for one listing line
func keep(symbol string, fields []string) bool {
	if symbol == "" {
		return false
	}
	if strings.TrimSpace(fields[fieldTestIssue]) == "Y" {
		return false
	}
	if strings.TrimSpace(fields[fieldETF]) == "Y" {
		return false
	}
	if !symbolPattern.MatchString(symbol) {
		return false
	}
	// Warrant / unit suffixes
	if strings.HasSuffix(symbol, "WS") ||
		strings.HasSuffix(symbol, "W") ||
		strings.HasSuffix(symbol, "U") {
		return false
	}
	return true
}
