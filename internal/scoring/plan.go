package scoring

import (
	"sort"
	"strings"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/staging"
)

// Entry markup over last price; stop distance depends on whether the row
// still meets ignition thresholds at scoring time.
const (
	entryMarkup       = 1.0025
	stopPctIgnition   = 0.06
	stopPctDefault    = 0.08
	target1Pct        = 0.10
	target2Pct        = 0.15
	stretchPct        = 0.25
	stretchPctSqueeze = 0.40
)

// Pattern reapplies the staging categorization chain to a cached row.
// Scoring and staging must never disagree on what a SQUEEZE is.
func Pattern(row contracts.MarketCacheRow, f contracts.FilterSpec) contracts.Category {
	m := contracts.Metrics{
		Price:             row.Price,
		Volume:            row.Volume,
		DollarVolume:      row.DollarVolume,
		AvgVolume10D:      row.AvgVolume10D,
		RVOL:              row.RVOL,
		ChangePct:         row.ChangePct,
		DistanceToHighPct: row.DistanceToHighPct,
	}
	return staging.Categorize(m, true, f)
}

// Label maps score and pattern to a signal label. Pattern only matters
// for the top tier.
func Label(score int, pattern contracts.Category) string {
	switch {
	case score >= 85 && pattern == contracts.CategorySqueeze:
		return contracts.SignalStrongBuy
	case score >= 75:
		return contracts.SignalBuy
	case score >= 65:
		return contracts.SignalSpecBuy
	default:
		return contracts.SignalWatch
	}
}

// BuildSignal assembles the trade plan for one scored row. Rank is
// assigned later by the ranking pass.
func BuildSignal(row contracts.MarketCacheRow, f contracts.FilterSpec) contracts.TradeSignal {
	score := Score(row, f)
	pattern := Pattern(row, f)

	entry := row.Price * entryMarkup

	stopPct := stopPctDefault
	if row.RVOL >= f.IgnitionRVOL && row.ChangePct >= f.IgnitionDeltaPct {
		stopPct = stopPctIgnition
	}
	stop := entry * (1 - stopPct)

	target1 := entry * (1 + target1Pct)
	target2 := entry * (1 + target2Pct)
	stretch := entry * (1 + stretchPct)
	if pattern == contracts.CategorySqueeze {
		stretch = entry * (1 + stretchPctSqueeze)
	}

	riskReward := 0.0
	if entry > stop {
		riskReward = (target1 - entry) / (entry - stop)
	}

	return contracts.TradeSignal{
		Ticker:          row.Ticker,
		Company:         row.Company,
		Score:           score,
		Signal:          Label(score, pattern),
		Pattern:         pattern,
		Entry:           entry,
		Stop:            stop,
		Target1:         target1,
		Target2:         target2,
		Stretch:         stretch,
		RiskReward:      riskReward,
		ExpectedMovePct: expectedMove(pattern),
		Notes:           notes(row, f),
	}
}

func expectedMove(pattern contracts.Category) float64 {
	switch pattern {
	case contracts.CategorySqueeze:
		return 40
	case contracts.CategoryBreakout:
		return 25
	case contracts.CategoryMomentum:
		return 15
	default:
		return 10
	}
}

func notes(row contracts.MarketCacheRow, f contracts.FilterSpec) string {
	var parts []string
	if row.Fundamentals != nil && row.Fundamentals.Catalyst != "" {
		parts = append(parts, row.Fundamentals.Catalyst)
	}
	if f.Horizon != "" {
		parts = append(parts, f.Horizon)
	}
	return strings.Join(parts, " | ")
}

// Rank sorts signals by score descending and keeps the top N, assigning
// ranks 1..N. The sort is stable: score ties keep input order.
func Rank(signals []contracts.TradeSignal, topN int) []contracts.TradeSignal {
	ranked := make([]contracts.TradeSignal, len(signals))
	copy(ranked, signals)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
