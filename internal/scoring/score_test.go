package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/filters"
)

func squeezeFilter() contracts.FilterSpec {
	return filters.Presets()[0]
}

func TestScoreBounds(t *testing.T) {
	f := squeezeFilter()

	rows := []contracts.MarketCacheRow{
		{}, // all-zero row
		{Price: 5, RVOL: 10, ChangePct: 0.5, DistanceToHighPct: 0,
			Fundamentals: &contracts.Fundamentals{
				ShortInterestPct: 90, DaysToCover: 20, FloatM: 2, BorrowFeePct: 300,
			}},
		{Price: 5, RVOL: 0.1, ChangePct: -0.2, DistanceToHighPct: 0.9},
	}

	for _, row := range rows {
		score := Score(row, f)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestScoreMonotonicOnVolume(t *testing.T) {
	f := squeezeFilter()

	base := contracts.MarketCacheRow{Price: 5, ChangePct: 0.05, DistanceToHighPct: 0.10}

	quiet := base
	quiet.RVOL = 0.5
	ignited := base
	ignited.RVOL = f.IgnitionRVOL + 1

	assert.Greater(t, Score(ignited, f), Score(quiet, f))
}

func TestPatternSqueezePrecedence(t *testing.T) {
	f := contracts.FilterSpec{
		MinRVOLBase:      1.5,
		MinRVOLActive:    2.0,
		IgnitionRVOL:     2.5,
		IgnitionDeltaPct: 0.02,
		BreakoutDistPct:  0.05,
	}

	// Satisfies both the ignition rule and the breakout rule; the chain
	// is first-match so SQUEEZE wins.
	row := contracts.MarketCacheRow{
		Price: 8, RVOL: 4.0, ChangePct: 0.08, DistanceToHighPct: 0.03,
	}
	assert.Equal(t, contracts.CategorySqueeze, Pattern(row, f))
}

func TestLabelMapping(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		pattern contracts.Category
		want    string
	}{
		{"top tier needs squeeze", 90, contracts.CategorySqueeze, contracts.SignalStrongBuy},
		{"high score without squeeze is buy", 90, contracts.CategoryBreakout, contracts.SignalBuy},
		{"buy tier", 78, contracts.CategorySqueeze, contracts.SignalBuy},
		{"spec buy tier", 68, contracts.CategoryMomentum, contracts.SignalSpecBuy},
		{"below all tiers", 50, contracts.CategorySqueeze, contracts.SignalWatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.score, tt.pattern))
		})
	}
}

func TestBuildSignalTradePlan(t *testing.T) {
	f := squeezeFilter()

	row := contracts.MarketCacheRow{
		Ticker: "GME", Company: "GameStop",
		Price: 10, RVOL: 4.0, ChangePct: 0.08, DistanceToHighPct: 0.02,
		AvgVolume10D: 2e6,
		Fundamentals: &contracts.Fundamentals{
			ShortInterestPct: 35, DaysToCover: 6, FloatM: 8, BorrowFeePct: 60,
		},
	}

	sig := BuildSignal(row, f)

	assert.InDelta(t, 10.025, sig.Entry, 1e-9)
	// Ignition thresholds met → tighter stop
	assert.InDelta(t, sig.Entry*0.94, sig.Stop, 1e-9)
	assert.InDelta(t, sig.Entry*1.10, sig.Target1, 1e-9)
	assert.InDelta(t, sig.Entry*1.15, sig.Target2, 1e-9)
	assert.Equal(t, contracts.CategorySqueeze, sig.Pattern)
	assert.InDelta(t, sig.Entry*1.40, sig.Stretch, 1e-9)
	assert.InDelta(t, (sig.Target1-sig.Entry)/(sig.Entry-sig.Stop), sig.RiskReward, 1e-9)
	assert.InDelta(t, 40, sig.ExpectedMovePct, 1e-9)
}

func TestBuildSignalWideStopWithoutIgnition(t *testing.T) {
	f := squeezeFilter()

	row := contracts.MarketCacheRow{
		Ticker: "SLOW", Price: 10, RVOL: 1.6, ChangePct: 0.015, DistanceToHighPct: 0.20,
	}

	sig := BuildSignal(row, f)
	assert.InDelta(t, sig.Entry*0.92, sig.Stop, 1e-9)
	assert.InDelta(t, sig.Entry*1.25, sig.Stretch, 1e-9)
}

func TestRankStableOnTies(t *testing.T) {
	signals := []contracts.TradeSignal{
		{Ticker: "AAA", Score: 70},
		{Ticker: "BBB", Score: 80},
		{Ticker: "CCC", Score: 70},
		{Ticker: "DDD", Score: 80},
	}

	ranked := Rank(signals, 12)

	tickers := make([]string, 0, len(ranked))
	for _, s := range ranked {
		tickers = append(tickers, s.Ticker)
	}
	assert.Equal(t, []string{"BBB", "DDD", "AAA", "CCC"}, tickers)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank, ranked[3].Rank})
}

func TestRankTopN(t *testing.T) {
	signals := make([]contracts.TradeSignal, 20)
	for i := range signals {
		signals[i] = contracts.TradeSignal{Ticker: "T", Score: i}
	}

	ranked := Rank(signals, 12)
	assert.Len(t, ranked, 12)
	assert.Equal(t, 19, ranked[0].Score)
}
