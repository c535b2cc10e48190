package scoring

import (
	"math"

	"github.com/wonny/ignition/internal/contracts"
)

// Sub-score weights. 합계 1.0
const (
	weightMomentum  = 0.30
	weightVolume    = 0.25
	weightTechnical = 0.15
	weightSqueeze   = 0.20
	weightRisk      = 0.10
)

// Score computes the weighted composite score for one cached row.
// Each sub-score is clamped to [0,100] before weighting.
// ⭐ SSOT: 점수 계산은 여기서만
func Score(row contracts.MarketCacheRow, f contracts.FilterSpec) int {
	sum := weightMomentum*clamp(momentumScore(row)) +
		weightVolume*clamp(volumeScore(row, f)) +
		weightTechnical*clamp(technicalScore(row)) +
		weightSqueeze*clamp(squeezeScore(row.Fundamentals)) +
		weightRisk*clamp(riskScore(row))

	return int(math.Round(clamp(sum)))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// momentumScore tiers on the day's change, with a bonus for trading near
// the 52-week high
func momentumScore(row contracts.MarketCacheRow) float64 {
	var score float64
	switch {
	case row.ChangePct > 0.07:
		score = 45
	case row.ChangePct > 0.04:
		score = 35
	case row.ChangePct > 0.02:
		score = 25
	case row.ChangePct > 0:
		score = 10
	}
	if row.DistanceToHighPct < 0.05 {
		score += 20
	}
	return score
}

// volumeScore tiers RVOL against the filter's three thresholds
func volumeScore(row contracts.MarketCacheRow, f contracts.FilterSpec) float64 {
	switch {
	case row.RVOL >= f.IgnitionRVOL:
		return 100
	case row.RVOL >= f.MinRVOLActive:
		return 80
	case row.RVOL >= f.MinRVOLBase:
		return 60
	case row.RVOL >= 1.0:
		return 40
	default:
		return 0
	}
}

// squeezeScore adds tiered bonuses for short interest, days to cover,
// small float and borrow fee. No fundamentals snapshot means zero.
func squeezeScore(fund *contracts.Fundamentals) float64 {
	if fund == nil {
		return 0
	}

	var score float64
	switch {
	case fund.ShortInterestPct >= 30:
		score += 30
	case fund.ShortInterestPct >= 20:
		score += 20
	case fund.ShortInterestPct >= 10:
		score += 10
	}
	switch {
	case fund.DaysToCover >= 5:
		score += 25
	case fund.DaysToCover >= 3:
		score += 15
	case fund.DaysToCover >= 1:
		score += 5
	}
	switch {
	case fund.FloatM > 0 && fund.FloatM < 10:
		score += 25
	case fund.FloatM > 0 && fund.FloatM < 25:
		score += 15
	case fund.FloatM > 0 && fund.FloatM < 50:
		score += 5
	}
	switch {
	case fund.BorrowFeePct >= 50:
		score += 20
	case fund.BorrowFeePct >= 20:
		score += 10
	case fund.BorrowFeePct >= 5:
		score += 5
	}
	return score
}

// technicalScore starts from a neutral base and rewards proximity to the
// high plus a strong session
func technicalScore(row contracts.MarketCacheRow) float64 {
	score := 50.0
	if row.DistanceToHighPct < 0.03 {
		score += 20
	}
	if row.ChangePct > 0.03 {
		score += 10
	}
	return score
}

// riskScore penalizes overextension: the further past 7% the day's move,
// the worse the entry
func riskScore(row contracts.MarketCacheRow) float64 {
	score := 90.0
	switch {
	case row.ChangePct > 0.15:
		score -= 50
	case row.ChangePct > 0.10:
		score -= 30
	case row.ChangePct > 0.07:
		score -= 15
	}
	return score
}
