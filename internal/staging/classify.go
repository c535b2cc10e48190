package staging

import (
	"github.com/wonny/ignition/internal/contracts"
)

// DeriveMetrics computes the staging metrics from a raw oracle quote.
// 파생 필드는 여기서만 계산 (RVOL, 등락률, 거래대금, 신고가 이격)
func DeriveMetrics(q contracts.Quote) contracts.Metrics {
	m := contracts.Metrics{
		Price:        q.Price,
		Volume:       q.Volume,
		AvgVolume10D: q.AvgVolume10D,
		PrevClose:    q.PrevClose,
		High52W:      q.High52W,
		DollarVolume: q.Price * q.Volume,
	}

	if q.AvgVolume10D > 0 {
		m.RVOL = q.Volume / q.AvgVolume10D
	}
	if q.PrevClose > 0 {
		m.ChangePct = (q.Price - q.PrevClose) / q.PrevClose
	}
	if q.High52W > 0 {
		m.DistanceToHighPct = (q.High52W - q.Price) / q.High52W
	}

	return m
}

// Categorize applies the ordered first-match decision chain. A row whose
// metrics are not yet populated is always PENDING.
//
// 순서가 계약이다: SQUEEZE 조건과 BREAKOUT 조건을 동시에 만족하면 SQUEEZE.
func Categorize(m contracts.Metrics, hasMetrics bool, f contracts.FilterSpec) contracts.Category {
	if !hasMetrics {
		return contracts.CategoryPending
	}

	// 1. Ignition: accelerating squeeze/momentum event
	if m.RVOL >= f.IgnitionRVOL && m.ChangePct >= f.IgnitionDeltaPct {
		return contracts.CategorySqueeze
	}

	// 2. Near the 52-week high
	if m.DistanceToHighPct <= f.BreakoutDistPct {
		return contracts.CategoryBreakout
	}

	// 3. Elevated volume with positive movement
	if m.RVOL >= f.MinRVOLActive && m.ChangePct >= 0.01 {
		return contracts.CategoryMomentum
	}

	// 4. Quiet accumulation
	if m.ChangePct > 0 && m.RVOL >= 1.5 {
		return contracts.CategoryAccumulation
	}

	return contracts.CategoryBuilding
}

// Qualify is the boolean gate, independent of category. Fundamentals
// checks apply only when a fundamentals snapshot is present; a zero
// threshold disables its individual check.
func Qualify(row contracts.StagingRow, f contracts.FilterSpec) bool {
	if !row.HasMetrics {
		return false
	}

	if row.Price < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && row.Price > f.PriceMax {
		return false
	}
	if row.AvgVolume10D < f.MinAvgVol10D {
		return false
	}
	if row.RVOL < f.MinRVOLBase {
		return false
	}

	if fund := row.Fundamentals; fund != nil {
		if f.MaxFloatM > 0 && fund.FloatM >= f.MaxFloatM {
			return false
		}
		if fund.ShortInterestPct < f.MinShortInterestPct {
			return false
		}
		if fund.DaysToCover < f.MinDaysToCover {
			return false
		}
		if fund.BorrowFeePct < f.MinBorrowFeePct {
			return false
		}
	}

	return true
}

// ExportEligible reports whether a row may be copied to the market cache
func ExportEligible(row contracts.StagingRow) bool {
	return row.Qualified && row.Category.Exportable()
}

// Classify recomputes category and qualification for a row in place
func Classify(row *contracts.StagingRow, f contracts.FilterSpec) {
	row.Category = Categorize(row.Metrics, row.HasMetrics, f)
	row.Qualified = Qualify(*row, f)
}
