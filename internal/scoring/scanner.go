package scoring

import "github.com/wonny/ignition/internal/contracts"

// Scan re-filters cached rows against the active filter. This is a
// deliberate second pass with stricter thresholds than staging
// qualification (minRVOLActive instead of minRVOLBase) — the staging
// qualified flag is not trusted here.
// ⭐ SSOT: 2차 후보 선별은 여기서만
func Scan(rows []contracts.MarketCacheRow, f contracts.FilterSpec) []contracts.MarketCacheRow {
	out := make([]contracts.MarketCacheRow, 0, len(rows))
	for _, row := range rows {
		if passes(row, f) {
			out = append(out, row)
		}
	}
	return out
}

func passes(row contracts.MarketCacheRow, f contracts.FilterSpec) bool {
	if f.PriceMax > 0 && (row.Price < f.PriceMin || row.Price > f.PriceMax) {
		return false
	}
	if row.AvgVolume10D < f.MinAvgVol10D {
		return false
	}
	if row.RVOL < f.MinRVOLActive {
		return false
	}

	// Fundamentals thresholds apply only when a snapshot exists; a zero
	// threshold disables its check (same convention as staging).
	if fund := row.Fundamentals; fund != nil {
		if f.MaxFloatM > 0 && fund.FloatM >= f.MaxFloatM {
			return false
		}
		if f.MinShortInterestPct > 0 && fund.ShortInterestPct < f.MinShortInterestPct {
			return false
		}
		if f.MinDaysToCover > 0 && fund.DaysToCover < f.MinDaysToCover {
			return false
		}
		if f.MinBorrowFeePct > 0 && fund.BorrowFeePct < f.MinBorrowFeePct {
			return false
		}
	}
	return true
}
