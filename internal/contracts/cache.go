package contracts

import "time"

// MarketCacheRow is a qualified staging row copied into the second-stage
// cache. Append-only except for full reset; no ticker appears twice.
type MarketCacheRow struct {
	Ticker  string `json:"ticker"`
	Company string `json:"company"`

	Price             float64 `json:"price"`
	Volume            float64 `json:"volume"`
	DollarVolume      float64 `json:"dollar_volume"`
	AvgVolume10D      float64 `json:"avg_volume_10d"`
	RVOL              float64 `json:"rvol"`
	ChangePct         float64 `json:"change_pct"`
	DistanceToHighPct float64 `json:"distance_to_high_pct"`

	Category     Category      `json:"category"`
	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`

	ExportedAt time.Time `json:"exported_at"`
}

// CacheRowFromStaging copies the exported subset of a staging row
func CacheRowFromStaging(row StagingRow, now time.Time) MarketCacheRow {
	return MarketCacheRow{
		Ticker:            row.Ticker,
		Company:           row.Company,
		Price:             row.Price,
		Volume:            row.Volume,
		DollarVolume:      row.DollarVolume,
		AvgVolume10D:      row.AvgVolume10D,
		RVOL:              row.RVOL,
		ChangePct:         row.ChangePct,
		DistanceToHighPct: row.DistanceToHighPct,
		Category:          row.Category,
		Fundamentals:      row.Fundamentals,
		ExportedAt:        now,
	}
}
