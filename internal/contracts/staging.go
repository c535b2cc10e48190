package contracts

import "time"

// Category classifies the technical setup shape of a ticker.
// 카테고리는 상호 배타적 (first-match 분류)
type Category string

const (
	CategoryPending      Category = "PENDING"
	CategorySqueeze      Category = "SQUEEZE"
	CategoryBreakout     Category = "BREAKOUT"
	CategoryMomentum     Category = "MOMENTUM"
	CategoryAccumulation Category = "ACCUMULATION"
	CategoryBuilding     Category = "BUILDING"
)

// Exportable reports whether a row in this category may leave staging
func (c Category) Exportable() bool {
	return c != CategoryPending && c != CategoryBuilding
}

// Fundamentals holds optional short-squeeze lookup fields for a ticker
type Fundamentals struct {
	FloatM           float64 `json:"float_m"`            // public float, millions of shares
	ShortInterestPct float64 `json:"short_interest_pct"` // short interest, % of float
	DaysToCover      float64 `json:"days_to_cover"`      // short interest / avg daily volume
	BorrowFeePct     float64 `json:"borrow_fee_pct"`     // annualized borrow cost, %
	Catalyst         string  `json:"catalyst,omitempty"`
	NewsScore        float64 `json:"news_score,omitempty"`
}

// Metrics are the computed market-data fields of a staging row.
// ChangePct, DistanceToHighPct는 비율 (0.05 = 5%).
type Metrics struct {
	Price             float64 `json:"price"`
	Volume            float64 `json:"volume"`
	DollarVolume      float64 `json:"dollar_volume"`
	AvgVolume10D      float64 `json:"avg_volume_10d"`
	RVOL              float64 `json:"rvol"` // volume / avg_volume_10d
	PrevClose         float64 `json:"prev_close"`
	ChangePct         float64 `json:"change_pct"`
	High52W           float64 `json:"high_52w"`
	DistanceToHighPct float64 `json:"distance_to_high_pct"`
}

// StagingRow is one ledger entry, keyed by ticker.
// 티커당 정확히 한 행. full reset 외에는 삭제되지 않음.
type StagingRow struct {
	Ticker  string `json:"ticker"`
	Company string `json:"company"`

	Metrics

	Category  Category `json:"category"`
	Qualified bool     `json:"qualified"`
	Exported  bool     `json:"exported"`

	// HasMetrics marks that the oracle populated Metrics; rows without it
	// stay PENDING regardless of filter.
	HasMetrics bool `json:"has_metrics"`

	Fundamentals *Fundamentals `json:"fundamentals,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
