package contracts

// FilterSpec is one named qualification parameter set.
// 정확히 하나가 "active" (state store의 포인터로 관리).
//
// Percent-named fields carry bare percentages (30 = 30%), while
// IgnitionDeltaPct and BreakoutDistPct carry ratios (0.05 = 5%) because
// they are compared directly against ChangePct/DistanceToHighPct.
type FilterSpec struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`

	// Base qualification gate
	PriceMin     float64 `json:"price_min"`
	PriceMax     float64 `json:"price_max"`
	MinAvgVol10D float64 `json:"min_avg_vol_10d"`
	MinRVOLBase  float64 `json:"min_rvol_base"`

	// Categorization thresholds
	MinRVOLActive    float64 `json:"min_rvol_active"`
	IgnitionRVOL     float64 `json:"ignition_rvol"`
	IgnitionDeltaPct float64 `json:"ignition_delta_pct"` // ratio
	BreakoutDistPct  float64 `json:"breakout_dist_pct"`  // ratio

	// Fundamentals gate (0 disables the individual check)
	MaxFloatM           float64 `json:"max_float_m"`
	MinShortInterestPct float64 `json:"min_short_interest_pct"`
	MinDaysToCover      float64 `json:"min_days_to_cover"`
	MinBorrowFeePct     float64 `json:"min_borrow_fee_pct"`

	// Trade-plan annotations
	Horizon   string `json:"horizon"`
	ScalePlan string `json:"scale_plan"`
}
