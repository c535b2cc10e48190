package contracts

// Quote is one raw snapshot from the market-data oracle. Derived fields
// (RVOL, change, distance to high) are computed by the pipeline, not here.
type Quote struct {
	Symbol       string  `json:"symbol"`
	Price        float64 `json:"price"`
	Volume       float64 `json:"volume"`
	AvgVolume10D float64 `json:"avgVolume10d"`
	PrevClose    float64 `json:"prevClose"`
	High52W      float64 `json:"high52w"`
}
