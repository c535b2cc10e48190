package contracts

import "time"

// Signal labels, strongest first
const (
	SignalStrongBuy = "STRONG BUY"
	SignalBuy       = "BUY"
	SignalSpecBuy   = "SPEC BUY"
	SignalWatch     = "WATCH"
)

// TradeSignal is one ranked scoring result. Ephemeral — fully recomputed
// on every scoring run.
type TradeSignal struct {
	Rank    int    `json:"rank"`
	Ticker  string `json:"ticker"`
	Company string `json:"company"`

	Score   int      `json:"score"` // 0..100
	Signal  string   `json:"signal"`
	Pattern Category `json:"pattern"`

	Entry   float64 `json:"entry"`
	Stop    float64 `json:"stop"`
	Target1 float64 `json:"target1"`
	Target2 float64 `json:"target2"`
	Stretch float64 `json:"stretch"`

	RiskReward      float64 `json:"risk_reward"`
	ExpectedMovePct float64 `json:"expected_move_pct"`

	Notes string `json:"notes"`
}

// RunStatus is the last-run record kept in the state store
type RunStatus struct {
	Step      string    `json:"step"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}
