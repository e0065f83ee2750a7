package domain

// Position is a holding in one outcome of a market, recomputed each request
// from upstream position data.
type Position struct {
	TokenID       string  `json:"token_id"`
	Outcome       string  `json:"outcome"`
	Shares        float64 `json:"shares"`
	AvgPrice      float64 `json:"avg_price"`
	CurrentPrice  float64 `json:"current_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// PairStatus classifies a simultaneously-held Up/Down position pair.
type PairStatus string

const (
	PairProfitLocked PairStatus = "PROFIT_LOCKED"
	PairBreakEven    PairStatus = "BREAK_EVEN"
	PairAtRisk       PairStatus = "AT_RISK"
	PairNoPosition   PairStatus = "NO_POSITION"
)
