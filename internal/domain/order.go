package domain

// OrderSide is the direction of an order instruction.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// OrderStatus is the lifecycle state reported by the order submission sink.
// The sink returns pending rather than blocking until fill.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusFailed    OrderStatus = "failed"
)

// OrderMode selects how the order bot spreads its bankroll.
type OrderMode string

const (
	// ModeSimple buys both sides once at the current prices (a straddle).
	ModeSimple OrderMode = "simple"
	// ModeLadder spreads each side across multiple price levels with an
	// exponential taper.
	ModeLadder OrderMode = "ladder"
)

// Valid reports whether m is a known order mode.
func (m OrderMode) Valid() bool {
	return m == ModeSimple || m == ModeLadder
}

// OrderResult records the outcome of one order submission.
type OrderResult struct {
	TokenID string      `json:"token_id"`
	Outcome string      `json:"outcome"`
	Side    OrderSide   `json:"side"`
	Price   float64     `json:"price"`
	Size    float64     `json:"size"`
	OrderID string      `json:"order_id,omitempty"`
	Status  OrderStatus `json:"status"`
}
