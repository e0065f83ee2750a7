// Package domain defines the request-scoped data contracts shared by the
// services, clients, and HTTP handlers. Entities are created per request and
// discarded at response time; nothing here is shared mutable state.
package domain

// Platform identifies the prediction-market venue a snapshot came from.
type Platform string

const (
	PlatformPolymarket Platform = "polymarket"
	PlatformKalshi     Platform = "kalshi"
)

// Outcome is one side of a market. Price is the current trade price in
// probability space (typically [0,1]).
type Outcome struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Volume24 *float64 `json:"volume,omitempty"`
}

// Snapshot is a point-in-time read of a market: its question, outcomes, and
// volume/liquidity figures. Outcome order is significant — index 0 and 1 are
// the two sides of a binary pair ("Up"/"Down" by convention).
type Snapshot struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Slug      string    `json:"slug,omitempty"`
	Ticker    string    `json:"ticker,omitempty"`
	Platform  Platform  `json:"platform"`
	Outcomes  []Outcome `json:"outcomes"`
	Volume    *float64  `json:"volume,omitempty"`
	Liquidity *float64  `json:"liquidity,omitempty"`
}

// Binary reports whether the snapshot carries the two outcomes required for
// paired Up/Down trading.
func (s *Snapshot) Binary() bool {
	return len(s.Outcomes) >= 2
}
