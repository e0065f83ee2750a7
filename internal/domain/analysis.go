package domain

import "fmt"

// Recommendation is the trade direction an analysis settles on.
type Recommendation string

const (
	RecommendBuyYes  Recommendation = "BUY_YES"
	RecommendBuyNo   Recommendation = "BUY_NO"
	RecommendNoTrade Recommendation = "NO_TRADE"
)

// Valid reports whether r is one of the three known recommendations.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendBuyYes, RecommendBuyNo, RecommendNoTrade:
		return true
	}
	return false
}

// Analysis is a single AI verdict on a market. Produced once per request and
// never mutated.
type Analysis struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	KeyFactors     []string       `json:"key_factors"`
}

// Validate checks the enum and confidence bounds on a parsed analysis.
func (a *Analysis) Validate() error {
	if !a.Recommendation.Valid() {
		return fmt.Errorf("%w: unknown recommendation %q", ErrExternalAPI, a.Recommendation)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrExternalAPI, a.Confidence)
	}
	return nil
}
