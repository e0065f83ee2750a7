package engine

import (
	"strings"

	"github.com/predictos/predictd/internal/domain"
)

// PairAssessment is the verdict on a paired Up/Down position. ProfitLock is
// set only for PROFIT_LOCKED; BreakEven only for BREAK_EVEN and AT_RISK.
type PairAssessment struct {
	Status     domain.PairStatus
	ProfitLock *float64
	BreakEven  *float64
}

// ClassifyPair classifies a pair of positions (or fewer) into a trading-state
// verdict with derived profit-lock / break-even figures.
//
// The two sides are located by substring match on the outcome label, not the
// token id. Renamed or localized outcome labels will fail to pair and fall
// back to NO_POSITION; callers depend on label-paired results, so the
// convention is kept despite its fragility.
func ClassifyPair(positions []domain.Position) PairAssessment {
	if len(positions) < 2 {
		return PairAssessment{Status: domain.PairNoPosition}
	}

	up := findByLabel(positions, "Up")
	down := findByLabel(positions, "Down")
	if up == nil || down == nil {
		return PairAssessment{Status: domain.PairNoPosition}
	}

	total := up.UnrealizedPnL + down.UnrealizedPnL

	switch {
	case total > 0:
		lock := total
		return PairAssessment{Status: domain.PairProfitLocked, ProfitLock: &lock}
	case total == 0:
		breakEven := 0.0
		return PairAssessment{Status: domain.PairBreakEven, BreakEven: &breakEven}
	default:
		breakEven := (up.AvgPrice + down.AvgPrice) / 2
		return PairAssessment{Status: domain.PairAtRisk, BreakEven: &breakEven}
	}
}

func findByLabel(positions []domain.Position, label string) *domain.Position {
	for i := range positions {
		if strings.Contains(positions[i].Outcome, label) {
			return &positions[i]
		}
	}
	return nil
}
