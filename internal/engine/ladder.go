// Package engine holds the pure decision functions of the backend: ladder
// order sizing and Up/Down pair classification. Nothing here performs I/O or
// touches shared state, so every function is safe to call concurrently.
package engine

import (
	"fmt"
	"math"

	"github.com/predictos/predictd/internal/domain"
)

// MinShareFloor is the platform-imposed minimum order size in shares.
const MinShareFloor = 5.0

// LadderLevel is one price/size pair of a ladder.
type LadderLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// LadderOrders spreads bankroll across levels price points between minPrice
// and maxPrice with an exponential taper that weights lower prices heaviest.
//
// Price at index i is the linear interpolation min + (max-min)*i/(levels-1).
// Weight at index i is 2^(levels-i), and each allocation is
// bankroll * weight / (2^levels - 1). The divisor does not equal the weight
// sum (2^(levels+1) - 2), so total allocation overshoots the bankroll; order
// sizing downstream depends on that arithmetic, so it is kept as-is rather
// than normalized. Every size is floored at MinShareFloor, which can push
// spend further above bankroll on thin early levels.
//
// Levels == 1 is a degenerate single-level ladder: the whole bankroll at
// minPrice. The output is ordered ascending by price index.
func LadderOrders(bankroll float64, levels int, minPrice, maxPrice float64) ([]LadderLevel, error) {
	if bankroll <= 0 {
		return nil, fmt.Errorf("%w: bankroll must be greater than 0", domain.ErrValidation)
	}
	if levels <= 0 {
		return nil, fmt.Errorf("%w: price levels must be at least 1", domain.ErrValidation)
	}
	if minPrice <= 0 {
		return nil, fmt.Errorf("%w: min price must be greater than 0", domain.ErrValidation)
	}
	if minPrice >= maxPrice {
		return nil, fmt.Errorf("%w: min price %v must be below max price %v", domain.ErrValidation, minPrice, maxPrice)
	}

	if levels == 1 {
		return []LadderLevel{{
			Price: minPrice,
			Size:  math.Max(bankroll/minPrice, MinShareFloor),
		}}, nil
	}

	divisor := math.Pow(2, float64(levels)) - 1

	orders := make([]LadderLevel, 0, levels)
	for i := 0; i < levels; i++ {
		price := minPrice + (maxPrice-minPrice)*float64(i)/float64(levels-1)
		weight := math.Pow(2, float64(levels-i))
		allocation := bankroll * weight / divisor
		size := math.Max(allocation/price, MinShareFloor)

		orders = append(orders, LadderLevel{Price: price, Size: size})
	}

	return orders, nil
}
