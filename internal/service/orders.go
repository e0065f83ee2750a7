package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/predictos/predictd/internal/domain"
	"github.com/predictos/predictd/internal/engine"
	"github.com/predictos/predictd/internal/platform/polymarket"
)

// MarketBySlugFetcher resolves a market slug to a snapshot.
type MarketBySlugFetcher interface {
	GetMarketBySlug(ctx context.Context, slug string) (domain.Snapshot, error)
}

// OrderSubmitter is the order submission sink. Each call is independent and
// returns a lifecycle status rather than blocking for a fill.
type OrderSubmitter interface {
	Submit(ctx context.Context, tokenID string, side domain.OrderSide, price, size float64) (domain.OrderResult, error)
}

// OrderParams carries the sizing knobs from configuration.
type OrderParams struct {
	DefaultLevels int     // ladder levels when the request omits them
	MinPrice      float64 // ladder lower bound
	MaxPrice      float64 // ladder upper bound
}

// DefaultOrderParams mirror the platform's 15-minute up/down series.
func DefaultOrderParams() OrderParams {
	return OrderParams{DefaultLevels: 5, MinPrice: 0.01, MaxPrice: 0.99}
}

// PlaceOrdersRequest is the input to the order bot.
type PlaceOrdersRequest struct {
	MarketSlug  string           `json:"market_slug,omitempty"`
	Mode        domain.OrderMode `json:"mode"`
	BankrollUSD float64          `json:"bankroll_usd"`
	PriceLevels int              `json:"price_levels,omitempty"`
}

// PlaceOrdersResult is the order bot response payload. On a mid-sequence
// submission failure it is still returned (alongside the error) carrying the
// orders submitted so far.
type PlaceOrdersResult struct {
	Orders []domain.OrderResult `json:"orders"`
	Market domain.Snapshot      `json:"market"`
	Logs   []string             `json:"logs"`
	Meta   domain.Meta          `json:"metadata"`
}

// OrderService sizes and submits straddle or ladder orders for the paired
// Up/Down strategy.
type OrderService struct {
	markets MarketBySlugFetcher
	sink    OrderSubmitter
	params  OrderParams
	events  EventPublisher
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrderService creates an OrderService. events may be nil.
func NewOrderService(markets MarketBySlugFetcher, sink OrderSubmitter, params OrderParams, events EventPublisher, logger *slog.Logger) *OrderService {
	if params.DefaultLevels <= 0 {
		params = DefaultOrderParams()
	}
	return &OrderService{
		markets: markets,
		sink:    sink,
		params:  params,
		events:  orPublisher(events),
		logger:  logger.With(slog.String("component", "order_service")),
		now:     time.Now,
	}
}

// PlaceOrders runs one straddle or ladder placement. Orders are submitted
// one at a time in emitted order; a failure partway through returns the
// result built so far together with the error.
func (s *OrderService) PlaceOrders(ctx context.Context, req PlaceOrdersRequest) (*PlaceOrdersResult, error) {
	start := s.now()

	if req.BankrollUSD <= 0 {
		return nil, fmt.Errorf("orders: %w: bankroll must be greater than 0", domain.ErrValidation)
	}
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("orders: %w: mode must be %q or %q", domain.ErrValidation, domain.ModeSimple, domain.ModeLadder)
	}

	slug := req.MarketSlug
	if slug == "" {
		// Orders target the upcoming window so they rest before it opens.
		slug = polymarket.WindowSlug(polymarket.NextWindow(start))
	}

	result := &PlaceOrdersResult{}
	result.Logs = append(result.Logs, "Target market: "+slug)

	market, err := s.markets.GetMarketBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	result.Market = market
	result.Logs = append(result.Logs, "Fetched market: "+market.Question)

	if !market.Binary() {
		return nil, fmt.Errorf("orders: %w: market must have at least 2 outcomes", domain.ErrValidation)
	}

	up := market.Outcomes[0]
	down := market.Outcomes[1]
	result.Logs = append(result.Logs, fmt.Sprintf("Up token: %s, Down token: %s", up.ID, down.ID))

	var placeErr error
	switch req.Mode {
	case domain.ModeSimple:
		placeErr = s.placeStraddle(ctx, req.BankrollUSD, up, down, result)
	case domain.ModeLadder:
		placeErr = s.placeLadders(ctx, req, up, down, result)
	}

	result.Meta = domain.NewMeta(start, "", 0)
	result.Logs = append(result.Logs, fmt.Sprintf("Completed in %dms", result.Meta.ExecutionTimeMs))

	if placeErr != nil {
		s.logger.ErrorContext(ctx, "orders: placement failed partway",
			slog.String("market", slug),
			slog.Int("submitted", len(result.Orders)),
			slog.String("error", placeErr.Error()),
		)
		return result, placeErr
	}

	s.events.Publish(EventOrder, result)
	return result, nil
}

// placeStraddle buys both sides once at their current prices, half the
// bankroll per side, floored at the minimum share size.
func (s *OrderService) placeStraddle(ctx context.Context, bankroll float64, up, down domain.Outcome, result *PlaceOrdersResult) error {
	result.Logs = append(result.Logs, "Mode: Simple (straddle)")

	perSide := bankroll / 2
	for _, leg := range []struct {
		outcome domain.Outcome
		label   string
	}{
		{up, "Up"},
		{down, "Down"},
	} {
		shares := math.Max(perSide/leg.outcome.Price, engine.MinShareFloor)
		result.Logs = append(result.Logs, fmt.Sprintf("Placing %s order: %.2f shares @ $%.4f", leg.label, shares, leg.outcome.Price))

		if err := s.submit(ctx, leg.outcome, shares, leg.outcome.Price, result); err != nil {
			return err
		}
	}
	return nil
}

// placeLadders spreads half the bankroll across taper-weighted price levels
// on each side, lowest price first.
func (s *OrderService) placeLadders(ctx context.Context, req PlaceOrdersRequest, up, down domain.Outcome, result *PlaceOrdersResult) error {
	result.Logs = append(result.Logs, "Mode: Ladder (exponential taper)")

	levels := req.PriceLevels
	if levels <= 0 {
		levels = s.params.DefaultLevels
	}

	ladder, err := engine.LadderOrders(req.BankrollUSD/2, levels, s.params.MinPrice, s.params.MaxPrice)
	if err != nil {
		return err
	}
	result.Logs = append(result.Logs, fmt.Sprintf("Calculated %d price levels per side", levels))

	for _, leg := range []struct {
		outcome domain.Outcome
		label   string
	}{
		{up, "Up"},
		{down, "Down"},
	} {
		for _, level := range ladder {
			result.Logs = append(result.Logs, fmt.Sprintf("%s ladder: %.2f shares @ $%.4f", leg.label, level.Size, level.Price))
			if err := s.submit(ctx, leg.outcome, level.Size, level.Price, result); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *OrderService) submit(ctx context.Context, outcome domain.Outcome, size, price float64, result *PlaceOrdersResult) error {
	order, err := s.sink.Submit(ctx, outcome.ID, domain.SideBuy, price, size)
	if err != nil {
		return err
	}
	order.Outcome = outcome.Name
	result.Orders = append(result.Orders, order)
	return nil
}
