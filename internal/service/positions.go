package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/predictos/predictd/internal/domain"
	"github.com/predictos/predictd/internal/engine"
	"github.com/predictos/predictd/internal/platform/polymarket"
)

// PositionsFetcher returns a wallet's raw position rows, optionally filtered
// by token id.
type PositionsFetcher interface {
	GetPositions(ctx context.Context, wallet string, tokenIDs []string) ([]polymarket.PositionData, error)
}

// TrackRequest is the input to the position tracker.
type TrackRequest struct {
	WalletAddress string `json:"wallet_address"`
	MarketSlug    string `json:"market_slug,omitempty"`
}

// TrackResult is the position tracker response payload. ProfitLock is set
// only for PROFIT_LOCKED; BreakEven only for BREAK_EVEN and AT_RISK.
type TrackResult struct {
	Market     domain.Snapshot   `json:"market"`
	Positions  []domain.Position `json:"positions"`
	PairStatus domain.PairStatus `json:"pair_status"`
	ProfitLock *float64          `json:"profit_lock"`
	BreakEven  *float64          `json:"break_even"`
	Meta       domain.Meta       `json:"metadata"`
}

// PositionService fetches a wallet's Up/Down pair and classifies it.
type PositionService struct {
	markets   MarketBySlugFetcher
	positions PositionsFetcher
	events    EventPublisher
	alerts    Alerter
	logger    *slog.Logger
	now       func() time.Time
}

// NewPositionService creates a PositionService. events and alerts may be nil.
func NewPositionService(markets MarketBySlugFetcher, positions PositionsFetcher, events EventPublisher, alerts Alerter, logger *slog.Logger) *PositionService {
	return &PositionService{
		markets:   markets,
		positions: positions,
		events:    orPublisher(events),
		alerts:    orAlerter(alerts),
		logger:    logger.With(slog.String("component", "position_service")),
		now:       time.Now,
	}
}

// Track fetches the market and the wallet's positions concurrently, derives
// per-position P&L, and classifies the pair.
func (s *PositionService) Track(ctx context.Context, req TrackRequest) (*TrackResult, error) {
	start := s.now()

	if req.WalletAddress == "" {
		return nil, fmt.Errorf("positions: %w: wallet address is required", domain.ErrValidation)
	}
	if !ethcommon.IsHexAddress(req.WalletAddress) {
		return nil, fmt.Errorf("positions: %w: %q is not a valid wallet address", domain.ErrValidation, req.WalletAddress)
	}

	slug := req.MarketSlug
	if slug == "" {
		slug = polymarket.WindowSlug(polymarket.CurrentWindow(start))
	}

	var (
		market domain.Snapshot
		rows   []polymarket.PositionData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		market, err = s.markets.GetMarketBySlug(gctx, slug)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.positions.GetPositions(gctx, req.WalletAddress, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !market.Binary() {
		return nil, fmt.Errorf("positions: %w: market must have at least 2 outcomes", domain.ErrValidation)
	}

	positions := buildPositions(market, rows)
	assessment := engine.ClassifyPair(positions)

	result := &TrackResult{
		Market:     market,
		Positions:  positions,
		PairStatus: assessment.Status,
		ProfitLock: assessment.ProfitLock,
		BreakEven:  assessment.BreakEven,
		Meta:       domain.NewMeta(start, "", 0),
	}

	s.events.Publish(EventPair, result)

	if assessment.Status == domain.PairProfitLocked {
		title := "Profit locked on " + market.Question
		message := fmt.Sprintf("locked %.2f USD across the Up/Down pair", *assessment.ProfitLock)
		if err := s.alerts.Notify(ctx, EventPair, title, message); err != nil {
			s.logger.WarnContext(ctx, "positions: alert delivery failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}

// buildPositions keeps only rows belonging to the market's outcomes, resolves
// their labels, and derives unrealized P&L.
func buildPositions(market domain.Snapshot, rows []polymarket.PositionData) []domain.Position {
	labels := make(map[string]string, len(market.Outcomes))
	for _, o := range market.Outcomes {
		labels[o.ID] = o.Name
	}

	positions := make([]domain.Position, 0, len(rows))
	for _, row := range rows {
		label, ok := labels[row.TokenID]
		if !ok {
			continue
		}
		positions = append(positions, domain.Position{
			TokenID:       row.TokenID,
			Outcome:       label,
			Shares:        row.Shares,
			AvgPrice:      row.AvgPrice,
			CurrentPrice:  row.CurrentPrice,
			UnrealizedPnL: (row.CurrentPrice - row.AvgPrice) * row.Shares,
		})
	}
	return positions
}
