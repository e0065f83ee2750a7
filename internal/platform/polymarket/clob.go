package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/predictos/predictd/internal/domain"
)

// RelayClient is the order submission sink. It validates and shapes an order
// instruction and returns a pending result without blocking for a fill.
//
// Transmitting the order to the CLOB requires an EIP-712 signature, which is
// out of scope here; the relay assigns a client reference id and reports the
// order as pending so callers can track the ladder sequence.
type RelayClient struct {
	logger *slog.Logger
}

// NewRelayClient creates the order relay.
func NewRelayClient(logger *slog.Logger) *RelayClient {
	return &RelayClient{
		logger: logger.With(slog.String("component", "clob_relay")),
	}
}

// Submit accepts one order instruction. Each call is independent: a failure
// on a later order says nothing about earlier ones.
func (c *RelayClient) Submit(ctx context.Context, tokenID string, side domain.OrderSide, price, size float64) (domain.OrderResult, error) {
	if tokenID == "" {
		return domain.OrderResult{}, fmt.Errorf("polymarket/clob: %w: token id required", domain.ErrValidation)
	}
	if side != domain.SideBuy && side != domain.SideSell {
		return domain.OrderResult{}, fmt.Errorf("polymarket/clob: %w: invalid side %q", domain.ErrValidation, side)
	}
	if price <= 0 || price >= 1 {
		return domain.OrderResult{}, fmt.Errorf("polymarket/clob: %w: price %v outside (0,1)", domain.ErrValidation, price)
	}
	if size <= 0 {
		return domain.OrderResult{}, fmt.Errorf("polymarket/clob: %w: size must be positive", domain.ErrValidation)
	}

	c.logger.WarnContext(ctx, "clob: order relay is not wired to a signer, reporting pending",
		slog.String("token_id", tokenID),
		slog.String("side", string(side)),
		slog.Float64("price", price),
		slog.Float64("size", size),
	)

	return domain.OrderResult{
		TokenID: tokenID,
		Side:    side,
		Price:   price,
		Size:    size,
		OrderID: uuid.NewString(),
		Status:  domain.OrderStatusPending,
	}, nil
}
