package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictos/predictd/internal/domain"
)

type fakeMarkets struct {
	snap domain.Snapshot
	err  error
	slug string
}

func (f *fakeMarkets) GetMarketBySlug(ctx context.Context, slug string) (domain.Snapshot, error) {
	f.slug = slug
	return f.snap, f.err
}

type fakeSink struct {
	submissions []submission
	failAt      int // 1-based call index to fail on, 0 never
}

type submission struct {
	tokenID string
	side    domain.OrderSide
	price   float64
	size    float64
}

func (f *fakeSink) Submit(ctx context.Context, tokenID string, side domain.OrderSide, price, size float64) (domain.OrderResult, error) {
	f.submissions = append(f.submissions, submission{tokenID, side, price, size})
	if f.failAt > 0 && len(f.submissions) == f.failAt {
		return domain.OrderResult{}, fmt.Errorf("clob: %w: relay refused", domain.ErrExternalAPI)
	}
	return domain.OrderResult{
		TokenID: tokenID,
		Side:    side,
		Price:   price,
		Size:    size,
		OrderID: fmt.Sprintf("ord-%d", len(f.submissions)),
		Status:  domain.OrderStatusPending,
	}, nil
}

func newOrderFixture(sink *fakeSink) (*OrderService, *fakeMarkets) {
	markets := &fakeMarkets{snap: binarySnapshot()}
	svc := NewOrderService(markets, sink, DefaultOrderParams(), nil, testLogger())
	return svc, markets
}

func TestPlaceOrders_StraddleSubmitsBothSides(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newOrderFixture(sink)

	result, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		MarketSlug:  "15min-up-down-20260901-1530",
		Mode:        domain.ModeSimple,
		BankrollUSD: 100,
	})
	require.NoError(t, err)

	require.Len(t, result.Orders, 2)
	assert.Equal(t, "tok-up", result.Orders[0].TokenID)
	assert.Equal(t, "Up", result.Orders[0].Outcome)
	assert.Equal(t, "tok-down", result.Orders[1].TokenID)
	assert.Equal(t, "Down", result.Orders[1].Outcome)

	// 50 per side at spot.
	assert.InDelta(t, 50/0.52, sink.submissions[0].size, 1e-9)
	assert.InDelta(t, 50/0.48, sink.submissions[1].size, 1e-9)
	for _, sub := range sink.submissions {
		assert.Equal(t, domain.SideBuy, sub.side)
	}
}

func TestPlaceOrders_StraddleFloorsTinyBankroll(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newOrderFixture(sink)

	_, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		MarketSlug:  "s",
		Mode:        domain.ModeSimple,
		BankrollUSD: 0.10,
	})
	require.NoError(t, err)

	for _, sub := range sink.submissions {
		assert.Equal(t, 5.0, sub.size)
	}
}

func TestPlaceOrders_LadderSubmitsUpThenDown(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newOrderFixture(sink)

	result, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		MarketSlug:  "s",
		Mode:        domain.ModeLadder,
		BankrollUSD: 200,
		PriceLevels: 3,
	})
	require.NoError(t, err)
	require.Len(t, result.Orders, 6)

	for i := 0; i < 3; i++ {
		assert.Equal(t, "tok-up", result.Orders[i].TokenID)
	}
	for i := 3; i < 6; i++ {
		assert.Equal(t, "tok-down", result.Orders[i].TokenID)
	}
	// Lowest rung first within each side.
	assert.Less(t, result.Orders[0].Price, result.Orders[1].Price)
	assert.Less(t, result.Orders[3].Price, result.Orders[4].Price)
}

func TestPlaceOrders_LadderDefaultsLevels(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newOrderFixture(sink)

	result, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		MarketSlug:  "s",
		Mode:        domain.ModeLadder,
		BankrollUSD: 100,
	})
	require.NoError(t, err)
	assert.Len(t, result.Orders, 2*DefaultOrderParams().DefaultLevels)
}

func TestPlaceOrders_PartialFailureReturnsSubmittedOrders(t *testing.T) {
	sink := &fakeSink{failAt: 4}
	svc, _ := newOrderFixture(sink)

	result, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		MarketSlug:  "s",
		Mode:        domain.ModeLadder,
		BankrollUSD: 100,
		PriceLevels: 3,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalAPI)
	require.NotNil(t, result, "partial result must survive a mid-sequence failure")
	assert.Len(t, result.Orders, 3)
	assert.NotEmpty(t, result.Logs)
	assert.NotEmpty(t, result.Meta.Timestamp)
}

func TestPlaceOrders_DefaultSlugTargetsNextWindow(t *testing.T) {
	sink := &fakeSink{}
	svc, markets := newOrderFixture(sink)
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 15, 7, 12, 0, time.UTC)
	}

	_, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		Mode:        domain.ModeSimple,
		BankrollUSD: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "15min-up-down-20260901-1515", markets.slug)
}

func TestPlaceOrders_Validation(t *testing.T) {
	svc, _ := newOrderFixture(&fakeSink{})

	tests := []struct {
		name string
		req  PlaceOrdersRequest
	}{
		{"zero bankroll", PlaceOrdersRequest{Mode: domain.ModeSimple}},
		{"negative bankroll", PlaceOrdersRequest{Mode: domain.ModeSimple, BankrollUSD: -10}},
		{"bad mode", PlaceOrdersRequest{Mode: "market", BankrollUSD: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.PlaceOrders(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Nil(t, result)
		})
	}
}

func TestPlaceOrders_NonBinaryMarketRejected(t *testing.T) {
	markets := &fakeMarkets{snap: domain.Snapshot{
		ID:       "mkt-2",
		Question: "single outcome",
		Outcomes: []domain.Outcome{{ID: "only", Name: "Yes", Price: 0.5}},
	}}
	svc := NewOrderService(markets, &fakeSink{}, DefaultOrderParams(), nil, testLogger())

	_, err := svc.PlaceOrders(context.Background(), PlaceOrdersRequest{
		MarketSlug:  "s",
		Mode:        domain.ModeSimple,
		BankrollUSD: 100,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
