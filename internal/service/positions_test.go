package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictos/predictd/internal/domain"
	"github.com/predictos/predictd/internal/platform/polymarket"
)

const testWallet = "0x56687bf447db6ffa42ffe2204a05edaa20f55839"

type fakePositions struct {
	rows   []polymarket.PositionData
	err    error
	wallet string
}

func (f *fakePositions) GetPositions(ctx context.Context, wallet string, tokenIDs []string) ([]polymarket.PositionData, error) {
	f.wallet = wallet
	return f.rows, f.err
}

func TestTrack_AtRiskPair(t *testing.T) {
	markets := &fakeMarkets{snap: binarySnapshot()}
	positions := &fakePositions{rows: []polymarket.PositionData{
		{TokenID: "tok-up", Shares: 100, AvgPrice: 0.45, CurrentPrice: 0.40},
		{TokenID: "tok-down", Shares: 100, AvgPrice: 0.50, CurrentPrice: 0.55},
	}}
	svc := NewPositionService(markets, positions, nil, nil, testLogger())

	result, err := svc.Track(context.Background(), TrackRequest{
		WalletAddress: testWallet,
		MarketSlug:    "15min-up-down-20260901-1500",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PairAtRisk, result.PairStatus)
	assert.Nil(t, result.ProfitLock)
	require.NotNil(t, result.BreakEven)
	assert.InDelta(t, 0.475, *result.BreakEven, 1e-9)
	assert.Equal(t, testWallet, positions.wallet)

	require.Len(t, result.Positions, 2)
	assert.Equal(t, "Up", result.Positions[0].Outcome)
	assert.InDelta(t, -5.0, result.Positions[0].UnrealizedPnL, 1e-9)
	assert.InDelta(t, 5.0, result.Positions[1].UnrealizedPnL, 1e-9)
}

func TestTrack_ProfitLockedSendsAlert(t *testing.T) {
	markets := &fakeMarkets{snap: binarySnapshot()}
	positions := &fakePositions{rows: []polymarket.PositionData{
		{TokenID: "tok-up", Shares: 100, AvgPrice: 0.40, CurrentPrice: 0.60},
		{TokenID: "tok-down", Shares: 50, AvgPrice: 0.50, CurrentPrice: 0.45},
	}}
	alerts := &recordingAlerter{}
	svc := NewPositionService(markets, positions, nil, alerts, testLogger())

	result, err := svc.Track(context.Background(), TrackRequest{
		WalletAddress: testWallet,
		MarketSlug:    "s",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PairProfitLocked, result.PairStatus)
	require.NotNil(t, result.ProfitLock)
	assert.InDelta(t, 17.5, *result.ProfitLock, 1e-9)
	require.Len(t, alerts.titles, 1)
	assert.Contains(t, alerts.titles[0], "Profit locked")
}

func TestTrack_SingleSideIsNoPosition(t *testing.T) {
	markets := &fakeMarkets{snap: binarySnapshot()}
	positions := &fakePositions{rows: []polymarket.PositionData{
		{TokenID: "tok-up", Shares: 100, AvgPrice: 0.45, CurrentPrice: 0.50},
	}}
	svc := NewPositionService(markets, positions, nil, nil, testLogger())

	result, err := svc.Track(context.Background(), TrackRequest{
		WalletAddress: testWallet,
		MarketSlug:    "s",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PairNoPosition, result.PairStatus)
	assert.Nil(t, result.ProfitLock)
	assert.Nil(t, result.BreakEven)
}

func TestTrack_FiltersRowsFromOtherMarkets(t *testing.T) {
	markets := &fakeMarkets{snap: binarySnapshot()}
	positions := &fakePositions{rows: []polymarket.PositionData{
		{TokenID: "tok-up", Shares: 10, AvgPrice: 0.5, CurrentPrice: 0.5},
		{TokenID: "tok-other", Shares: 99, AvgPrice: 0.1, CurrentPrice: 0.9},
	}}
	svc := NewPositionService(markets, positions, nil, nil, testLogger())

	result, err := svc.Track(context.Background(), TrackRequest{
		WalletAddress: testWallet,
		MarketSlug:    "s",
	})
	require.NoError(t, err)
	require.Len(t, result.Positions, 1)
	assert.Equal(t, "tok-up", result.Positions[0].TokenID)
}

func TestTrack_DefaultSlugIsCurrentWindow(t *testing.T) {
	markets := &fakeMarkets{snap: binarySnapshot()}
	svc := NewPositionService(markets, &fakePositions{}, nil, nil, testLogger())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 15, 7, 12, 0, time.UTC)
	}

	_, err := svc.Track(context.Background(), TrackRequest{WalletAddress: testWallet})
	require.NoError(t, err)
	assert.Equal(t, "15min-up-down-20260901-1500", markets.slug)
}

func TestTrack_InvalidWallet(t *testing.T) {
	svc := NewPositionService(&fakeMarkets{}, &fakePositions{}, nil, nil, testLogger())

	tests := []struct {
		name   string
		wallet string
	}{
		{"empty", ""},
		{"not hex", "polymarket-wallet"},
		{"too short", "0x1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Track(context.Background(), TrackRequest{WalletAddress: tt.wallet})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
