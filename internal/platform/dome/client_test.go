package dome

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictos/predictd/internal/domain"
)

const marketJSON = `{
  "id": "mkt-42",
  "question": "Will BTC be up at 15:45 UTC?",
  "slug": "btc-up-or-down-15min",
  "outcomes": [
    {"id": "tok-up", "name": "Up", "price": 0.52, "volume_24h": 1000.5},
    {"id": "tok-down", "name": "Down", "price": 0.48}
  ],
  "volume_24h": 2500.75,
  "liquidity": 800.0
}`

func TestGetMarketByURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets/polymarket/btc-up-or-down-15min", r.URL.Path)
		assert.Equal(t, "Bearer dome-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(marketJSON))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "dome-key")
	snap, err := client.GetMarketByURL(context.Background(), "https://polymarket.com/event/btc-up-or-down-15min")
	require.NoError(t, err)

	assert.Equal(t, "mkt-42", snap.ID)
	assert.Equal(t, domain.PlatformPolymarket, snap.Platform)
	require.Len(t, snap.Outcomes, 2)
	assert.Equal(t, "Up", snap.Outcomes[0].Name)
	assert.InDelta(t, 0.52, snap.Outcomes[0].Price, 1e-9)
	require.NotNil(t, snap.Outcomes[0].Volume24)
	assert.InDelta(t, 1000.5, *snap.Outcomes[0].Volume24, 1e-9)
	assert.Nil(t, snap.Outcomes[1].Volume24)
	require.NotNil(t, snap.Volume)
	assert.InDelta(t, 2500.75, *snap.Volume, 1e-9)
}

func TestGetMarketByURL_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such market", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k")
	_, err := client.GetMarketByURL(context.Background(), "https://kalshi.com/trade/BTC-15M")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveMarketURL(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		platform   domain.Platform
		identifier string
		wantErr    bool
	}{
		{"polymarket event", "https://polymarket.com/event/btc-15min", domain.PlatformPolymarket, "btc-15min", false},
		{"polymarket www", "https://www.polymarket.com/event/some-slug", domain.PlatformPolymarket, "some-slug", false},
		{"kalshi trade", "https://kalshi.com/trade/BTCUSD-24", domain.PlatformKalshi, "BTCUSD-24", false},
		{"unsupported host", "https://example.com/event/x", "", "", true},
		{"polymarket wrong path", "https://polymarket.com/markets/x", "", "", true},
		{"empty identifier", "https://polymarket.com/event/", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			platform, id, err := ResolveMarketURL(tc.url)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.platform, platform)
			assert.Equal(t, tc.identifier, id)
		})
	}
}
