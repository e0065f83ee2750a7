package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

// DataClient is the REST client for the Polymarket Data API, which reports
// wallet positions.
type DataClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDataClient creates a new Data API client.
//
// baseURL is the Data API root, e.g. "https://data-api.polymarket.com".
func NewDataClient(baseURL string) *DataClient {
	return &DataClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetPositions returns the wallet's positions restricted to the given token
// ids. Positions in other markets are filtered out client-side; an empty
// tokenIDs slice returns every position.
func (d *DataClient) GetPositions(ctx context.Context, wallet string, tokenIDs []string) ([]PositionData, error) {
	params := url.Values{}
	params.Set("user", wallet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/positions?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("polymarket/data: get positions: %w: %v", domain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("polymarket/data: get positions: %w: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: read response: %w: %v", domain.ErrExternalAPI, err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, fmt.Errorf("polymarket/data: get positions: %w", err)
	}

	var payload struct {
		Positions []PositionData `json:"positions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode positions: %w: %v", domain.ErrExternalAPI, err)
	}

	if len(tokenIDs) == 0 {
		return payload.Positions, nil
	}

	filtered := make([]PositionData, 0, len(payload.Positions))
	for _, p := range payload.Positions {
		if slices.Contains(tokenIDs, p.TokenID) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
