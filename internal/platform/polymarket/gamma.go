package polymarket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

// GammaClient is the REST client for the Polymarket Gamma API, which provides
// market metadata for a known slug.
type GammaClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
// apiKey is optional; when set it is sent as a bearer token.
func NewGammaClient(baseURL, apiKey string) *GammaClient {
	return &GammaClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetMarketBySlug returns the snapshot for a single market looked up by slug.
func (g *GammaClient) GetMarketBySlug(ctx context.Context, slug string) (domain.Snapshot, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(slug))

	body, err := g.doGet(ctx, path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("polymarket/gamma: get market by slug %s: %w", slug, err)
	}

	var apiMarket APIMarket
	if err := json.Unmarshal(body, &apiMarket); err != nil {
		return domain.Snapshot{}, fmt.Errorf("polymarket/gamma: decode market: %w: %v", domain.ErrExternalAPI, err)
	}

	return apiMarket.ToSnapshot(), nil
}

// doGet sends a GET request to the Gamma API and returns the raw body.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrExternalAPI, err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}
