// Package dome is the REST client for the Dome market aggregator, which
// normalizes Polymarket and Kalshi markets behind one endpoint.
package dome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

const defaultBaseURL = "https://api.dome.xyz/v1"

// Client fetches market snapshots from the Dome API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Dome client. Empty baseURL selects the production
// endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiMarket mirrors the Dome market payload.
type apiMarket struct {
	ID        string       `json:"id"`
	Question  string       `json:"question"`
	Slug      string       `json:"slug"`
	Ticker    string       `json:"ticker"`
	Outcomes  []apiOutcome `json:"outcomes"`
	Volume24h *float64     `json:"volume_24h"`
	Liquidity *float64     `json:"liquidity"`
}

type apiOutcome struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Volume24h *float64 `json:"volume_24h"`
}

// GetMarketByURL resolves a public market URL to a platform and identifier,
// then fetches the normalized snapshot.
func (c *Client) GetMarketByURL(ctx context.Context, marketURL string) (domain.Snapshot, error) {
	platform, identifier, err := ResolveMarketURL(marketURL)
	if err != nil {
		return domain.Snapshot{}, err
	}

	path := fmt.Sprintf("/markets/%s/%s", platform, url.PathEscape(identifier))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("dome: get market %s: %w", identifier, err)
	}

	var m apiMarket
	if err := json.Unmarshal(body, &m); err != nil {
		return domain.Snapshot{}, fmt.Errorf("dome: decode market: %w: %v", domain.ErrExternalAPI, err)
	}

	return toSnapshot(m, platform), nil
}

// ResolveMarketURL extracts the platform and market identifier from a public
// market URL. Supported forms are polymarket.com/event/{slug} and
// kalshi.com/trade/{ticker}.
func ResolveMarketURL(raw string) (domain.Platform, string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid market URL: %v", domain.ErrValidation, err)
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case strings.Contains(host, "polymarket"):
		if slug, ok := strings.CutPrefix(parsed.Path, "/event/"); ok && slug != "" {
			return domain.PlatformPolymarket, slug, nil
		}
	case strings.Contains(host, "kalshi"):
		if ticker, ok := strings.CutPrefix(parsed.Path, "/trade/"); ok && ticker != "" {
			return domain.PlatformKalshi, ticker, nil
		}
	default:
		return "", "", fmt.Errorf("%w: unsupported platform in URL %q", domain.ErrValidation, raw)
	}

	return "", "", fmt.Errorf("%w: could not extract market identifier from URL %q", domain.ErrValidation, raw)
}

func toSnapshot(m apiMarket, platform domain.Platform) domain.Snapshot {
	outcomes := make([]domain.Outcome, 0, len(m.Outcomes))
	for _, o := range m.Outcomes {
		outcomes = append(outcomes, domain.Outcome{
			ID:       o.ID,
			Name:     o.Name,
			Price:    o.Price,
			Volume24: o.Volume24h,
		})
	}
	return domain.Snapshot{
		ID:        m.ID,
		Question:  m.Question,
		Slug:      m.Slug,
		Ticker:    m.Ticker,
		Platform:  platform,
		Outcomes:  outcomes,
		Volume:    m.Volume24h,
		Liquidity: m.Liquidity,
	}
}

// doGet sends an authenticated GET request and returns the raw body.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
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

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// checkStatus maps non-2xx status codes to domain errors.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrExternalAPI, statusCode, body)
	}
}
