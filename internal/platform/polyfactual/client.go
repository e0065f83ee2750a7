// Package polyfactual is the REST client for the Polyfactual deep-research
// API. Research calls can run for minutes, so the client carries its own
// long timeout.
package polyfactual

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

const (
	defaultBaseURL = "https://api.polyfactual.com"

	// MaxQueryLength caps the research query size accepted upstream.
	MaxQueryLength = 1000

	requestTimeout = 5 * time.Minute
)

// Citation is one source backing a research answer.
type Citation struct {
	Source    string  `json:"source"`
	URL       string  `json:"url,omitempty"`
	Relevance float64 `json:"relevance"`
}

// Result is a research answer with its citations.
type Result struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// Client calls the Polyfactual research endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Polyfactual client. Empty baseURL selects the
// production endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Research runs one deep-research query.
func (c *Client) Research(ctx context.Context, query string) (Result, error) {
	if query == "" {
		return Result{}, fmt.Errorf("polyfactual: %w: query is required", domain.ErrValidation)
	}
	if len(query) > MaxQueryLength {
		return Result{}, fmt.Errorf("polyfactual: %w: query exceeds %d characters", domain.ErrValidation, MaxQueryLength)
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return Result{}, fmt.Errorf("polyfactual: %w: marshal request: %v", domain.ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/research", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("polyfactual: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("polyfactual: research: %w: %v", domain.ErrTimeout, err)
		}
		return Result{}, fmt.Errorf("polyfactual: research: %w: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("polyfactual: read response: %w: %v", domain.ErrExternalAPI, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			return Result{}, fmt.Errorf("polyfactual: research: %w: %s", domain.ErrRateLimited, body)
		}
		return Result{}, fmt.Errorf("polyfactual: research: %w: HTTP %d: %s", domain.ErrExternalAPI, resp.StatusCode, body)
	}

	var raw struct {
		Answer    string `json:"answer"`
		Citations []struct {
			Source    string   `json:"source"`
			URL       string   `json:"url"`
			Relevance *float64 `json:"relevance"`
		} `json:"citations"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("polyfactual: decode response: %w: %v", domain.ErrExternalAPI, err)
	}

	result := Result{Answer: raw.Answer, Citations: make([]Citation, 0, len(raw.Citations))}
	for _, c := range raw.Citations {
		relevance := 0.0
		if c.Relevance != nil {
			relevance = *c.Relevance
		}
		result.Citations = append(result.Citations, Citation{
			Source:    c.Source,
			URL:       c.URL,
			Relevance: relevance,
		})
	}
	return result, nil
}
