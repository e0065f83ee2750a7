package ai

import (
	"context"
	"net/http"
)

const (
	grokDefaultBaseURL = "https://api.x.ai"
	grokDefaultModel   = "grok-beta"
)

// GrokClient talks to the x.ai chat completions API.
type GrokClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGrokClient creates a Grok provider. Empty baseURL and model select the
// production endpoint and default model.
func NewGrokClient(baseURL, apiKey, model string, httpClient *http.Client) *GrokClient {
	if baseURL == "" {
		baseURL = grokDefaultBaseURL
	}
	if model == "" {
		model = grokDefaultModel
	}
	return &GrokClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

func (c *GrokClient) Complete(ctx context.Context, prompt string) (string, error) {
	return chatCompletion(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", c.apiKey, c.model, prompt)
}

func (c *GrokClient) Name() string { return string(KindGrok) }
