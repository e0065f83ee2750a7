package ai

import (
	"context"
	"net/http"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com"
	openAIDefaultModel   = "gpt-4o-mini"
)

// OpenAIClient talks to the OpenAI chat completions API.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAI provider. Empty baseURL and model select
// the production endpoint and default model.
func NewOpenAIClient(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return chatCompletion(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", c.apiKey, c.model, prompt)
}

func (c *OpenAIClient) Name() string { return string(KindOpenAI) }
