package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/predictos/predictd/internal/domain"
)

// chatRequest is the OpenAI-compatible chat completion payload used by both
// providers.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat chatFormat    `json:"response_format"`
	Temperature    float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatCompletion posts a single-message chat completion requesting strict
// JSON output and returns the content of the first choice.
func chatCompletion(ctx context.Context, client *http.Client, endpoint, apiKey, model, prompt string) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: chatFormat{Type: "json_object"},
		Temperature:    0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal completion request: %v", domain.ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create completion request: %v", domain.ErrInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: completion request: %v", domain.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: completion request: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read completion response: %v", domain.ErrExternalAPI, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: completion HTTP %d: %s", domain.ErrRateLimited, resp.StatusCode, respBody)
		}
		return "", fmt.Errorf("%w: completion HTTP %d: %s", domain.ErrExternalAPI, resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode completion response: %v", domain.ErrExternalAPI, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: completion response has no content", domain.ErrExternalAPI)
	}

	return parsed.Choices[0].Message.Content, nil
}
