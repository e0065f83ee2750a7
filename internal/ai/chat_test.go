package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictos/predictd/internal/domain"
)

func TestGrokClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "grok-beta", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "Will BTC be up")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	client := NewGrokClient(srv.URL, "test-key", "", srv.Client())
	got, err := client.Complete(context.Background(), BuildAnalysisPrompt(testSnapshot(), ""))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)
}

func TestChatCompletion_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "k", "", srv.Client())
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalAPI)
	assert.Contains(t, err.Error(), "502")
}

func TestChatCompletion_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGrokClient(srv.URL, "k", "", srv.Client())
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestChatCompletion_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewGrokClient(srv.URL, "k", "", srv.Client())
	_, err := client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalAPI)
	assert.Contains(t, err.Error(), "no content")
}

func TestBuildAnalysisPrompt(t *testing.T) {
	snap := testSnapshot()
	vol := 1234.5
	snap.Volume = &vol

	prompt := BuildAnalysisPrompt(snap, "Is the Up side cheap?")

	assert.Contains(t, prompt, "Will BTC be up at 15:45 UTC?")
	assert.Contains(t, prompt, "User Question: Is the Up side cheap?")
	assert.Contains(t, prompt, "Volume: 1234.50")
	assert.Contains(t, prompt, "Liquidity: n/a")
	assert.Contains(t, prompt, "- Up: $0.5200")
	assert.Contains(t, prompt, "- Down: $0.4800")
	assert.Contains(t, prompt, `"recommendation": "BUY_YES" | "BUY_NO" | "NO_TRADE"`)
}

func TestBuildAnalysisPrompt_DefaultQuestion(t *testing.T) {
	prompt := BuildAnalysisPrompt(testSnapshot(), "")
	assert.True(t, strings.Contains(prompt, defaultQuestion))
}
