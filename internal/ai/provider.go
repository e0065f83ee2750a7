// Package ai wraps the interchangeable analysis providers behind a single
// gateway that adds bounded retry and cross-provider failover. Providers only
// return raw completion text; the gateway owns parsing it into a
// domain.Analysis.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

// Kind identifies an analysis provider.
type Kind string

const (
	KindGrok   Kind = "grok"
	KindOpenAI Kind = "openai"
)

// DefaultKind is the provider used when a request does not name one.
const DefaultKind = KindGrok

// failoverKind is the single alternate tried when the default provider
// exhausts its retries.
const failoverKind = KindOpenAI

// ParseKind maps a request's model field to a provider Kind. An empty value
// selects the default; anything other than "openai" falls through to grok,
// matching how callers have always been routed.
func ParseKind(s string) Kind {
	if s == string(KindOpenAI) {
		return KindOpenAI
	}
	return KindGrok
}

// Provider is one analysis backend. Complete sends a prompt to the provider's
// completion endpoint and returns the raw response text.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Config holds provider credentials and endpoints. BaseURL fields exist so
// tests can point clients at local servers; empty means the production
// endpoint.
type Config struct {
	GrokAPIKey    string
	GrokBaseURL   string
	GrokModel     string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Timeout       time.Duration
}

// Factory builds a Provider for a Kind. The gateway takes a Factory rather
// than concrete clients so tests can substitute fakes.
type Factory func(Kind) (Provider, error)

// NewFactory returns a Factory backed by the real HTTP clients. The HTTP
// client is shared across providers and safe for concurrent use.
func NewFactory(cfg Config) Factory {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return func(kind Kind) (Provider, error) {
		switch kind {
		case KindGrok:
			if cfg.GrokAPIKey == "" {
				return nil, fmt.Errorf("%w: grok api key not configured", domain.ErrValidation)
			}
			return NewGrokClient(cfg.GrokBaseURL, cfg.GrokAPIKey, cfg.GrokModel, httpClient), nil
		case KindOpenAI:
			if cfg.OpenAIAPIKey == "" {
				return nil, fmt.Errorf("%w: openai api key not configured", domain.ErrValidation)
			}
			return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, httpClient), nil
		default:
			return nil, fmt.Errorf("%w: unknown ai provider %q", domain.ErrValidation, kind)
		}
	}
}
