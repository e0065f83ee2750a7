package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/predictos/predictd/internal/domain"
)

// Usage reports which provider answered and how many failovers it took,
// for the response metadata block.
type Usage struct {
	Model    string
	Failover int
}

// Gateway turns a market snapshot into an AI verdict. Each provider call is
// wrapped in bounded retry; when the default provider exhausts its budget the
// gateway re-issues the full request (prompt rebuilt) against the single
// alternate provider, once. A request that resolves to the non-default
// provider never fails over. Worst case is 6 upstream calls per request.
type Gateway struct {
	factory Factory
	retry   retrier
	logger  *slog.Logger
}

// NewGateway creates a Gateway over the given provider factory.
func NewGateway(factory Factory, logger *slog.Logger) *Gateway {
	logger = logger.With(slog.String("component", "ai_gateway"))
	return &Gateway{
		factory: factory,
		retry:   newRetrier(logger),
		logger:  logger,
	}
}

// Analyze requests a verdict on snap. preferred is the provider named by the
// caller; empty selects the default. Failover applies whenever the request
// resolves to the default provider, whether it was named or defaulted.
func (g *Gateway) Analyze(ctx context.Context, snap *domain.Snapshot, question string, preferred Kind) (domain.Analysis, Usage, error) {
	kind := preferred
	if kind == "" {
		kind = DefaultKind
	}

	analysis, model, err := g.analyzeWith(ctx, kind, snap, question)
	if err == nil {
		return analysis, Usage{Model: model}, nil
	}
	if kind != DefaultKind || errors.Is(err, domain.ErrValidation) {
		return domain.Analysis{}, Usage{Model: model}, err
	}

	g.logger.WarnContext(ctx, "ai: primary provider exhausted, failing over",
		slog.String("primary", string(kind)),
		slog.String("fallback", string(failoverKind)),
		slog.String("error", err.Error()),
	)

	analysis, model, err = g.analyzeWith(ctx, failoverKind, snap, question)
	if err != nil {
		return domain.Analysis{}, Usage{Model: model, Failover: 1}, err
	}
	return analysis, Usage{Model: model, Failover: 1}, nil
}

// analyzeWith runs the full prompt→complete→parse path against one provider
// under the retry policy.
func (g *Gateway) analyzeWith(ctx context.Context, kind Kind, snap *domain.Snapshot, question string) (domain.Analysis, string, error) {
	provider, err := g.factory(kind)
	if err != nil {
		return domain.Analysis{}, string(kind), err
	}

	prompt := BuildAnalysisPrompt(snap, question)

	var analysis domain.Analysis
	err = g.retry.do(ctx, provider.Name(), func(ctx context.Context) error {
		raw, err := provider.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		parsed, err := parseAnalysis(raw)
		if err != nil {
			return err
		}
		analysis = parsed
		return nil
	})
	if err != nil {
		return domain.Analysis{}, provider.Name(), err
	}

	return analysis, provider.Name(), nil
}

// parseAnalysis decodes the provider's raw completion text into an Analysis.
// A malformed body counts as an external failure, so it participates in the
// retry budget.
func parseAnalysis(raw string) (domain.Analysis, error) {
	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: parse analysis JSON: %v", domain.ErrExternalAPI, err)
	}
	if err := analysis.Validate(); err != nil {
		return domain.Analysis{}, err
	}
	return analysis, nil
}
