package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/predictos/predictd/internal/ai"
	"github.com/predictos/predictd/internal/domain"
)

// strongBuyConfidence is the alert threshold for actionable verdicts.
const strongBuyConfidence = 0.8

// SnapshotFetcher resolves a public market URL to a normalized snapshot.
type SnapshotFetcher interface {
	GetMarketByURL(ctx context.Context, marketURL string) (domain.Snapshot, error)
}

// VerdictGateway produces an AI verdict for a snapshot.
type VerdictGateway interface {
	Analyze(ctx context.Context, snap *domain.Snapshot, question string, preferred ai.Kind) (domain.Analysis, ai.Usage, error)
}

// AnalyzeRequest is the input for one market analysis.
type AnalyzeRequest struct {
	URL      string `json:"url"`
	Question string `json:"question,omitempty"`
	Model    string `json:"model,omitempty"`
}

// AnalyzeResult is the full analysis response payload.
type AnalyzeResult struct {
	Recommendation domain.Recommendation `json:"recommendation"`
	Analysis       domain.Analysis       `json:"analysis"`
	MarketData     domain.Snapshot       `json:"market_data"`
	Meta           domain.Meta           `json:"metadata"`
}

// AnalysisService runs the snapshot-fetch → AI-verdict pipeline.
type AnalysisService struct {
	markets SnapshotFetcher
	gateway VerdictGateway
	events  EventPublisher
	alerts  Alerter
	logger  *slog.Logger
}

// NewAnalysisService creates an AnalysisService. events and alerts may be nil.
func NewAnalysisService(markets SnapshotFetcher, gateway VerdictGateway, events EventPublisher, alerts Alerter, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		markets: markets,
		gateway: gateway,
		events:  orPublisher(events),
		alerts:  orAlerter(alerts),
		logger:  logger.With(slog.String("component", "analysis_service")),
	}
}

// Analyze fetches the market behind req.URL and asks the gateway for a
// verdict. The model field picks the provider; requests that resolve to the
// default provider fail over to the alternate when it exhausts its retries.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	start := time.Now()

	if req.URL == "" {
		return nil, fmt.Errorf("analysis: %w: url is required", domain.ErrValidation)
	}

	var preferred ai.Kind
	if req.Model != "" {
		preferred = ai.ParseKind(req.Model)
	}

	snap, err := s.markets.GetMarketByURL(ctx, req.URL)
	if err != nil {
		s.logger.ErrorContext(ctx, "analysis: market fetch failed",
			slog.String("url", req.URL),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	analysis, usage, err := s.gateway.Analyze(ctx, &snap, req.Question, preferred)
	if err != nil {
		return nil, err
	}

	result := &AnalyzeResult{
		Recommendation: analysis.Recommendation,
		Analysis:       analysis,
		MarketData:     snap,
		Meta:           domain.NewMeta(start, usage.Model, usage.Failover),
	}

	s.events.Publish(EventAnalysis, result)

	if analysis.Confidence >= strongBuyConfidence && analysis.Recommendation != domain.RecommendNoTrade {
		title := fmt.Sprintf("%s on %s", analysis.Recommendation, snap.Question)
		message := fmt.Sprintf("confidence %.2f — %s", analysis.Confidence, analysis.Reasoning)
		if err := s.alerts.Notify(ctx, EventAnalysis, title, message); err != nil {
			s.logger.WarnContext(ctx, "analysis: alert delivery failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}
