package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/predictos/predictd/internal/service"
)

// AnalyzeService defines the methods the analyze handler requires from the
// service layer.
type AnalyzeService interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) (*service.AnalyzeResult, error)
}

// AnalyzeHandler serves the market analysis endpoint.
type AnalyzeHandler struct {
	analysis AnalyzeService
	logger   *slog.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler with the given service and logger.
func NewAnalyzeHandler(analysis AnalyzeService, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
		logger:   logger,
	}
}

// AnalyzeMarket fetches a market by URL and returns an AI trade verdict.
// POST /api/analyze-event-markets
func (h *AnalyzeHandler) AnalyzeMarket(w http.ResponseWriter, r *http.Request) {
	var req service.AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.analysis.Analyze(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: analyze failed",
			slog.String("url", req.URL),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
