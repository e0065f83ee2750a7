package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/predictos/predictd/internal/domain"
	"github.com/predictos/predictd/internal/platform/polyfactual"
)

// ResearchClient defines the methods the research handler requires.
type ResearchClient interface {
	Research(ctx context.Context, query string) (polyfactual.Result, error)
}

// ResearchHandler serves the deep-research endpoint.
type ResearchHandler struct {
	research ResearchClient
	logger   *slog.Logger
}

// NewResearchHandler creates a ResearchHandler with the given client and logger.
func NewResearchHandler(research ResearchClient, logger *slog.Logger) *ResearchHandler {
	return &ResearchHandler{
		research: research,
		logger:   logger,
	}
}

// researchRequest is the research endpoint request body.
type researchRequest struct {
	Query string `json:"query"`
}

// researchResponse wraps a research result with request metadata.
type researchResponse struct {
	Answer    string                 `json:"answer"`
	Citations []polyfactual.Citation `json:"citations"`
	Meta      domain.Meta            `json:"metadata"`
}

// RunResearch proxies one deep-research query to Polyfactual.
// POST /api/polyfactual-research
func (h *ResearchHandler) RunResearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req researchRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.research.Research(r.Context(), req.Query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: research failed",
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, researchResponse{
		Answer:    result.Answer,
		Citations: result.Citations,
		Meta:      domain.NewMeta(start, "", 0),
	})
}
