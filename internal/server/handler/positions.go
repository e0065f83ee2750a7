package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/predictos/predictd/internal/domain"
	"github.com/predictos/predictd/internal/service"
)

// PositionService defines the methods the position handler requires from the
// service layer.
type PositionService interface {
	Track(ctx context.Context, req service.TrackRequest) (*service.TrackResult, error)
}

// PositionHandler serves the position tracker endpoint.
type PositionHandler struct {
	positions PositionService
	logger    *slog.Logger
}

// NewPositionHandler creates a PositionHandler with the given service and logger.
func NewPositionHandler(positions PositionService, logger *slog.Logger) *PositionHandler {
	return &PositionHandler{
		positions: positions,
		logger:    logger,
	}
}

// TrackPositions returns a wallet's Up/Down pair with its P&L classification.
// POST /api/position-tracker
func (h *PositionHandler) TrackPositions(w http.ResponseWriter, r *http.Request) {
	var req service.TrackRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.positions.Track(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: position tracking failed",
			slog.String("wallet", req.WalletAddress),
			slog.String("error", err.Error()),
		)
		writeDomainError(w, err)
		return
	}

	if result.Positions == nil {
		result.Positions = []domain.Position{}
	}

	writeJSON(w, http.StatusOK, result)
}
