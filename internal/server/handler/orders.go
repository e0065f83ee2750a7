package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/predictos/predictd/internal/domain"
	"github.com/predictos/predictd/internal/service"
)

// OrderService defines the methods the order handler requires from the
// service layer.
type OrderService interface {
	PlaceOrders(ctx context.Context, req service.PlaceOrdersRequest) (*service.PlaceOrdersResult, error)
}

// OrderHandler serves the limit order bot endpoint.
type OrderHandler struct {
	orders OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler with the given service and logger.
func NewOrderHandler(orders OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// partialOrdersResponse is the error body when placement failed after some
// orders were already submitted. Submitted orders are reported so the caller
// can reconcile.
type partialOrdersResponse struct {
	Error  string               `json:"error"`
	Status int                  `json:"status"`
	Orders []domain.OrderResult `json:"orders"`
	Logs   []string             `json:"logs"`
	Meta   domain.Meta          `json:"metadata"`
}

// PlaceOrders sizes and submits a straddle or ladder for a paired market.
// POST /api/limit-order-bot
func (h *OrderHandler) PlaceOrders(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrdersRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.orders.PlaceOrders(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: order placement failed",
			slog.String("market_slug", req.MarketSlug),
			slog.String("error", err.Error()),
		)
		if result != nil {
			status := statusFromErr(err)
			writeJSON(w, status, partialOrdersResponse{
				Error:  err.Error(),
				Status: status,
				Orders: result.Orders,
				Logs:   result.Logs,
				Meta:   result.Meta,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
