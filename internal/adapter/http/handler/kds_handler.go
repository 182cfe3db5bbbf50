package handler

import (
	"context"
	"net/http"

	"github.com/iho/restoledger/internal/adapter/http/dto"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// KDSService defines the behavior needed by KDSHandler.
type KDSService interface {
	Board(ctx context.Context) ([]usecase.Column, error)
	History(ctx context.Context) ([]usecase.Ticket, error)
	Move(ctx context.Context, id int64, status string) error
	Advance(ctx context.Context, id int64, current string) (domain.OrderStatus, error)
}

// KDSHandler serves the kitchen display.
type KDSHandler struct {
	kdsUC KDSService
}

// NewKDSHandler creates a new KDSHandler.
func NewKDSHandler(kdsUC KDSService) *KDSHandler {
	return &KDSHandler{kdsUC: kdsUC}
}

// Board returns live orders grouped by status.
func (h *KDSHandler) Board(w http.ResponseWriter, r *http.Request) {
	columns, err := h.kdsUC.Board(r.Context())
	if err != nil {
		writeDomainError(w, "failed to load board", err)
		return
	}

	writeJSON(w, http.StatusOK, columns)
}

// History returns recent orders, newest first.
func (h *KDSHandler) History(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.kdsUC.History(r.Context())
	if err != nil {
		writeDomainError(w, "failed to load history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(tickets))
}

// UpdateStatus moves an order to a status, or one step forward with "next".
func (h *KDSHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", err.Error())
		return
	}

	var req dto.OrderStatusRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	status := domain.OrderStatus(req.Status)
	if req.Status == "next" {
		status, err = h.kdsUC.Advance(r.Context(), id, req.Current)
	} else {
		err = h.kdsUC.Move(r.Context(), id, req.Status)
	}
	if err != nil {
		writeDomainError(w, "failed to update order", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": status})
}
