package handler

import (
	"context"
	"net/http"

	"github.com/iho/restoledger/internal/adapter/http/dto"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// MovementService defines the behavior needed by MovementHandler.
type MovementService interface {
	List(ctx context.Context, limit int) ([]*domain.Movement, error)
	Create(ctx context.Context, input usecase.MovementInput) (*domain.Movement, error)
}

// MovementHandler handles manual accounting movements.
type MovementHandler struct {
	movementUC MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC MovementService) *MovementHandler {
	return &MovementHandler{movementUC: movementUC}
}

// List returns the latest movements.
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	movements, err := h.movementUC.List(r.Context(), parseIntQuery(r, "limit", 0))
	if err != nil {
		writeDomainError(w, "failed to list movements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.MovementsFromDomain(movements)))
}

// Create records a movement.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.MovementRequest
	if err := decodeJSON(r, w, &req); err != nil {
		writeDomainError(w, "invalid request body", err)
		return
	}

	movement, err := h.movementUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}
