package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
)

// MovementUseCase handles manual journal movements.
type MovementUseCase struct {
	movementRepo MovementRepository
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(movementRepo MovementRepository) *MovementUseCase {
	return &MovementUseCase{movementRepo: movementRepo}
}

// MovementInput holds the fields of a new movement.
type MovementInput struct {
	Date     string
	Type     domain.MovementType
	Concept  string
	Category string
	Amount   decimal.Decimal
}

// List returns the latest movements.
func (uc *MovementUseCase) List(ctx context.Context, limit int) ([]*domain.Movement, error) {
	return uc.movementRepo.List(ctx, domain.ClampLimit(limit, AccountingFetchLimit, MaxListLimit))
}

// Create records a movement.
func (uc *MovementUseCase) Create(ctx context.Context, input MovementInput) (*domain.Movement, error) {
	m := &domain.Movement{
		Date:     input.Date,
		Type:     input.Type,
		Concept:  input.Concept,
		Category: input.Category,
		Amount:   input.Amount,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return uc.movementRepo.Create(ctx, m)
}
