package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
)

// MenuUseCase handles menu maintenance.
type MenuUseCase struct {
	menuRepo MenuRepository
}

// NewMenuUseCase creates a new MenuUseCase.
func NewMenuUseCase(menuRepo MenuRepository) *MenuUseCase {
	return &MenuUseCase{menuRepo: menuRepo}
}

// MenuItemInput holds the editable fields of a dish.
type MenuItemInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
}

// List returns the whole menu.
func (uc *MenuUseCase) List(ctx context.Context) ([]*domain.MenuItem, error) {
	return uc.menuRepo.List(ctx)
}

// Get returns one dish.
func (uc *MenuUseCase) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	items, err := uc.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", domain.ErrMenuItemNotFound, id)
}

// Create adds a dish to the menu.
func (uc *MenuUseCase) Create(ctx context.Context, input MenuItemInput) (*domain.MenuItem, error) {
	item := &domain.MenuItem{
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return uc.menuRepo.Create(ctx, item)
}

// Update replaces the editable fields of a dish.
func (uc *MenuUseCase) Update(ctx context.Context, id int64, input MenuItemInput) (*domain.MenuItem, error) {
	item := &domain.MenuItem{
		ID:       id,
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return uc.menuRepo.Update(ctx, item)
}

// Delete removes a dish.
func (uc *MenuUseCase) Delete(ctx context.Context, id int64) error {
	return uc.menuRepo.Delete(ctx, id)
}
