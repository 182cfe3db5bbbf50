package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/restoledger/internal/domain"
)

// ExpenseUseCase handles expense bookkeeping.
type ExpenseUseCase struct {
	expenseRepo ExpenseRepository
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(expenseRepo ExpenseRepository) *ExpenseUseCase {
	return &ExpenseUseCase{expenseRepo: expenseRepo}
}

// ExpenseInput holds the editable fields of an expense.
type ExpenseInput struct {
	Date     string
	Concept  string
	Amount   decimal.Decimal
	Category string
}

func (in ExpenseInput) expense(id int64) *domain.Expense {
	return &domain.Expense{
		ID:       id,
		Date:     in.Date,
		Concept:  in.Concept,
		Amount:   in.Amount,
		Category: in.Category,
	}
}

// List returns expenses matching the filter.
func (uc *ExpenseUseCase) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	if err := domain.ValidateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	if filter.From != "" && filter.To != "" && filter.To < filter.From {
		filter.From, filter.To = filter.To, filter.From
	}
	if strings.TrimSpace(filter.Category) != "" {
		filter.Category = domain.NormalizeCategory(filter.Category)
	}
	filter.Limit = domain.ClampLimit(filter.Limit, AccountingFetchLimit, MaxListLimit)

	return uc.expenseRepo.List(ctx, filter)
}

// Create records a new expense.
func (uc *ExpenseUseCase) Create(ctx context.Context, input ExpenseInput) (*domain.Expense, error) {
	e := input.expense(0)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return uc.expenseRepo.Create(ctx, e)
}

// Update replaces an existing expense.
func (uc *ExpenseUseCase) Update(ctx context.Context, id int64, input ExpenseInput) (*domain.Expense, error) {
	e := input.expense(id)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return uc.expenseRepo.Update(ctx, e)
}

// Delete removes an expense.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id int64) error {
	return uc.expenseRepo.Delete(ctx, id)
}

// Categories returns the default categories followed by any other category
// found in recent expenses, alphabetically.
func (uc *ExpenseUseCase) Categories(ctx context.Context) ([]string, error) {
	expenses, err := uc.expenseRepo.List(ctx, domain.ExpenseFilter{Limit: AccountingFetchLimit})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(domain.DefaultExpenseCategories))
	for _, c := range domain.DefaultExpenseCategories {
		seen[c] = true
	}

	var extra []string
	for _, e := range expenses {
		c := domain.NormalizeCategory(e.Category)
		if seen[c] {
			continue
		}
		seen[c] = true
		extra = append(extra, c)
	}
	slices.Sort(extra)

	return append(slices.Clone(domain.DefaultExpenseCategories), extra...), nil
}
