package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultExpenseCategory is used when an expense has no category.
const DefaultExpenseCategory = "OTROS"

// DefaultExpenseCategories are always offered, whatever the stored data holds.
var DefaultExpenseCategories = []string{
	"OTROS",
	"INSUMOS",
	"SERVICIOS",
	"ALQUILER",
	"SUELDOS",
	"TRANSPORTE",
}

// Expense is an outgoing payment recorded by the operator.
type Expense struct {
	ID       int64
	Date     string // YYYY-MM-DD, empty when unknown
	Concept  string
	Amount   decimal.Decimal
	Category string
}

// NormalizeCategory uppercases a category, falling back to the default.
func NormalizeCategory(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return DefaultExpenseCategory
	}
	return c
}

// Validate normalizes and checks an expense before it is sent upstream.
func (e *Expense) Validate() error {
	e.Concept = strings.TrimSpace(e.Concept)
	e.Category = NormalizeCategory(e.Category)
	e.Date = strings.TrimSpace(e.Date)

	if e.Concept == "" {
		return ErrEmptyConcept
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, e.Amount)
	}
	if e.Date != "" {
		if err := ValidateDay(e.Date); err != nil {
			return err
		}
	}
	return nil
}

// ExpenseFilter narrows expense listings. Empty fields do not filter.
type ExpenseFilter struct {
	From     string
	To       string
	Category string
	Limit    int
}
