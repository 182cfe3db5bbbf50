package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MovementType is the sign of a manual accounting movement.
type MovementType string

const (
	MovementIncome  MovementType = "INGRESO"
	MovementExpense MovementType = "GASTO"
)

// DefaultCategory returns the category used when none is given.
func (t MovementType) DefaultCategory() string {
	if t == MovementIncome {
		return "INGRESOS"
	}
	return "GASTOS"
}

// Movement is a manual journal entry.
type Movement struct {
	ID       int64
	Date     string
	Type     MovementType
	Concept  string
	Category string
	Amount   decimal.Decimal
}

// Validate normalizes and checks a movement before it is sent upstream.
func (m *Movement) Validate() error {
	m.Type = MovementType(strings.ToUpper(strings.TrimSpace(string(m.Type))))
	m.Concept = strings.TrimSpace(m.Concept)
	m.Category = strings.ToUpper(strings.TrimSpace(m.Category))
	m.Date = strings.TrimSpace(m.Date)

	if m.Type != MovementIncome && m.Type != MovementExpense {
		return fmt.Errorf("%w: %q", ErrInvalidMovement, m.Type)
	}
	if m.Category == "" {
		m.Category = m.Type.DefaultCategory()
	}
	if m.Concept == "" {
		return ErrEmptyConcept
	}
	if m.Amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, m.Amount)
	}
	if m.Date != "" {
		if err := ValidateDay(m.Date); err != nil {
			return err
		}
	}
	return nil
}
